package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	analyticsadapter "github.com/confware/schedsync/internal/adapters/analytics"
	authadapter "github.com/confware/schedsync/internal/adapters/auth"
	"github.com/confware/schedsync/internal/adapters/notify"
	sqlitequeue "github.com/confware/schedsync/internal/adapters/queue/sqlite"
	sessionsrender "github.com/confware/schedsync/internal/adapters/render/sessions"
	"github.com/confware/schedsync/internal/adapters/transport/rest"
	"github.com/confware/schedsync/internal/application"
	"github.com/confware/schedsync/internal/domain"
)

const (
	userSchedulePath = "api/v1/user/schedule"
	devicePollWindow = 5 * time.Minute
)

type appConfig struct {
	apiBaseURL    string
	authBaseURL   string
	clientID      string
	analyticsURL  string
	dataDir       string
	replayEnabled bool
}

type app struct {
	cfg        appConfig
	logger     *slog.Logger
	transport  *rest.Client
	queue      *sqlitequeue.Store
	auth       *authadapter.Service
	deviceFlow authadapter.DeviceFlowAdapter

	gate       *application.ScheduleGate
	cache      *application.UserScheduleCache
	schedule   *application.ScheduleService
	bookmarks  *application.BookmarkService
	replay     *application.ReplayEngine
	reconciler *application.Reconciler

	renderer func(*domain.ScheduleBundle, sessionsrender.RenderOptions) (string, error)
}

func (a *app) userScheduleURL() string {
	return a.cfg.apiBaseURL + "/" + userSchedulePath
}

func (a *app) Close() error {
	if a.queue == nil {
		return nil
	}
	return a.queue.Close()
}

func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	logger := newLogger()

	authService := authadapter.NewService(
		authadapter.NewIdentityStore(filepath.Join(cfg.dataDir, "identity.toml")),
	)

	transport := rest.NewClient(rest.Config{
		Tokens:      authService,
		SnapshotDir: filepath.Join(cfg.dataDir, "snapshots"),
		Logger:      logger.With("component", "transport"),
	})

	queue, err := sqlitequeue.Open(filepath.Join(cfg.dataDir, "queue.db"))
	if err != nil {
		return nil, fmt.Errorf("open mutation queue: %w", err)
	}

	notifier := notify.NewConsoleNotifier(os.Stderr)
	collector := analyticsadapter.NewCollector(analyticsadapter.CollectorConfig{
		Endpoint: cfg.analyticsURL,
	})

	gate := application.NewScheduleGate()
	userScheduleURL := cfg.apiBaseURL + "/" + userSchedulePath
	cache := application.NewUserScheduleCache(transport, userScheduleURL, logger.With("component", "cache"))

	a := &app{
		cfg:        cfg,
		logger:     logger,
		transport:  transport,
		queue:      queue,
		auth:       authService,
		gate:       gate,
		cache:      cache,
		schedule:   application.NewScheduleService(transport, gate, cfg.apiBaseURL, logger.With("component", "schedule")),
		replay:     application.NewReplayEngine(transport, queue, notifier, logger.With("component", "replay"), cfg.replayEnabled),
		reconciler: application.NewReconciler(gate, cache, logger.With("component", "reconciler")),
		renderer:   sessionsrender.Render,
		deviceFlow: authadapter.DeviceFlowAdapter{
			API: authadapter.API{
				BaseURL:        cfg.authBaseURL,
				DeviceCodePath: "/oauth/device/code",
				TokenPath:      "/oauth/token",
			},
			HTTPClient: http.DefaultClient,
		},
	}

	a.bookmarks = application.NewBookmarkService(application.BookmarkConfig{
		Transport: transport,
		Queue:     queue,
		Auth:      authService,
		Cache:     cache,
		Notifier:  notifier,
		Analytics: collector,
		BaseURL:   cfg.apiBaseURL,
		Logger:    logger.With("component", "bookmarks"),
	})

	return a, nil
}

func loadConfig() (appConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return appConfig{}, fmt.Errorf("resolve home directory: %w", err)
	}
	defaultDataDir := filepath.Join(homeDir, ".schedsync")

	v := viper.New()
	v.SetDefault("api.base_url", "https://api.confsync.example.com")
	v.SetDefault("auth.base_url", "https://accounts.confsync.example.com")
	v.SetDefault("auth.client_id", "scs-cli")
	v.SetDefault("analytics.url", "")
	v.SetDefault("data.dir", defaultDataDir)
	v.SetDefault("replay.enabled", true)

	v.SetEnvPrefix("SCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := filepath.Join(defaultDataDir, "config.toml")
	if _, statErr := os.Stat(configPath); statErr == nil {
		v.SetConfigFile(configPath)
		if readErr := v.ReadInConfig(); readErr != nil {
			return appConfig{}, fmt.Errorf("read config file: %w", readErr)
		}
	}

	return appConfig{
		apiBaseURL:    strings.TrimSuffix(v.GetString("api.base_url"), "/"),
		authBaseURL:   strings.TrimSuffix(v.GetString("auth.base_url"), "/"),
		clientID:      v.GetString("auth.client_id"),
		analyticsURL:  v.GetString("analytics.url"),
		dataDir:       v.GetString("data.dir"),
		replayEnabled: v.GetBool("replay.enabled"),
	}, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("SCS_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
