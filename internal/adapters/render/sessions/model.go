// Package sessions renders the conference schedule as static terminal
// output, with saved markers and the tag facets derived from the bundle.
package sessions

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/confware/schedsync/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	bundle *domain.ScheduleBundle
	opts   RenderOptions
	styles styles
	output string
}

func newModel(bundle *domain.ScheduleBundle, opts RenderOptions) model {
	return model{
		bundle: bundle,
		opts:   opts,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.bundle, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func Render(bundle *domain.ScheduleBundle, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(bundle, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
