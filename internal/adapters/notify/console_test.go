package notify

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleNotifierWritesOneLinePerMessage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	notifier := NewConsoleNotifier(&buf)

	notifier.ShowMessage("Saved. Will sync when you're back online.")
	notifier.ShowMessage("Your schedule was updated with offline changes.")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Will sync when you're back online.")
	assert.Contains(t, lines[1], "updated with offline changes")
}

func TestConsoleNotifierSkipsEmptyMessages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	notifier := NewConsoleNotifier(&buf)

	notifier.ShowMessage("")

	assert.Zero(t, buf.Len())
}

func TestConsoleNotifierSerializesConcurrentWrites(t *testing.T) {
	t.Parallel()

	var buf lockedBuffer
	notifier := NewConsoleNotifier(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			notifier.ShowMessage("message")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 8)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
