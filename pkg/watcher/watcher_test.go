package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/0xmhha/landing-dashboard/pkg/logger"
)

func startWatcher(t *testing.T, debounce time.Duration, files ...string) Watcher {
	t.Helper()

	w, err := New(Config{DebounceInterval: debounce}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := w.Close(); err != nil {
			t.Logf("Close() error = %v", err)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := w.Start(ctx, files); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return w
}

func TestNew(t *testing.T) {
	w, err := New(Config{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if w == nil {
		t.Fatal("New() returned nil watcher")
	}

	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("Close() error = %v", closeErr)
	}
}

func TestStartInvalidPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "feed.json")

	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if startErr := w.Start(context.Background(), []string{missing}); startErr != ErrInvalidPath {
		t.Errorf("Start() error = %v, want ErrInvalidPath", startErr)
	}
}

func TestStartAlreadyStarted(t *testing.T) {
	feed := filepath.Join(t.TempDir(), "feed.json")
	w := startWatcher(t, 50*time.Millisecond, feed)

	if startErr := w.Start(context.Background(), []string{feed}); startErr != ErrAlreadyStarted {
		t.Errorf("Start() error = %v, want ErrAlreadyStarted", startErr)
	}
}

func TestFeedFileModify(t *testing.T) {
	dir := t.TempDir()
	feed := filepath.Join(dir, "feed.json")
	if err := os.WriteFile(feed, []byte("[]"), 0600); err != nil {
		t.Fatalf("Failed to create feed file: %v", err)
	}

	w := startWatcher(t, 50*time.Millisecond, feed)

	if err := os.WriteFile(feed, []byte(`[{"fecha":"2025-07-28"}]`), 0600); err != nil {
		t.Fatalf("Failed to modify feed file: %v", err)
	}

	select {
	case event := <-w.Events():
		if event.Path != feed {
			t.Errorf("Event path = %s, want %s", event.Path, feed)
		}
		if event.Op != OpWrite && event.Op != OpCreate {
			t.Errorf("Event op = %s, want WRITE", event.Op)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for feed modify event")
	}
}

func TestFeedFileCreatedLater(t *testing.T) {
	feed := filepath.Join(t.TempDir(), "feed.json")
	w := startWatcher(t, 50*time.Millisecond, feed)

	if err := os.WriteFile(feed, []byte("[]"), 0600); err != nil {
		t.Fatalf("Failed to create feed file: %v", err)
	}

	select {
	case event := <-w.Events():
		if event.Path != feed {
			t.Errorf("Event path = %s, want %s", event.Path, feed)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for feed create event")
	}
}

func TestOtherFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, 50*time.Millisecond, filepath.Join(dir, "feed.json"))

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("[]"), 0600); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	select {
	case event := <-w.Events():
		t.Errorf("Received unexpected event for unwatched file: %v", event)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestDebouncing(t *testing.T) {
	dir := t.TempDir()
	feed := filepath.Join(dir, "feed.json")
	if err := os.WriteFile(feed, []byte("[]"), 0600); err != nil {
		t.Fatalf("Failed to create feed file: %v", err)
	}

	w := startWatcher(t, 200*time.Millisecond, feed)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(feed, []byte("[]"), 0600); err != nil {
			t.Fatalf("Failed to write feed file: %v", err)
		}
		time.Sleep(30 * time.Millisecond)
	}

	eventCount := 0
	timeout := time.After(time.Second)
loop:
	for {
		select {
		case <-w.Events():
			eventCount++
		case <-timeout:
			break loop
		}
	}

	if eventCount == 0 {
		t.Error("No events received")
	}
	if eventCount >= 5 {
		t.Errorf("Received %d events for 5 rapid writes, debouncing not working", eventCount)
	}
}

func TestForward(t *testing.T) {
	dir := t.TempDir()
	feed := filepath.Join(dir, "feed.json")
	w := startWatcher(t, 20*time.Millisecond, feed)

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Forward(ctx, w, func(Event) { calls.Add(1) })
		close(done)
	}()

	if err := os.WriteFile(feed, []byte("[]"), 0600); err != nil {
		t.Fatalf("Failed to write feed file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Error("Forward() never called fn")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Forward() did not return after cancel")
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
		{Op(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op.String() = %s, want %s", got, tt.want)
		}
	}
}

func TestStopNotStarted(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if stopErr := w.Stop(); stopErr != ErrNotStarted {
		t.Errorf("Stop() error = %v, want ErrNotStarted", stopErr)
	}
}

func TestCloseTwice(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("First Close() error = %v", closeErr)
	}
	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("Second Close() error = %v", closeErr)
	}
}

func TestStartAfterClose(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("Close() error = %v", closeErr)
	}

	startErr := w.Start(context.Background(), []string{filepath.Join(t.TempDir(), "feed.json")})
	if startErr != ErrWatcherClosed {
		t.Errorf("Start() error = %v, want ErrWatcherClosed", startErr)
	}
}
