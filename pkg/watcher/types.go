// Package watcher reports changes to local feed files.
//
// It uses fsnotify on the directory holding each feed file, so files that
// editors replace through rename are still tracked, and debounces bursts
// of events per file.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 200 * time.Millisecond,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Start(ctx, []string{"./feed.json"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	watcher.Forward(ctx, w, func(watcher.Event) { controller.Trigger() })
package watcher

import (
	"context"
	"time"
)

// Op describes a file operation type.
type Op uint32

// File operation types.
const (
	OpCreate Op = 1 << iota // File created
	OpWrite                 // File modified
	OpRemove                // File deleted
	OpRename                // File renamed/moved
	OpChmod                 // File permissions changed
)

// String returns a human-readable operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	case OpChmod:
		return "CHMOD"
	default:
		return "UNKNOWN"
	}
}

// Event represents a change to a watched file.
type Event struct {
	// Path is the cleaned path of the watched file.
	Path string

	// Op is the operation that triggered the event.
	Op Op

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Watcher monitors feed files.
type Watcher interface {
	// Start begins watching the given files. Files that do not exist yet
	// are watched as long as their directory exists.
	//
	// Returns ErrInvalidPath if no file could be watched.
	Start(ctx context.Context, files []string) error

	// Stop stops event processing.
	Stop() error

	// Events returns the channel of debounced file events.
	// The channel is closed by Close.
	Events() <-chan Event

	// Errors returns the channel of non-fatal watcher errors.
	// The channel is closed by Close.
	Errors() <-chan error

	// Close stops the watcher and releases resources.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the quiet period before an event is emitted.
	// Events for the same file within this interval are coalesced.
	// Default: 100ms.
	DebounceInterval time.Duration

	// CircuitBreakerThreshold is the number of fsnotify errors after which
	// ErrCircuitBreakerOpen is reported instead of the raw error.
	// Default: 5.
	CircuitBreakerThreshold int
}

// Forward calls fn for every event until ctx is done or the watcher is
// closed.
func Forward(ctx context.Context, w Watcher, fn func(Event)) {
	events := w.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			fn(ev)
		}
	}
}
