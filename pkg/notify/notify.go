// Package notify raises desktop alerts when the dashboard loses its feed
// and when it recovers.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/0xmhha/landing-dashboard/pkg/logger"
	"github.com/0xmhha/landing-dashboard/pkg/refresh"
)

// Alert titles.
const (
	TitleFailing   = "Dashboard: error de conexión"
	TitleRecovered = "Dashboard: conexión restablecida"
)

// AlertFunc shows one alert.
type AlertFunc func(title, message string) error

// Notifier turns snapshot state changes into alerts. It alerts once when
// a cycle fails and once when a later cycle succeeds again.
type Notifier struct {
	alert  AlertFunc
	logger logger.Logger

	mu      sync.Mutex
	failing bool
}

// New creates a notifier using desktop alerts under appName.
func New(appName string, log logger.Logger) *Notifier {
	if appName != "" {
		beeep.AppName = appName
	}
	return NewWithAlert(func(title, message string) error {
		return beeep.Alert(title, message, "")
	}, log)
}

// NewWithAlert creates a notifier using alert.
func NewWithAlert(alert AlertFunc, log logger.Logger) *Notifier {
	if log == nil {
		log = logger.Noop()
	}
	return &Notifier{
		alert:  alert,
		logger: log.Component("notify"),
	}
}

// Observe inspects one snapshot.
func (n *Notifier) Observe(snap refresh.Snapshot) {
	n.mu.Lock()
	var title, message string
	switch {
	case snap.State == refresh.Error && !n.failing:
		n.failing = true
		title = TitleFailing
		message = "No se pudo actualizar el dashboard"
		if snap.Err != nil {
			message = fmt.Sprintf("%s: %v", message, snap.Err)
		}
	case snap.State == refresh.Ready && n.failing:
		n.failing = false
		title = TitleRecovered
		message = fmt.Sprintf("%d respuestas cargadas", snap.Summary.TotalResponses)
	}
	n.mu.Unlock()

	if title == "" {
		return
	}
	if err := n.alert(title, message); err != nil {
		n.logger.Warn("failed to show alert", "title", title, "error", err)
	}
}

// Run observes updates until ctx is done or the channel is closed.
func (n *Notifier) Run(ctx context.Context, updates <-chan refresh.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			n.Observe(snap)
		}
	}
}
