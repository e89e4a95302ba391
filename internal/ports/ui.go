// Package ports define the desktop integration interfaces.
// These let the session talk to media keys, notifications and the clipboard
// without depending on D-Bus or OS APIs directly.
package ports

import (
	"github.com/tejashwikalptaru/subtune/internal/domain"
)

// RemoteControl is a desktop media-control endpoint (MPRIS on Linux).
//
// Commands arrive asynchronously from the endpoint's own goroutine and are
// buffered on the channel. The session drains the channel without blocking.
// Now-playing metadata reaches the endpoint through the event bus.
type RemoteControl interface {
	// Commands returns the channel remote commands are delivered on.
	Commands() <-chan domain.RemoteCommand

	// Close unregisters the endpoint.
	Close() error
}

// Notifier shows desktop notifications.
type Notifier interface {
	Notify(title, message string) error
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}
