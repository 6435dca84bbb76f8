package scheduler

import "github.com/gen2brain/beeep"

// Notifier delivers an alert to the sitter.
type Notifier interface {
	Notify(title, message string) error
}

// DesktopNotifier shows alerts as desktop notifications.
type DesktopNotifier struct{}

func (DesktopNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}
