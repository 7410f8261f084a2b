package cartsync

import (
	"context"
	"log/slog"
)

// Notification is a non-blocking, user-visible message (a toast).
type Notification struct {
	Level   slog.Level
	Message string
	Err     error
}

// Notifier receives sync notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify logs the notification at its level.
func (l LogNotifier) Notify(n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{}
	if n.Err != nil {
		attrs = append(attrs, "error", n.Err)
	}
	logger.Log(context.Background(), n.Level, n.Message, attrs...)
}
