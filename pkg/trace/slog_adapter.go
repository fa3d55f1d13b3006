package trace

import (
	"context"
	"log/slog"
)

// SlogAdapter writes wire events to an slog.Logger.
// Useful for development when you want to watch the SCPI traffic live.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("dir", event.Direction.String()),
		slog.String("kind", event.Kind.String()),
	}

	if event.Payload != "" {
		attrs = append(attrs, slog.String("payload", event.Payload))
	}
	if event.Elapsed != nil {
		attrs = append(attrs, slog.Duration("elapsed", *event.Elapsed))
	}

	switch {
	case event.State != nil:
		attrs = append(attrs,
			slog.String("old_state", event.State.OldState),
			slog.String("new_state", event.State.NewState),
		)
		if event.State.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.State.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "scpi", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
