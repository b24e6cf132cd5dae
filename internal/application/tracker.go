package application

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bnema/diva/internal/domain"
	"github.com/bnema/diva/internal/observability"
	"github.com/bnema/diva/internal/ports"
)

// Tracker follows the engine lifecycle and owns the conversation-allowed flag.
// Only the goroutine running Run writes the flag; any goroutine may read it.
type Tracker struct {
	renderer ports.Renderer
	allowed  atomic.Bool
}

func NewTracker(renderer ports.Renderer) *Tracker {
	t := &Tracker{renderer: renderer}
	t.allowed.Store(true)
	return t
}

func (t *Tracker) ConversationAllowed() bool {
	return t.allowed.Load()
}

// Handle applies a single event. It returns domain.ErrFatalAssistantError when
// the engine reports a fatal error.
func (t *Tracker) Handle(event domain.Event) error {
	t.renderer.Event(event)

	switch event.Type {
	case domain.EventStartFinished:
		t.allowed.Store(true)
		t.renderer.Hint()
	case domain.EventConversationTurnStarted:
		t.allowed.Store(false)
	case domain.EventConversationTurnFinished,
		domain.EventConversationTurnTimeout,
		domain.EventNoResponse:
		t.allowed.Store(true)
	case domain.EventAssistantError:
		if event.IsFatal() {
			return fmt.Errorf("%w: %s", domain.ErrFatalAssistantError, event)
		}
	}

	return nil
}

// Run consumes session events until the stream ends, ctx is cancelled or a
// fatal error arrives. It never returns nil.
func (t *Tracker) Run(ctx context.Context, session ports.Session) error {
	logger := observability.WithFields("device_id", session.DeviceID())
	logger.Debug("event tracker started")

	events := session.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				if err := session.Err(); err != nil {
					logger.Warn("assistant session ended", "error", err)
					return fmt.Errorf("assistant session ended: %w", err)
				}
				return domain.ErrSessionClosed
			}
			logger.Debug("assistant event", "type", event.Type)
			if err := t.Handle(event); err != nil {
				logger.Error("fatal assistant error", "event", event.Type)
				return err
			}
		}
	}
}
