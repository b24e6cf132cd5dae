package ports

import (
	"context"

	"github.com/bnema/diva/internal/domain"
	"golang.org/x/oauth2"
)

type Engine interface {
	Open(ctx context.Context, tokens oauth2.TokenSource, deviceModelID string) (Session, error)
}

// Session is a live connection to the assistant engine. Events is closed when
// the session ends; Err then reports why.
type Session interface {
	DeviceID() string
	SetMicMute(ctx context.Context, muted bool) error
	StartConversation(ctx context.Context) error
	SendTextQuery(ctx context.Context, query string) error
	Events() <-chan domain.Event
	Err() error
	Close() error
}
