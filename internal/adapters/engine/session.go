package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/diva/internal/domain"
	"github.com/bnema/diva/internal/ports"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const closeGracePeriod = time.Second

type Session struct {
	conn     *websocket.Conn
	deviceID string
	events   chan domain.Event

	writeMu sync.Mutex

	errMu sync.Mutex
	err   error

	closeOnce sync.Once
	closed    chan struct{}
}

var _ ports.Session = (*Session)(nil)

func newSession(conn *websocket.Conn, deviceID string, buffer int) *Session {
	return &Session{
		conn:     conn,
		deviceID: deviceID,
		events:   make(chan domain.Event, buffer),
		closed:   make(chan struct{}),
	}
}

func (s *Session) DeviceID() string {
	return s.deviceID
}

func (s *Session) Events() <-chan domain.Event {
	return s.events
}

func (s *Session) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Session) SetMicMute(ctx context.Context, muted bool) error {
	return s.send(ctx, methodSetMicMute, map[string]any{"muted": muted})
}

func (s *Session) StartConversation(ctx context.Context) error {
	return s.send(ctx, methodStartConversation, nil)
}

func (s *Session) SendTextQuery(ctx context.Context, query string) error {
	return s.send(ctx, methodSendTextQuery, map[string]any{"query": query})
}

func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)

		s.writeMu.Lock()
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(closeGracePeriod))
		s.writeMu.Unlock()

		err = s.conn.Close()
	})
	return err
}

func (s *Session) send(ctx context.Context, method string, params map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-s.closed:
		return domain.ErrSessionClosed
	default:
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	deadline, _ := ctx.Deadline()
	_ = s.conn.SetWriteDeadline(deadline)

	command := frame{Type: frameCommand, ID: uuid.NewString(), Method: method, Params: params}
	if err := s.conn.WriteJSON(command); err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}
	return nil
}

func (s *Session) readLoop() {
	defer close(s.events)

	for {
		var incoming frame
		if err := s.conn.ReadJSON(&incoming); err != nil {
			s.finish(err)
			return
		}

		switch incoming.Type {
		case frameEvent:
			if incoming.Event == nil {
				continue
			}
			select {
			case s.events <- incoming.Event.toDomain():
			case <-s.closed:
				return
			}
		case frameError:
			s.setErr(fmt.Errorf("engine error: %s", incoming.Message))
			return
		}
	}
}

func (s *Session) finish(err error) {
	select {
	case <-s.closed:
		return
	default:
	}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		s.setErr(domain.ErrSessionClosed)
		return
	}
	s.setErr(fmt.Errorf("read engine frame: %w", errors.Join(domain.ErrSessionClosed, err)))
}

func (s *Session) setErr(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}
