package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bnema/diva/internal/ports"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/oauth2"
)

const DefaultURL = "ws://127.0.0.1:9876/v1/session"

const (
	defaultEventBuffer      = 32
	defaultHandshakeTimeout = 10 * time.Second
)

// Engine opens sessions against an assistant engine daemon speaking JSON
// frames over a WebSocket.
type Engine struct {
	URL              string
	Dialer           *websocket.Dialer
	EventBuffer      int
	HandshakeTimeout time.Duration
}

var _ ports.Engine = Engine{}

func (e Engine) Open(ctx context.Context, tokens oauth2.TokenSource, deviceModelID string) (ports.Session, error) {
	if deviceModelID == "" {
		return nil, errors.New("device model id is required")
	}
	endpoint, err := e.endpoint()
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if tokens != nil {
		token, err := tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("obtain access token: %w", err)
		}
		header.Set("Authorization", token.Type()+" "+token.AccessToken)
	}

	conn, resp, err := e.dialer().DialContext(ctx, endpoint, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("open engine websocket: status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("open engine websocket: %w", err)
	}

	deviceID, err := e.handshake(ctx, conn, deviceModelID)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	session := newSession(conn, deviceID, e.eventBuffer())
	go session.readLoop()

	return session, nil
}

func (e Engine) handshake(ctx context.Context, conn *websocket.Conn, deviceModelID string) (string, error) {
	deadline := time.Now().Add(e.handshakeTimeout())
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)

	hello := frame{Type: frameHello, ID: uuid.NewString(), DeviceModelID: deviceModelID}
	if err := conn.WriteJSON(hello); err != nil {
		return "", fmt.Errorf("send engine hello: %w", err)
	}

	var ready frame
	if err := conn.ReadJSON(&ready); err != nil {
		return "", fmt.Errorf("read engine ready: %w", err)
	}

	switch ready.Type {
	case frameReady:
	case frameError:
		return "", fmt.Errorf("engine rejected session: %s", ready.Message)
	default:
		return "", fmt.Errorf("unexpected engine frame %q during handshake", ready.Type)
	}
	if ready.DeviceID == "" {
		return "", errors.New("engine ready frame missing device id")
	}

	_ = conn.SetWriteDeadline(time.Time{})
	_ = conn.SetReadDeadline(time.Time{})

	return ready.DeviceID, nil
}

func (e Engine) endpoint() (string, error) {
	raw := e.URL
	if raw == "" {
		raw = DefaultURL
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse engine url: %w", err)
	}
	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return "", errors.New("engine url must use ws or wss")
	}
	if parsed.Host == "" {
		return "", errors.New("engine url host is required")
	}

	return parsed.String(), nil
}

func (e Engine) dialer() *websocket.Dialer {
	if e.Dialer != nil {
		return e.Dialer
	}
	return websocket.DefaultDialer
}

func (e Engine) eventBuffer() int {
	if e.EventBuffer > 0 {
		return e.EventBuffer
	}
	return defaultEventBuffer
}

func (e Engine) handshakeTimeout() time.Duration {
	if e.HandshakeTimeout > 0 {
		return e.HandshakeTimeout
	}
	return defaultHandshakeTimeout
}
