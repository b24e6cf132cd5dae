package engine

import "github.com/bnema/diva/internal/domain"

const (
	frameHello   = "hello"
	frameReady   = "ready"
	frameCommand = "command"
	frameEvent   = "event"
	frameError   = "error"
)

const (
	methodSetMicMute        = "set_mic_mute"
	methodStartConversation = "start_conversation"
	methodSendTextQuery     = "send_text_query"
)

// frame is the JSON envelope exchanged with the engine daemon in both directions.
type frame struct {
	Type          string         `json:"type"`
	ID            string         `json:"id,omitempty"`
	DeviceModelID string         `json:"device_model_id,omitempty"`
	DeviceID      string         `json:"device_id,omitempty"`
	Method        string         `json:"method,omitempty"`
	Params        map[string]any `json:"params,omitempty"`
	Event         *eventFrame    `json:"event,omitempty"`
	Message       string         `json:"message,omitempty"`
}

type eventFrame struct {
	Type string         `json:"type"`
	Args map[string]any `json:"args,omitempty"`
}

func (e eventFrame) toDomain() domain.Event {
	return domain.Event{Type: domain.EventType(e.Type), Args: e.Args}
}
