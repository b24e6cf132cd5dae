package domain

import (
	"fmt"
	"sort"
	"strings"
)

type EventType string

const (
	EventStartFinished              EventType = "ON_START_FINISHED"
	EventConversationTurnStarted    EventType = "ON_CONVERSATION_TURN_STARTED"
	EventConversationTurnFinished   EventType = "ON_CONVERSATION_TURN_FINISHED"
	EventConversationTurnTimeout    EventType = "ON_CONVERSATION_TURN_TIMEOUT"
	EventNoResponse                 EventType = "ON_NO_RESPONSE"
	EventAssistantError             EventType = "ON_ASSISTANT_ERROR"
	EventEndOfUtterance             EventType = "ON_END_OF_UTTERANCE"
	EventRecognizingSpeechFinished  EventType = "ON_RECOGNIZING_SPEECH_FINISHED"
	EventRespondingStarted          EventType = "ON_RESPONDING_STARTED"
	EventRespondingFinished         EventType = "ON_RESPONDING_FINISHED"
	EventMutedChanged               EventType = "ON_MUTED_CHANGED"
	EventRenderResponse             EventType = "ON_RENDER_RESPONSE"
	EventDeviceAction               EventType = "ON_DEVICE_ACTION"
	EventMediaStateChanged          EventType = "ON_MEDIA_STATE_CHANGED"
	EventAlertStarted               EventType = "ON_ALERT_STARTED"
	EventAlertFinished              EventType = "ON_ALERT_FINISHED"
	EventConversationTurnInProgress EventType = "ON_CONVERSATION_TURN_IN_PROGRESS"
)

// Event is a single lifecycle notification emitted by the assistant engine.
// Args carries the engine-specific payload and may be nil.
type Event struct {
	Type EventType
	Args map[string]any
}

// IsFatal reports whether the event is an assistant error flagged as fatal.
func (e Event) IsFatal() bool {
	if e.Type != EventAssistantError || e.Args == nil {
		return false
	}
	fatal, ok := e.Args["is_fatal"].(bool)
	return ok && fatal
}

func (e Event) String() string {
	if len(e.Args) == 0 {
		return string(e.Type)
	}

	keys := make([]string, 0, len(e.Args))
	for key := range e.Args {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", key, e.Args[key]))
	}
	return fmt.Sprintf("%s:\n  %s", e.Type, strings.Join(parts, "\n  "))
}
