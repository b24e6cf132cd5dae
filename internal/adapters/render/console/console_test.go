package console

import (
	"bytes"
	"testing"

	"github.com/bnema/diva/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRendererPrintsEventDumps(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	renderer := NewRenderer(&out, false)

	renderer.Event(domain.Event{Type: domain.EventStartFinished})
	renderer.Event(domain.Event{Type: domain.EventAssistantError, Args: map[string]any{"is_fatal": true}})

	assert.Contains(t, out.String(), "ON_START_FINISHED")
	assert.Contains(t, out.String(), "ON_ASSISTANT_ERROR")
	assert.Contains(t, out.String(), "is_fatal: true")
}

func TestRendererHintOnlyWhenInteractive(t *testing.T) {
	t.Parallel()

	var quiet bytes.Buffer
	NewRenderer(&quiet, false).Hint()
	assert.Empty(t, quiet.String())

	var tty bytes.Buffer
	NewRenderer(&tty, true).Hint()
	assert.Contains(t, tty.String(), "OK, Google")
}

func TestRendererSendingAndEcho(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	renderer := NewRenderer(&out, false)

	renderer.Echo("hello")
	renderer.Sending("hello")

	assert.Contains(t, out.String(), "hello\n")
	assert.Contains(t, out.String(), "Sending text message: hello")
}

func TestRendererRegistration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		result domain.RegistrationResult
		want   string
	}{
		{result: domain.RegistrationCreated, want: "Device dev-1 registered in project proj"},
		{result: domain.RegistrationAlreadyRegistered, want: "Device dev-1 already registered in project proj"},
		{result: domain.RegistrationSkipped, want: "registration skipped"},
	}

	for _, tc := range tests {
		t.Run(string(tc.result), func(t *testing.T) {
			var out bytes.Buffer
			NewRenderer(&out, false).Registration("proj", "dev-1", tc.result)
			assert.Contains(t, out.String(), tc.want)
		})
	}
}

func TestIsTerminalFalseForBuffers(t *testing.T) {
	t.Parallel()

	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
