package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/diva/internal/domain"
	"github.com/bnema/diva/internal/observability"
	"github.com/bnema/diva/internal/ports"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type ConversationGate interface {
	ConversationAllowed() bool
}

type DispatcherOptions struct {
	RepeatPhrase string
}

// Dispatcher turns operator lines into text queries on the engine session.
type Dispatcher struct {
	session      ports.Session
	commands     domain.CommandTable
	gate         ConversationGate
	renderer     ports.Renderer
	repeatPhrase string
}

func NewDispatcher(session ports.Session, commands domain.CommandTable, gate ConversationGate, renderer ports.Renderer, opts DispatcherOptions) *Dispatcher {
	repeatPhrase := opts.RepeatPhrase
	if repeatPhrase == "" {
		repeatPhrase = domain.DefaultRepeatPhrase
	}

	return &Dispatcher{
		session:      session,
		commands:     commands,
		gate:         gate,
		renderer:     renderer,
		repeatPhrase: repeatPhrase,
	}
}

func (d *Dispatcher) Resolve(line string) string {
	return d.commands.Resolve(line)
}

// Dispatch resolves line through the command table and submits it as a query.
// It reports false when the line was dropped because a turn is in flight.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) (bool, error) {
	text := d.Resolve(line)
	d.renderer.Echo(text)
	return d.submit(ctx, text)
}

// RepeatAfterMe asks the assistant to repeat message back.
func (d *Dispatcher) RepeatAfterMe(ctx context.Context, message string) (bool, error) {
	return d.submit(ctx, d.repeatPhrase+" "+message)
}

func (d *Dispatcher) submit(ctx context.Context, text string) (bool, error) {
	if !d.gate.ConversationAllowed() {
		observability.Logger().Debug("conversation turn in flight, dropping line", "text", text)
		return false, nil
	}

	ctx, span := tracer.Start(ctx, "dispatch text query")
	defer span.End()
	span.SetAttributes(attribute.Int("query.length", len(text)))

	d.renderer.Sending(text)

	if err := d.converse(ctx, text); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch failed")
		return false, err
	}

	return true, nil
}

// converse mutes the microphone around the typed turn and always tries to
// unmute, even when a step fails.
func (d *Dispatcher) converse(ctx context.Context, text string) error {
	if err := d.session.SetMicMute(ctx, true); err != nil {
		return fmt.Errorf("mute microphone: %w", err)
	}

	var err error
	if startErr := d.session.StartConversation(ctx); startErr != nil {
		err = fmt.Errorf("start conversation: %w", startErr)
	} else if sendErr := d.session.SendTextQuery(ctx, text); sendErr != nil {
		err = fmt.Errorf("send text query: %w", sendErr)
	}

	if unmuteErr := d.session.SetMicMute(ctx, false); unmuteErr != nil {
		err = errors.Join(err, fmt.Errorf("unmute microphone: %w", unmuteErr))
	}

	return err
}
