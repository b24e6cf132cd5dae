package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/diva/internal/observability"
	"github.com/bnema/diva/internal/ports"
)

const DefaultRepeatPrefix = "!repeat "

type RunnerOptions struct {
	// RepeatPrefix marks lines that should be repeated back by the assistant.
	// An empty prefix disables the feature.
	RepeatPrefix string
}

// Runner drives one engine session: the tracker consumes events in the
// background while operator lines are dispatched from the calling goroutine.
type Runner struct {
	tracker      *Tracker
	dispatcher   *Dispatcher
	repeatPrefix string
}

func NewRunner(tracker *Tracker, dispatcher *Dispatcher, opts RunnerOptions) *Runner {
	return &Runner{tracker: tracker, dispatcher: dispatcher, repeatPrefix: opts.RepeatPrefix}
}

type inputLine struct {
	text string
	err  error
}

// Run returns nil when input reaches EOF. It returns the tracker's error as
// soon as the session dies, so a dead session never keeps accepting input.
func (r *Runner) Run(ctx context.Context, session ports.Session, input io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	trackerDone := make(chan error, 1)
	trackerStopped := make(chan struct{})
	go func() {
		defer close(trackerStopped)
		trackerDone <- r.tracker.Run(ctx, session)
	}()
	defer func() {
		cancel()
		<-trackerStopped
	}()

	lines := readLines(ctx, input)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-trackerDone:
			return err
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if line.err != nil {
				return fmt.Errorf("read input: %w", line.err)
			}
			// A line and the tracker's exit can be ready together; the exit wins.
			select {
			case err := <-trackerDone:
				return err
			default:
			}
			if err := r.handleLine(ctx, line.text); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) handleLine(ctx context.Context, line string) error {
	var (
		sent bool
		err  error
	)
	if r.repeatPrefix != "" && strings.HasPrefix(line, r.repeatPrefix) {
		sent, err = r.dispatcher.RepeatAfterMe(ctx, strings.TrimPrefix(line, r.repeatPrefix))
	} else {
		sent, err = r.dispatcher.Dispatch(ctx, line)
	}
	if err != nil {
		return fmt.Errorf("dispatch line: %w", err)
	}
	if !sent {
		observability.Logger().Debug("line dropped while a conversation turn is active")
	}
	return nil
}

// readLines feeds input lines to a channel that is closed at EOF. Lines have
// no length limit. The reader goroutine cannot be interrupted while blocked on
// a read; it exits with the process.
func readLines(ctx context.Context, input io.Reader) <-chan inputLine {
	out := make(chan inputLine)
	go func() {
		defer close(out)
		reader := bufio.NewReader(input)
		for {
			text, err := reader.ReadString('\n')
			if text != "" {
				select {
				case out <- inputLine{text: trimLineEnding(text)}:
				case <-ctx.Done():
					return
				}
			}
			if err == nil {
				continue
			}
			if !errors.Is(err, io.EOF) {
				select {
				case out <- inputLine{err: err}:
				case <-ctx.Done():
				}
			}
			return
		}
	}()
	return out
}

func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
