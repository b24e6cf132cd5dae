package application

import (
	"context"
	"sync"

	"github.com/bnema/diva/internal/domain"
)

type fakeSession struct {
	mu       sync.Mutex
	calls    []string
	events   chan domain.Event
	err      error
	failOn   map[string]error
	deviceID string
	onSend   func(query string)
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		events:   make(chan domain.Event, 16),
		failOn:   map[string]error{},
		deviceID: "device-1",
	}
}

func (s *fakeSession) record(call string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	return s.failOn[call]
}

func (s *fakeSession) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeSession) DeviceID() string { return s.deviceID }

func (s *fakeSession) SetMicMute(_ context.Context, muted bool) error {
	if muted {
		return s.record("mute")
	}
	return s.record("unmute")
}

func (s *fakeSession) StartConversation(context.Context) error {
	return s.record("start")
}

func (s *fakeSession) SendTextQuery(_ context.Context, query string) error {
	if s.onSend != nil {
		s.onSend(query)
	}
	return s.record("send:" + query)
}

func (s *fakeSession) Events() <-chan domain.Event { return s.events }

func (s *fakeSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *fakeSession) Close() error { return nil }

// end closes the event stream, optionally recording why.
func (s *fakeSession) end(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.events)
}

type fakeRenderer struct {
	mu    sync.Mutex
	lines []string
}

func (r *fakeRenderer) add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *fakeRenderer) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func (r *fakeRenderer) Event(event domain.Event) { r.add("event:" + string(event.Type)) }
func (r *fakeRenderer) Hint()                    { r.add("hint") }
func (r *fakeRenderer) Echo(text string)         { r.add("echo:" + text) }
func (r *fakeRenderer) Sending(text string)      { r.add("sending:" + text) }
func (r *fakeRenderer) Registration(_, _ string, result domain.RegistrationResult) {
	r.add("registration:" + string(result))
}

type staticGate bool

func (g staticGate) ConversationAllowed() bool { return bool(g) }

type registryResponse struct {
	status int
	body   string
	err    error
}

type fakeRegistry struct {
	lookup   registryResponse
	create   registryResponse
	lookups  int
	creates  []domain.Device
	projects []string
}

func (r *fakeRegistry) GetDevice(_ context.Context, projectID, _ string) (int, []byte, error) {
	r.lookups++
	r.projects = append(r.projects, projectID)
	return r.lookup.status, []byte(r.lookup.body), r.lookup.err
}

func (r *fakeRegistry) CreateDevice(_ context.Context, projectID string, device domain.Device) (int, []byte, error) {
	r.creates = append(r.creates, device)
	r.projects = append(r.projects, projectID)
	return r.create.status, []byte(r.create.body), r.create.err
}
