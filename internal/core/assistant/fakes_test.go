package assistant

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/llm"
)

// fakeProvider opens fakeChats that answer with respond.
type fakeProvider struct {
	mu           sync.Mutex
	respond      func(ctx context.Context, message string) (*llm.Reply, error)
	failOpen     error
	instructions []string
}

func (p *fakeProvider) NewChat(_ context.Context, systemInstruction string) (llm.ChatSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failOpen != nil {
		return nil, p.failOpen
	}
	p.instructions = append(p.instructions, systemInstruction)
	return &fakeChat{provider: p}, nil
}

func (p *fakeProvider) GetProviderName() string {
	return "fake"
}

func (p *fakeProvider) opened() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.instructions...)
}

type fakeChat struct {
	provider *fakeProvider
}

func (c *fakeChat) Send(ctx context.Context, message string) (*llm.Reply, error) {
	if c.provider.respond == nil {
		return &llm.Reply{Text: "Olá! Como posso ajudar?"}, nil
	}
	return c.provider.respond(ctx, message)
}

func replyWith(text string) func(context.Context, string) (*llm.Reply, error) {
	return func(context.Context, string) (*llm.Reply, error) {
		return &llm.Reply{Text: text}, nil
	}
}

type recordingSink struct {
	mu           sync.Mutex
	appointments []AppointmentDirective
	prayers      []PrayerDirective
	handoffs     []string
	err          error
}

func (s *recordingSink) BookAppointment(_ context.Context, _, _ uuid.UUID, a AppointmentDirective) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append(s.appointments, a)
	return s.err
}

func (s *recordingSink) RegisterPrayer(_ context.Context, _, _ uuid.UUID, p PrayerDirective) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prayers = append(s.prayers, p)
	return s.err
}

func (s *recordingSink) Handoff(_ context.Context, _, _ uuid.UUID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handoffs = append(s.handoffs, message)
	return s.err
}

type fakeLoader struct {
	mu    sync.Mutex
	snaps map[uuid.UUID]*Snapshot
	gates map[uuid.UUID]*loadGate
	loads int
}

// loadGate holds Load for one church until release is closed.
type loadGate struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newFakeLoader(snaps ...*Snapshot) *fakeLoader {
	l := &fakeLoader{snaps: make(map[uuid.UUID]*Snapshot), gates: make(map[uuid.UUID]*loadGate)}
	for _, s := range snaps {
		l.snaps[s.ChurchID] = s
	}
	return l
}

func (l *fakeLoader) Load(_ context.Context, churchID uuid.UUID) (*Snapshot, error) {
	l.mu.Lock()
	l.loads++
	snap, ok := l.snaps[churchID]
	g := l.gates[churchID]
	l.mu.Unlock()

	if g != nil {
		g.once.Do(func() { close(g.started) })
		<-g.release
	}
	if !ok {
		return nil, errors.New("church not found")
	}
	cp := *snap
	return &cp, nil
}

// hold makes the following loads of churchID wait for the returned gate.
func (l *fakeLoader) hold(churchID uuid.UUID) *loadGate {
	g := &loadGate{started: make(chan struct{}), release: make(chan struct{})}
	l.mu.Lock()
	l.gates[churchID] = g
	l.mu.Unlock()
	return g
}

func (l *fakeLoader) set(snap *Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snaps[snap.ChurchID] = snap
}
