package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/metrics"
)

// User-visible texts of the test chat.
const (
	FallbackReply    = "Desculpe, ocorreu um erro ao processar sua mensagem. Tente novamente mais tarde."
	ReadyGreeting    = "Pronto! Envie uma mensagem para testar como eu responderia aos membros da sua igreja."
	InitFailedReply  = "Desculpe, não consegui iniciar nossa conversa. Verifique as configurações e tente novamente."
	HandoffNotice    = "--- Conversa transferida para o Atendimento Humano. ---"
	updatingGreeting = "Olá! Sou %s. Estou atualizando meu conhecimento com as informações mais recentes..."
)

var (
	ErrSessionNotReady   = errors.New("assistant session is not ready")
	ErrSessionBusy       = errors.New("assistant session is waiting for a reply")
	ErrSessionTerminated = errors.New("assistant session was handed off to a human")
)

type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateActive
	StateWaiting
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateActive:
		return "active"
	case StateWaiting:
		return "waiting"
	case StateTerminated:
		return "terminated"
	default:
		return "uninitialized"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for st := StateUninitialized; st <= StateTerminated; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", text)
}

// ActionSink carries out what a directive asks for. Implementations persist
// records and notify people; they never see replies without a directive.
type ActionSink interface {
	BookAppointment(ctx context.Context, churchID, sessionID uuid.UUID, a AppointmentDirective) error
	RegisterPrayer(ctx context.Context, churchID, sessionID uuid.UUID, p PrayerDirective) error
	Handoff(ctx context.Context, churchID, sessionID uuid.UUID, message string) error
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Turn struct {
	Role    Role         `json:"role"`
	Text    string       `json:"text"`
	Sources []llm.Source `json:"sources,omitempty"`
	At      time.Time    `json:"at"`
}

// ActionOutcome reports what happened to the directive of a turn.
type ActionOutcome struct {
	Status string `json:"status"` // "done" or "failed"
	Error  string `json:"error,omitempty"`
}

// SendResult is the outcome of one user turn.
type SendResult struct {
	Reply     string         `json:"reply"`
	Sources   []llm.Source   `json:"sources,omitempty"`
	State     State          `json:"state"`
	Directive *Directive     `json:"directive,omitempty"`
	Action    *ActionOutcome `json:"action,omitempty"`
	Rebuilt   bool           `json:"rebuilt"`
}

// Session is one conversation with a fixed grounding context. It accepts a
// single message at a time; a second Send while a reply is pending fails
// with ErrSessionBusy.
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	churchID  uuid.UUID
	agentName string
	state     State
	chat      llm.ChatSession
	sink      ActionSink
	timeout   time.Duration
	turns     []Turn
	context   Grounding

	createdAt  time.Time
	lastActive time.Time
}

func NewSession(churchID uuid.UUID, agentName string, sink ActionSink, timeout time.Duration) *Session {
	return newSession(uuid.New(), churchID, agentName, sink, timeout)
}

func newSession(id, churchID uuid.UUID, agentName string, sink ActionSink, timeout time.Duration) *Session {
	now := time.Now()
	return &Session{
		id:         id,
		churchID:   churchID,
		agentName:  orDefault(agentName, defaultAgentName),
		state:      StateUninitialized,
		sink:       sink,
		timeout:    timeout,
		createdAt:  now,
		lastActive: now,
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) ChurchID() uuid.UUID {
	return s.churchID
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Context returns the grounding the session was opened with.
func (s *Session) Context() Grounding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

// Initialize opens the provider chat with grounding as its system
// instruction. On failure the session returns to Uninitialized and may be
// initialised again.
func (s *Session) Initialize(ctx context.Context, provider llm.ChatProvider, grounding Grounding) error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return fmt.Errorf("cannot initialize session in state %s", s.state)
	}
	s.state = StateInitializing
	s.turns = []Turn{{Role: RoleAssistant, Text: fmt.Sprintf(updatingGreeting, s.agentName), At: time.Now()}}
	s.mu.Unlock()

	chat, err := provider.NewChat(ctx, grounding.Text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateUninitialized
		s.turns = []Turn{{Role: RoleAssistant, Text: InitFailedReply, At: time.Now()}}
		return fmt.Errorf("failed to open chat with %s: %w", provider.GetProviderName(), err)
	}

	s.chat = chat
	s.context = grounding
	s.state = StateReady
	s.turns = []Turn{{Role: RoleAssistant, Text: ReadyGreeting, At: time.Now()}}
	return nil
}

// Greeting is the opening assistant line of the conversation.
func (s *Session) Greeting() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.turns) == 0 {
		return ""
	}
	return s.turns[0].Text
}

// Send delivers one user message and waits for the reply. Provider failures
// are not returned: the user gets FallbackReply and the session stays usable.
func (s *Session) Send(ctx context.Context, message string) (*SendResult, error) {
	s.mu.Lock()
	switch s.state {
	case StateTerminated:
		s.mu.Unlock()
		return nil, ErrSessionTerminated
	case StateActive, StateWaiting:
		s.mu.Unlock()
		return nil, ErrSessionBusy
	case StateUninitialized, StateInitializing:
		s.mu.Unlock()
		return nil, ErrSessionNotReady
	}

	s.state = StateActive
	s.lastActive = time.Now()
	s.turns = append(s.turns, Turn{Role: RoleUser, Text: message, At: s.lastActive})
	chat := s.chat
	s.state = StateWaiting
	s.mu.Unlock()

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := chat.Send(callCtx, message)
	if err != nil {
		metrics.AssistantProviderErrors.Inc()
		log.Error().Err(err).
			Str("session_id", s.id.String()).
			Str("church_id", s.churchID.String()).
			Msg("❌ Provider call failed")

		return s.finish(RoleAssistant, FallbackReply, nil, StateReady), nil
	}

	directive := ExtractDirective(reply.Text)
	if directive.IsNone() {
		return s.finish(RoleAssistant, reply.Text, reply.Sources, StateReady), nil
	}

	metrics.AssistantDirectives.WithLabelValues(string(directive.Kind)).Inc()
	log.Info().
		Str("session_id", s.id.String()).
		Str("church_id", s.churchID.String()).
		Str("directive", string(directive.Kind)).
		Msg("📌 Directive extracted")

	if directive.Kind == DirectiveHandoff {
		result := s.handoff(directive.HandoffMessage)
		result.Directive = &directive
		result.Action = s.dispatch(ctx, directive)
		return result, nil
	}

	result := s.finish(RoleAssistant, reply.Text, reply.Sources, StateReady)
	result.Directive = &directive
	result.Action = s.dispatch(ctx, directive)
	return result, nil
}

func (s *Session) finish(role Role, text string, sources []llm.Source, next State) *SendResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, Turn{Role: role, Text: text, Sources: sources, At: time.Now()})
	if s.state == StateTerminated {
		// Discarded while the reply was in flight.
		next = StateTerminated
	}
	s.state = next
	s.lastActive = time.Now()

	return &SendResult{Reply: text, Sources: sources, State: next}
}

func (s *Session) handoff(message string) *SendResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.turns = append(s.turns,
		Turn{Role: RoleAssistant, Text: message, At: now},
		Turn{Role: RoleSystem, Text: HandoffNotice, At: now},
	)
	s.state = StateTerminated
	s.chat = nil
	s.lastActive = now

	metrics.AssistantSessions.WithLabelValues("terminated").Inc()
	return &SendResult{Reply: message, State: StateTerminated}
}

// Terminate ends the session without a handoff.
func (s *Session) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateTerminated
	s.chat = nil
}

func (s *Session) dispatch(ctx context.Context, d Directive) *ActionOutcome {
	if s.sink == nil {
		return nil
	}

	var err error
	switch d.Kind {
	case DirectiveAppointment:
		err = s.sink.BookAppointment(ctx, s.churchID, s.id, *d.Appointment)
	case DirectivePrayer:
		err = s.sink.RegisterPrayer(ctx, s.churchID, s.id, *d.Prayer)
	case DirectiveHandoff:
		err = s.sink.Handoff(ctx, s.churchID, s.id, d.HandoffMessage)
	}

	if err != nil {
		log.Warn().Err(err).
			Str("session_id", s.id.String()).
			Str("directive", string(d.Kind)).
			Msg("⚠️ Directive action failed")
		return &ActionOutcome{Status: "failed", Error: publicMessage(err)}
	}
	return &ActionOutcome{Status: "done"}
}

func publicMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal && appErr.Kind != apperr.KindProvider {
		return appErr.Message
	}
	return "Não foi possível registrar a ação"
}
