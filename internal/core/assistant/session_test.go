package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
)

func readySession(t *testing.T, p *fakeProvider, sink ActionSink) *Session {
	t.Helper()
	s := NewSession(uuid.New(), "Ana", sink, time.Second)
	require.Equal(t, StateUninitialized, s.State())
	require.NoError(t, s.Initialize(context.Background(), p, Grounding{Text: "contexto"}))
	require.Equal(t, StateReady, s.State())
	return s
}

func TestSession_Initialize(t *testing.T) {
	p := &fakeProvider{}
	s := readySession(t, p, nil)

	assert.Equal(t, []string{"contexto"}, p.opened())
	assert.Equal(t, ReadyGreeting, s.Greeting())
	assert.Equal(t, "contexto", s.Context().Text)
}

func TestSession_InitializeFailure(t *testing.T) {
	p := &fakeProvider{failOpen: errors.New("invalid api key")}
	s := NewSession(uuid.New(), "Ana", nil, 0)

	err := s.Initialize(context.Background(), p, Grounding{Text: "x"})

	require.Error(t, err)
	assert.Equal(t, StateUninitialized, s.State())
	assert.Equal(t, InitFailedReply, s.Greeting())

	_, err = s.Send(context.Background(), "Oi")
	assert.ErrorIs(t, err, ErrSessionNotReady)
}

func TestSession_SendPlainReply(t *testing.T) {
	p := &fakeProvider{respond: func(context.Context, string) (*llm.Reply, error) {
		return &llm.Reply{Text: "O culto é às 18h.", Sources: []llm.Source{{URI: "https://a.org", Title: "A"}}}, nil
	}}
	sink := &recordingSink{}
	s := readySession(t, p, sink)

	res, err := s.Send(context.Background(), "Que horas é o culto?")

	require.NoError(t, err)
	assert.Equal(t, "O culto é às 18h.", res.Reply)
	assert.Equal(t, StateReady, res.State)
	assert.Nil(t, res.Directive)
	assert.Nil(t, res.Action)
	assert.Len(t, res.Sources, 1)
	assert.Empty(t, sink.appointments)

	turns := s.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, RoleUser, turns[1].Role)
	assert.Equal(t, RoleAssistant, turns[2].Role)
}

func TestSession_HandoffTerminates(t *testing.T) {
	p := &fakeProvider{respond: replyWith("HUMAN_HANDOFF: Vou te transferir.")}
	sink := &recordingSink{}
	s := readySession(t, p, sink)

	res, err := s.Send(context.Background(), "Quero falar com um humano")

	require.NoError(t, err)
	assert.Equal(t, StateTerminated, res.State)
	assert.Equal(t, StateTerminated, s.State())
	assert.Equal(t, "Vou te transferir.", res.Reply)
	require.NotNil(t, res.Directive)
	assert.Equal(t, DirectiveHandoff, res.Directive.Kind)
	assert.Equal(t, []string{"Vou te transferir."}, sink.handoffs)

	turns := s.Turns()
	assert.Equal(t, HandoffNotice, turns[len(turns)-1].Text)
	assert.Equal(t, RoleSystem, turns[len(turns)-1].Role)

	_, err = s.Send(context.Background(), "Alô?")
	assert.ErrorIs(t, err, ErrSessionTerminated)
	assert.Len(t, s.Turns(), len(turns), "rejected send leaves history untouched")
}

func TestSession_ProviderFailureFallsBack(t *testing.T) {
	calls := 0
	p := &fakeProvider{respond: func(ctx context.Context, msg string) (*llm.Reply, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("503 overloaded")
		}
		return &llm.Reply{Text: "Agora sim."}, nil
	}}
	s := readySession(t, p, nil)

	res, err := s.Send(context.Background(), "Oi")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, res.Reply)
	assert.Equal(t, StateReady, res.State)

	res, err = s.Send(context.Background(), "Oi de novo")
	require.NoError(t, err)
	assert.Equal(t, "Agora sim.", res.Reply)
}

func TestSession_ProviderTimeoutFallsBack(t *testing.T) {
	p := &fakeProvider{respond: func(ctx context.Context, _ string) (*llm.Reply, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	s := NewSession(uuid.New(), "Ana", nil, 20*time.Millisecond)
	require.NoError(t, s.Initialize(context.Background(), p, Grounding{}))

	res, err := s.Send(context.Background(), "Oi")

	require.NoError(t, err)
	assert.Equal(t, FallbackReply, res.Reply)
	assert.Equal(t, StateReady, s.State())
}

func TestSession_RejectsConcurrentSend(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	p := &fakeProvider{respond: func(context.Context, string) (*llm.Reply, error) {
		close(entered)
		<-release
		return &llm.Reply{Text: "pronto"}, nil
	}}
	s := readySession(t, p, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, err := s.Send(context.Background(), "primeira")
		assert.NoError(t, err)
		assert.Equal(t, "pronto", res.Reply)
	}()

	<-entered
	assert.Equal(t, StateWaiting, s.State())

	_, err := s.Send(context.Background(), "segunda")
	assert.ErrorIs(t, err, ErrSessionBusy)

	close(release)
	wg.Wait()
	assert.Equal(t, StateReady, s.State())
}

func TestSession_AppointmentDirectiveDispatched(t *testing.T) {
	p := &fakeProvider{respond: replyWith("Ok, agendado. AGENDA_MARCADA: Maria Silva; Oração; 2024-10-28; 15:00")}
	sink := &recordingSink{}
	s := readySession(t, p, sink)

	res, err := s.Send(context.Background(), "Pode marcar?")

	require.NoError(t, err)
	assert.Equal(t, StateReady, res.State)
	assert.Contains(t, res.Reply, "AGENDA_MARCADA:", "reply text is kept verbatim")
	require.NotNil(t, res.Action)
	assert.Equal(t, "done", res.Action.Status)
	require.Len(t, sink.appointments, 1)
	assert.Equal(t, "Maria Silva", sink.appointments[0].Name)
}

func TestSession_PrayerActionFailureReported(t *testing.T) {
	p := &fakeProvider{respond: replyWith("Oramos. ORACAO_REGISTRADA: Carlos; c@x.com; Saúde")}
	sink := &recordingSink{err: apperr.Conflict("Horário já ocupado")}
	s := readySession(t, p, sink)

	res, err := s.Send(context.Background(), "Orem por mim")

	require.NoError(t, err)
	require.NotNil(t, res.Action)
	assert.Equal(t, "failed", res.Action.Status)
	assert.Equal(t, "Horário já ocupado", res.Action.Error)
	assert.Equal(t, StateReady, s.State())

	sink.err = errors.New("pq: connection refused")
	res, err = s.Send(context.Background(), "De novo")
	require.NoError(t, err)
	assert.Equal(t, "Não foi possível registrar a ação", res.Action.Error)
}

func TestSession_TerminatedWhileWaiting(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	p := &fakeProvider{respond: func(context.Context, string) (*llm.Reply, error) {
		close(entered)
		<-release
		return &llm.Reply{Text: "tarde demais"}, nil
	}}
	s := readySession(t, p, nil)

	done := make(chan *SendResult)
	go func() {
		res, _ := s.Send(context.Background(), "oi")
		done <- res
	}()

	<-entered
	s.Terminate()
	close(release)

	res := <-done
	assert.Equal(t, StateTerminated, res.State)
	assert.Equal(t, StateTerminated, s.State())
}

func TestState_String(t *testing.T) {
	text, err := StateWaiting.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "waiting", string(text))
	assert.Equal(t, "uninitialized", StateUninitialized.String())

	var st State
	require.NoError(t, st.UnmarshalText([]byte("terminated")))
	assert.Equal(t, StateTerminated, st)
	assert.Error(t, st.UnmarshalText([]byte("sleeping")))
}
