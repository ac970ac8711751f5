package assistant

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/metrics"
)

// SnapshotLoader reads the current records of one church.
type SnapshotLoader interface {
	Load(ctx context.Context, churchID uuid.UUID) (*Snapshot, error)
}

type ManagerConfig struct {
	Provider   llm.ChatProvider
	Loader     SnapshotLoader
	Sink       ActionSink
	Serializer Serializer
	Timeout    time.Duration
	IdleTTL    time.Duration
}

// Manager owns the open sessions of every church. A change to a church's
// records marks its sessions stale; a stale session is rebuilt from a fresh
// snapshot on its next Send, losing its turns.
type Manager struct {
	cfg ManagerConfig

	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
}

type entry struct {
	churchID uuid.UUID

	mu      sync.Mutex // guards session, held across rebuilds
	session *Session

	// stale is set without e.mu so a slow rebuild never stalls Invalidate.
	stale atomic.Bool
}

func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*entry),
	}
}

// ProviderName names the text-generation backend in use.
func (m *Manager) ProviderName() string {
	return m.cfg.Provider.GetProviderName()
}

// Preview renders the grounding context a new session would receive.
func (m *Manager) Preview(ctx context.Context, churchID uuid.UUID) (Grounding, error) {
	snap, err := m.cfg.Loader.Load(ctx, churchID)
	if err != nil {
		return Grounding{}, err
	}
	return m.cfg.Serializer.Build(snap), nil
}

// Open starts a new session for churchID.
func (m *Manager) Open(ctx context.Context, churchID uuid.UUID) (*Session, error) {
	session, err := m.build(ctx, uuid.New(), churchID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[session.ID()] = &entry{churchID: churchID, session: session}
	m.mu.Unlock()

	metrics.AssistantSessions.WithLabelValues("opened").Inc()
	log.Info().
		Str("session_id", session.ID().String()).
		Str("church_id", churchID.String()).
		Str("provider", m.ProviderName()).
		Msg("💬 Assistant session opened")

	return session, nil
}

func (m *Manager) build(ctx context.Context, id, churchID uuid.UUID) (*Session, error) {
	snap, err := m.cfg.Loader.Load(ctx, churchID)
	if err != nil {
		return nil, err
	}

	grounding := m.cfg.Serializer.Build(snap)
	if grounding.DroppedFiles > 0 {
		log.Warn().
			Str("church_id", churchID.String()).
			Int("dropped_files", grounding.DroppedFiles).
			Msg("⚠️ Grounding context over limit, file references dropped")
	}

	session := newSession(id, churchID, snap.Agent.Name, m.cfg.Sink, m.cfg.Timeout)
	if err := session.Initialize(ctx, m.cfg.Provider, grounding); err != nil {
		metrics.AssistantProviderErrors.Inc()
		return nil, apperr.Provider(InitFailedReply, err)
	}
	return session, nil
}

// Get returns a session of churchID. Sessions of other churches are reported
// as not found.
func (m *Manager) Get(churchID, id uuid.UUID) (*Session, error) {
	e, err := m.lookup(churchID, id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session, nil
}

func (m *Manager) lookup(churchID, id uuid.UUID) (*entry, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || e.churchID != churchID {
		return nil, apperr.NotFound("Sessão não encontrada")
	}
	return e, nil
}

// Send delivers message to a session, rebuilding it first when its church's
// records changed since it was opened.
func (m *Manager) Send(ctx context.Context, churchID, id uuid.UUID, message string) (*SendResult, error) {
	e, err := m.lookup(churchID, id)
	if err != nil {
		return nil, err
	}

	session, rebuilt, err := m.current(ctx, e)
	if err != nil {
		return nil, err
	}

	result, err := session.Send(ctx, message)
	if err != nil {
		return nil, err
	}
	result.Rebuilt = rebuilt
	return result, nil
}

// current returns the session of e, replacing it first when stale. A
// handed-off session stays terminated even if its church changed.
func (m *Manager) current(ctx context.Context, e *entry) (*Session, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	old := e.session
	if !e.stale.Load() || old.State() == StateTerminated {
		return old, false, nil
	}
	if st := old.State(); st == StateActive || st == StateWaiting {
		return nil, false, ErrSessionBusy
	}

	// Cleared before loading: a change published during the rebuild marks
	// the fresh session stale again.
	e.stale.Store(false)
	fresh, err := m.build(ctx, old.ID(), old.ChurchID())
	if err != nil {
		e.stale.Store(true)
		return nil, false, err
	}

	old.Terminate()
	e.session = fresh

	metrics.AssistantSessions.WithLabelValues("rebuilt").Inc()
	log.Info().
		Str("session_id", fresh.ID().String()).
		Str("church_id", fresh.ChurchID().String()).
		Msg("🔄 Assistant session rebuilt with fresh church data")

	return fresh, true, nil
}

// Close discards a session.
func (m *Manager) Close(churchID, id uuid.UUID) error {
	e, err := m.lookup(churchID, id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	e.mu.Lock()
	e.session.Terminate()
	e.mu.Unlock()
	return nil
}

// Invalidate marks every session of churchID stale.
func (m *Manager) Invalidate(churchID uuid.UUID) int {
	m.mu.RLock()
	var entries []*entry
	for _, e := range m.sessions {
		if e.churchID == churchID {
			entries = append(entries, e)
		}
	}
	m.mu.RUnlock()

	marked := 0
	for _, e := range entries {
		if e.stale.CompareAndSwap(false, true) {
			marked++
		}
	}

	if marked > 0 {
		log.Debug().Str("church_id", churchID.String()).Int("sessions", marked).Msg("🗂️ Sessions marked stale")
	}
	return marked
}

// Reap removes sessions idle for longer than the configured TTL.
func (m *Manager) Reap(now time.Time) int {
	if m.cfg.IdleTTL <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	reaped := 0
	for id, e := range m.sessions {
		// A session being rebuilt is in use.
		if !e.mu.TryLock() {
			continue
		}
		session := e.session
		idle := now.Sub(session.LastActive()) >= m.cfg.IdleTTL
		st := session.State()
		if idle && st != StateActive && st != StateWaiting {
			session.Terminate()
			delete(m.sessions, id)
			reaped++
		}
		e.mu.Unlock()
	}

	if reaped > 0 {
		metrics.AssistantSessions.WithLabelValues("reaped").Add(float64(reaped))
	}
	return reaped
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
