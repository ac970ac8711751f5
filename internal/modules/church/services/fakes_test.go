package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/events"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/repositories"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/calendar"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []events.DataChanged
}

func (n *recordingNotifier) Publish(_ context.Context, ev events.DataChanged) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func (n *recordingNotifier) entities() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Entity)
	}
	return out
}

type memoryAgenda struct {
	appointments []models.PastoralAppointment
	prayers      []models.PrayerRequest
	// raceOnCreate makes CreateAppointment fail as if the unique index fired.
	raceOnCreate bool
}

var _ repositories.AgendaRepo = (*memoryAgenda)(nil)

func (m *memoryAgenda) ListAppointments(_ context.Context, churchID uuid.UUID) ([]models.PastoralAppointment, error) {
	var out []models.PastoralAppointment
	for _, a := range m.appointments {
		if a.ChurchID == churchID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryAgenda) SlotTaken(_ context.Context, churchID uuid.UUID, date calendar.Date, time string) (bool, error) {
	for _, a := range m.appointments {
		if a.ChurchID == churchID && a.Date.Equal(date) && a.Time == time && a.OccupiesSlot() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryAgenda) CreateAppointment(_ context.Context, a *models.PastoralAppointment) error {
	if m.raceOnCreate {
		return gorm.ErrDuplicatedKey
	}
	a.ID = uuid.New()
	m.appointments = append(m.appointments, *a)
	return nil
}

func (m *memoryAgenda) DeleteAppointment(_ context.Context, churchID, id uuid.UUID) (bool, error) {
	for i, a := range m.appointments {
		if a.ChurchID == churchID && a.ID == id {
			m.appointments = append(m.appointments[:i], m.appointments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryAgenda) ListPrayerRequests(_ context.Context, churchID uuid.UUID) ([]models.PrayerRequest, error) {
	var out []models.PrayerRequest
	for _, p := range m.prayers {
		if p.ChurchID == churchID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryAgenda) CreatePrayerRequest(_ context.Context, p *models.PrayerRequest) (*models.PastoralAppointment, error) {
	p.ID = uuid.New()
	m.prayers = append(m.prayers, *p)

	followUp := models.FollowUpFor(p)
	followUp.ID = uuid.New()
	m.appointments = append(m.appointments, *followUp)
	return followUp, nil
}

func (m *memoryAgenda) DeletePrayerRequest(_ context.Context, churchID, id uuid.UUID) (bool, error) {
	found := false
	prayers := m.prayers[:0]
	for _, p := range m.prayers {
		if p.ChurchID == churchID && p.ID == id {
			found = true
			continue
		}
		prayers = append(prayers, p)
	}
	m.prayers = prayers
	if !found {
		return false, nil
	}

	appts := m.appointments[:0]
	for _, a := range m.appointments {
		if a.PrayerRequestID != nil && *a.PrayerRequestID == id {
			continue
		}
		appts = append(appts, a)
	}
	m.appointments = appts
	return true, nil
}

type memoryChurches struct {
	churches  map[uuid.UUID]*models.Church
	agents    map[uuid.UUID]*models.AgentSettings
	financial map[uuid.UUID]*models.FinancialInfo
	owners    map[uuid.UUID]uuid.UUID
}

var _ repositories.ChurchRepo = (*memoryChurches)(nil)

func newMemoryChurches() *memoryChurches {
	return &memoryChurches{
		churches:  make(map[uuid.UUID]*models.Church),
		agents:    make(map[uuid.UUID]*models.AgentSettings),
		financial: make(map[uuid.UUID]*models.FinancialInfo),
		owners:    make(map[uuid.UUID]uuid.UUID),
	}
}

func (m *memoryChurches) GetByID(_ context.Context, id uuid.UUID) (*models.Church, error) {
	c, ok := m.churches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memoryChurches) Create(_ context.Context, church *models.Church, ownerID uuid.UUID) error {
	church.ID = uuid.New()
	cp := *church
	m.churches[church.ID] = &cp
	m.agents[church.ID] = models.DefaultAgentSettings(church.ID)
	m.owners[church.ID] = ownerID
	return nil
}

func (m *memoryChurches) Update(_ context.Context, church *models.Church) error {
	cp := *church
	m.churches[church.ID] = &cp
	return nil
}

func (m *memoryChurches) GetAgent(_ context.Context, churchID uuid.UUID) (*models.AgentSettings, error) {
	a, ok := m.agents[churchID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (m *memoryChurches) SaveAgent(_ context.Context, agent *models.AgentSettings) error {
	m.agents[agent.ChurchID] = agent
	return nil
}

func (m *memoryChurches) GetFinancial(_ context.Context, churchID uuid.UUID) (*models.FinancialInfo, error) {
	f, ok := m.financial[churchID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f, nil
}

func (m *memoryChurches) SaveFinancial(_ context.Context, info *models.FinancialInfo) error {
	m.financial[info.ChurchID] = info
	return nil
}

type memoryFAQs struct {
	items []models.FaqEntry
}

var _ repositories.CollectionRepo[models.FaqEntry] = (*memoryFAQs)(nil)

func (m *memoryFAQs) List(_ context.Context, churchID uuid.UUID) ([]models.FaqEntry, error) {
	var out []models.FaqEntry
	for _, f := range m.items {
		if f.ChurchID == churchID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memoryFAQs) Get(_ context.Context, churchID, id uuid.UUID) (*models.FaqEntry, error) {
	for _, f := range m.items {
		if f.ChurchID == churchID && f.ID == id {
			cp := f
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryFAQs) Create(_ context.Context, item *models.FaqEntry) error {
	item.ID = uuid.New()
	m.items = append(m.items, *item)
	return nil
}

func (m *memoryFAQs) Save(_ context.Context, item *models.FaqEntry) error {
	for i, f := range m.items {
		if f.ID == item.ID {
			m.items[i] = *item
		}
	}
	return nil
}

func (m *memoryFAQs) Delete(_ context.Context, churchID, id uuid.UUID) (bool, error) {
	for i, f := range m.items {
		if f.ChurchID == churchID && f.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memoryOnboarding struct {
	plans []*repositories.OnboardingPlan
}

func (m *memoryOnboarding) Complete(_ context.Context, plan *repositories.OnboardingPlan) error {
	if plan.Church.ID == uuid.Nil {
		plan.Church.ID = uuid.New()
	}
	churchID := plan.Church.ID
	plan.User.ChurchID = &churchID
	plan.User.OnboardingCompleted = true
	m.plans = append(m.plans, plan)
	return nil
}

type recordingActivity struct {
	entries []*audit.AuditLog
}

func (r *recordingActivity) Record(_ context.Context, entry *audit.AuditLog, _ interface{}) error {
	r.entries = append(r.entries, entry)
	return nil
}

type recordingPublisher struct {
	actions []events.AssistantAction
}

func (p *recordingPublisher) PublishAction(_ context.Context, a events.AssistantAction) error {
	p.actions = append(p.actions, a)
	return nil
}

func (p *recordingPublisher) Close() {}
