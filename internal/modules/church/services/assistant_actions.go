package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/assistant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/events"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/validation"
)

// ActivityRecorder stores the audit trail of assistant actions.
type ActivityRecorder interface {
	Record(ctx context.Context, entry *audit.AuditLog, payload interface{}) error
}

// AssistantActions carries out assistant directives: it writes the agenda,
// records the outcome in the audit log and notifies the human desk.
type AssistantActions struct {
	agenda    *AgendaService
	activity  ActivityRecorder
	publisher events.ActionPublisher
	inbox     *HumanChat
}

func NewAssistantActions(agenda *AgendaService, activity ActivityRecorder, publisher events.ActionPublisher, inbox *HumanChat) *AssistantActions {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &AssistantActions{agenda: agenda, activity: activity, publisher: publisher, inbox: inbox}
}

var _ assistant.ActionSink = (*AssistantActions)(nil)

func (a *AssistantActions) BookAppointment(ctx context.Context, churchID, sessionID uuid.UUID, d assistant.AppointmentDirective) error {
	req := &models.AppointmentRequest{Date: d.Date, Time: d.Time, PersonName: d.Name, Subject: d.Subject}

	err := validation.Struct(req)
	if err == nil {
		_, err = a.agenda.BookCounseling(ctx, churchID, req)
	}

	a.finish(ctx, churchID, sessionID, events.ActionAppointment, "Aconselhamento agendado para "+d.Name, d, err, map[string]string{
		"name":    d.Name,
		"subject": d.Subject,
		"date":    d.Date,
		"time":    d.Time,
	})
	return err
}

func (a *AssistantActions) RegisterPrayer(ctx context.Context, churchID, sessionID uuid.UUID, d assistant.PrayerDirective) error {
	req := &models.PrayerRequestRequest{Name: d.Name, Contact: d.Contact, Reason: d.Reason}

	err := validation.Struct(req)
	if err == nil {
		_, _, err = a.agenda.RegisterPrayer(ctx, churchID, req)
	}

	a.finish(ctx, churchID, sessionID, events.ActionPrayer, "Pedido de oração de "+d.Name, d, err, map[string]string{
		"name":    d.Name,
		"contact": d.Contact,
		"reason":  d.Reason,
	})
	return err
}

func (a *AssistantActions) Handoff(ctx context.Context, churchID, sessionID uuid.UUID, message string) error {
	if a.inbox != nil {
		a.inbox.Escalate(churchID, sessionID, message)
	}
	a.finish(ctx, churchID, sessionID, events.ActionHandoff, "Conversa transferida para atendimento humano", map[string]string{"message": message}, nil, map[string]string{
		"message": message,
	})
	return nil
}

// finish audits the action and, when it succeeded, publishes it. Neither
// step can fail the action itself.
func (a *AssistantActions) finish(ctx context.Context, churchID, sessionID uuid.UUID, kind, description string, payload interface{}, actionErr error, fields map[string]string) {
	sid := sessionID
	entry := &audit.AuditLog{
		ChurchID:    churchID,
		SessionID:   &sid,
		Action:      kind,
		Status:      audit.StatusDone,
		Description: description,
	}
	if actionErr != nil {
		entry.Status = audit.StatusFailed
		entry.Error = actionErr.Error()
	}

	if a.activity != nil {
		if err := a.activity.Record(ctx, entry, payload); err != nil {
			log.Warn().Err(err).Str("church_id", churchID.String()).Str("action", kind).Msg("⚠️ Failed to audit assistant action")
		}
	}

	if actionErr != nil {
		return
	}
	err := a.publisher.PublishAction(ctx, events.AssistantAction{
		Kind:      kind,
		ChurchID:  churchID,
		SessionID: &sid,
		Payload:   fields,
	})
	if err != nil {
		log.Warn().Err(err).Str("church_id", churchID.String()).Str("action", kind).Msg("⚠️ Failed to publish assistant action")
	}
}
