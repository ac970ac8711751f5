package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/events"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/repositories"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/calendar"
)

// AgendaService owns the pastoral agenda and prayer requests. It is used
// both by the dashboard and by the assistant's directives.
type AgendaService struct {
	repo     repositories.AgendaRepo
	notifier ChangeNotifier
	today    func() calendar.Date
}

func NewAgendaService(repo repositories.AgendaRepo, notifier ChangeNotifier) *AgendaService {
	return &AgendaService{repo: repo, notifier: notifierOrNoop(notifier), today: calendar.Today}
}

func slotTaken(date calendar.Date, time string) error {
	return apperr.Conflict(fmt.Sprintf("Horário já ocupado para aconselhamento em %s às %s", date.BR(), time))
}

func (s *AgendaService) ListAppointments(ctx context.Context, churchID uuid.UUID) ([]models.PastoralAppointment, error) {
	items, err := s.repo.ListAppointments(ctx, churchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return items, nil
}

// BookCounseling creates a counseling appointment unless another counseling
// appointment already holds the same date and time. Prayer follow-ups never
// conflict.
func (s *AgendaService) BookCounseling(ctx context.Context, churchID uuid.UUID, req *models.AppointmentRequest) (*models.PastoralAppointment, error) {
	appt := &models.PastoralAppointment{ChurchID: churchID}
	if err := req.Apply(appt); err != nil {
		return nil, apperr.Validation("Data inválida", nil)
	}

	taken, err := s.repo.SlotTaken(ctx, churchID, appt.Date, appt.Time)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}
	if taken {
		return nil, slotTaken(appt.Date, appt.Time)
	}

	if err := s.repo.CreateAppointment(ctx, appt); err != nil {
		// The partial unique index catches bookings racing past SlotTaken.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, slotTaken(appt.Date, appt.Time)
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	log.Info().
		Str("church_id", churchID.String()).
		Str("date", appt.Date.String()).
		Str("time", appt.Time).
		Msg("📅 Counseling booked")
	changed(ctx, s.notifier, churchID, events.EntityAppointment)
	return appt, nil
}

func (s *AgendaService) DeleteAppointment(ctx context.Context, churchID, id uuid.UUID) error {
	deleted, err := s.repo.DeleteAppointment(ctx, churchID, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if !deleted {
		return apperr.NotFound("Agendamento não encontrado")
	}

	changed(ctx, s.notifier, churchID, events.EntityAppointment)
	return nil
}

func (s *AgendaService) ListPrayerRequests(ctx context.Context, churchID uuid.UUID) ([]models.PrayerRequest, error) {
	items, err := s.repo.ListPrayerRequests(ctx, churchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prayer requests: %w", err)
	}
	return items, nil
}

// RegisterPrayer stores a prayer request dated today (UTC) together with its
// follow-up agenda entry.
func (s *AgendaService) RegisterPrayer(ctx context.Context, churchID uuid.UUID, req *models.PrayerRequestRequest) (*models.PrayerRequest, *models.PastoralAppointment, error) {
	prayer := &models.PrayerRequest{ChurchID: churchID, RequestDate: s.today()}
	if err := req.Apply(prayer); err != nil {
		return nil, nil, err
	}

	followUp, err := s.repo.CreatePrayerRequest(ctx, prayer)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prayer request: %w", err)
	}

	log.Info().Str("church_id", churchID.String()).Msg("🙏 Prayer request registered")
	changed(ctx, s.notifier, churchID, events.EntityPrayer)
	return prayer, followUp, nil
}

func (s *AgendaService) DeletePrayerRequest(ctx context.Context, churchID, id uuid.UUID) error {
	deleted, err := s.repo.DeletePrayerRequest(ctx, churchID, id)
	if err != nil {
		return fmt.Errorf("failed to delete prayer request: %w", err)
	}
	if !deleted {
		return apperr.NotFound("Pedido de oração não encontrado")
	}

	changed(ctx, s.notifier, churchID, events.EntityPrayer)
	return nil
}
