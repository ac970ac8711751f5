package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/assistant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/events"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/calendar"
)

func newAgenda(repo *memoryAgenda, n *recordingNotifier) *AgendaService {
	s := NewAgendaService(repo, n)
	s.today = func() calendar.Date {
		return calendar.MustParse("2024-10-28")
	}
	return s
}

func counseling(date, time string) *models.AppointmentRequest {
	return &models.AppointmentRequest{Date: date, Time: time, PersonName: "Maria", Subject: "Família"}
}

func TestBookCounseling_RejectsTakenSlot(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	n := &recordingNotifier{}
	s := newAgenda(&memoryAgenda{}, n)

	appt, err := s.BookCounseling(ctx, churchID, counseling("2024-10-28", "15:00"))
	require.NoError(t, err)
	assert.Equal(t, assistant.KindCounseling, appt.Kind)

	_, err = s.BookCounseling(ctx, churchID, counseling("2024-10-28", "15:00"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "28/10/2024 às 15:00")

	_, err = s.BookCounseling(ctx, churchID, counseling("2024-10-28", "16:00"))
	assert.NoError(t, err, "another time is free")

	_, err = s.BookCounseling(ctx, uuid.New(), counseling("2024-10-28", "15:00"))
	assert.NoError(t, err, "other churches never conflict")

	assert.Equal(t, []string{events.EntityAppointment, events.EntityAppointment, events.EntityAppointment}, n.entities())
}

func TestBookCounseling_PrayerFollowUpDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	repo := &memoryAgenda{}
	s := newAgenda(repo, nil)

	_, followUp, err := s.RegisterPrayer(ctx, churchID, &models.PrayerRequestRequest{Name: "Carlos", Reason: "Saúde"})
	require.NoError(t, err)
	require.Equal(t, assistant.NoTime, followUp.Time)

	// A follow-up sharing the exact slot still leaves it free.
	repo.appointments = append(repo.appointments, models.PastoralAppointment{
		ChurchID: churchID, Date: calendar.MustParse("2024-10-28"), Time: "15:00",
		PersonName: "Rita", Subject: "Pedido de oração: Cura", Kind: assistant.KindPrayerFollowUp,
	})

	_, err = s.BookCounseling(ctx, churchID, counseling("2024-10-28", "15:00"))
	require.NoError(t, err)

	_, err = s.BookCounseling(ctx, churchID, counseling("2024-10-28", "15:00"))
	assert.True(t, apperr.Is(err, apperr.KindConflict), "the counseling booking itself does block")
}

func TestBookCounseling_RaceCaughtByIndex(t *testing.T) {
	s := newAgenda(&memoryAgenda{raceOnCreate: true}, nil)

	_, err := s.BookCounseling(context.Background(), uuid.New(), counseling("2024-10-28", "15:00"))

	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestBookCounseling_BadDate(t *testing.T) {
	s := newAgenda(&memoryAgenda{}, nil)

	_, err := s.BookCounseling(context.Background(), uuid.New(), counseling("28/10/2024", "15:00"))

	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRegisterPrayer_CreatesFollowUp(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	repo := &memoryAgenda{}
	n := &recordingNotifier{}
	s := newAgenda(repo, n)

	reason := "Pela saúde da minha mãe que está internada no hospital"
	prayer, followUp, err := s.RegisterPrayer(ctx, churchID, &models.PrayerRequestRequest{Name: "Carlos", Contact: "c@x.com", Reason: reason})

	require.NoError(t, err)
	assert.Equal(t, "2024-10-28", prayer.RequestDate.String())
	assert.Equal(t, "2024-10-28", followUp.Date.String())
	assert.Equal(t, "Pedido de oração: Pela saúde da minha mãe que es...", followUp.Subject)
	assert.Equal(t, assistant.KindPrayerFollowUp, followUp.Kind)
	require.NotNil(t, followUp.PrayerRequestID)
	assert.Equal(t, prayer.ID, *followUp.PrayerRequestID)
	assert.Equal(t, []string{events.EntityPrayer}, n.entities())

	require.NoError(t, s.DeletePrayerRequest(ctx, churchID, prayer.ID))
	appts, err := s.ListAppointments(ctx, churchID)
	require.NoError(t, err)
	assert.Empty(t, appts, "the follow-up goes with its request")

	err = s.DeletePrayerRequest(ctx, churchID, prayer.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteAppointment_OtherChurch(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	s := newAgenda(&memoryAgenda{}, nil)

	appt, err := s.BookCounseling(ctx, churchID, counseling("2024-10-28", "15:00"))
	require.NoError(t, err)

	err = s.DeleteAppointment(ctx, uuid.New(), appt.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, s.DeleteAppointment(ctx, churchID, appt.ID))
}
