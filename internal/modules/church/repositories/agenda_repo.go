package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/assistant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/calendar"
)

type AgendaRepo interface {
	ListAppointments(ctx context.Context, churchID uuid.UUID) ([]models.PastoralAppointment, error)
	// SlotTaken reports whether a counseling appointment already holds date and time.
	SlotTaken(ctx context.Context, churchID uuid.UUID, date calendar.Date, time string) (bool, error)
	CreateAppointment(ctx context.Context, a *models.PastoralAppointment) error
	DeleteAppointment(ctx context.Context, churchID, id uuid.UUID) (bool, error)

	ListPrayerRequests(ctx context.Context, churchID uuid.UUID) ([]models.PrayerRequest, error)
	// CreatePrayerRequest inserts the request and its follow-up appointment atomically.
	CreatePrayerRequest(ctx context.Context, p *models.PrayerRequest) (*models.PastoralAppointment, error)
	// DeletePrayerRequest removes the request and its follow-up appointment.
	DeletePrayerRequest(ctx context.Context, churchID, id uuid.UUID) (bool, error)
}

type agendaRepo struct {
	db *gorm.DB
}

func NewAgendaRepo(db *gorm.DB) AgendaRepo {
	return &agendaRepo{db: db}
}

func (r *agendaRepo) ListAppointments(ctx context.Context, churchID uuid.UUID) ([]models.PastoralAppointment, error) {
	items := make([]models.PastoralAppointment, 0)
	err := r.db.WithContext(ctx).
		Where("church_id = ?", churchID).
		Order("date ASC, time ASC").
		Find(&items).Error
	return items, err
}

func (r *agendaRepo) SlotTaken(ctx context.Context, churchID uuid.UUID, date calendar.Date, time string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PastoralAppointment{}).
		Where("church_id = ? AND date = ? AND time = ? AND kind = ?", churchID, date, time, assistant.KindCounseling).
		Count(&count).Error
	return count > 0, err
}

func (r *agendaRepo) CreateAppointment(ctx context.Context, a *models.PastoralAppointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *agendaRepo) DeleteAppointment(ctx context.Context, churchID, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("church_id = ? AND id = ?", churchID, id).
		Delete(&models.PastoralAppointment{})
	return result.RowsAffected > 0, result.Error
}

func (r *agendaRepo) ListPrayerRequests(ctx context.Context, churchID uuid.UUID) ([]models.PrayerRequest, error) {
	items := make([]models.PrayerRequest, 0)
	err := r.db.WithContext(ctx).
		Where("church_id = ?", churchID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *agendaRepo) CreatePrayerRequest(ctx context.Context, p *models.PrayerRequest) (*models.PastoralAppointment, error) {
	var followUp *models.PastoralAppointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		followUp = models.FollowUpFor(p)
		return tx.Create(followUp).Error
	})
	if err != nil {
		return nil, err
	}
	return followUp, nil
}

func (r *agendaRepo) DeletePrayerRequest(ctx context.Context, churchID, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("church_id = ? AND prayer_request_id = ?", churchID, id).
			Delete(&models.PastoralAppointment{}).Error; err != nil {
			return err
		}
		result := tx.Where("church_id = ? AND id = ?", churchID, id).Delete(&models.PrayerRequest{})
		deleted = result.RowsAffected > 0
		return result.Error
	})
	return deleted, err
}
