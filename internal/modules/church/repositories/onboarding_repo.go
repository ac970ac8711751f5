package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
)

// OnboardingPlan is everything written when a user completes onboarding.
// Church.ID is zero when the church still has to be created.
type OnboardingPlan struct {
	User      *auth.User
	Church    *models.Church
	Agent     *models.AgentSettings
	Schedules []models.ScheduleEntry
}

type OnboardingRepo interface {
	Complete(ctx context.Context, plan *OnboardingPlan) error
}

type onboardingRepo struct {
	db *gorm.DB
}

func NewOnboardingRepo(db *gorm.DB) OnboardingRepo {
	return &onboardingRepo{db: db}
}

func (r *onboardingRepo) Complete(ctx context.Context, plan *OnboardingPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if plan.Church.ID == uuid.Nil {
			if err := createChurch(tx, plan.Church); err != nil {
				return err
			}
		} else if err := tx.Save(plan.Church).Error; err != nil {
			return err
		}

		plan.Agent.ChurchID = plan.Church.ID
		if err := upsertAgent(tx, plan.Agent); err != nil {
			return err
		}

		for i := range plan.Schedules {
			plan.Schedules[i].ChurchID = plan.Church.ID
		}
		if len(plan.Schedules) > 0 {
			if err := tx.Create(&plan.Schedules).Error; err != nil {
				return err
			}
		}

		churchID := plan.Church.ID
		plan.User.ChurchID = &churchID
		plan.User.OnboardingCompleted = true
		return tx.Model(plan.User).Updates(map[string]interface{}{
			"church_id":            churchID,
			"onboarding_completed": true,
		}).Error
	})
}
