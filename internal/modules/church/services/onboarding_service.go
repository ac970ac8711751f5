package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/events"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/repositories"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/validation"
)

type OnboardingResult struct {
	User     *auth.User `json:"user"`
	ChurchID string     `json:"churchId"`
}

type OnboardingService struct {
	repo     repositories.OnboardingRepo
	churches repositories.ChurchRepo
	notifier ChangeNotifier
}

func NewOnboardingService(repo repositories.OnboardingRepo, churches repositories.ChurchRepo, notifier ChangeNotifier) *OnboardingService {
	return &OnboardingService{repo: repo, churches: churches, notifier: notifierOrNoop(notifier)}
}

func (s *OnboardingService) Status(user *auth.User) models.OnboardingStatus {
	return models.OnboardingStatus{Completed: user.OnboardingCompleted, HasChurch: user.HasChurch()}
}

// Complete creates the church when the user has none, stores the agent
// settings and the complete schedule rows, and marks the user onboarded.
func (s *OnboardingService) Complete(ctx context.Context, user *auth.User, req *models.OnboardingRequest) (*OnboardingResult, error) {
	plan := &repositories.OnboardingPlan{User: user}

	if user.HasChurch() {
		church, err := s.churches.GetByID(ctx, *user.ChurchID)
		if err != nil {
			return nil, notFound(err, msgChurchNotFound)
		}
		if req.Church != nil {
			if err := req.Church.Apply(church); err != nil {
				return nil, err
			}
		}
		plan.Church = church
	} else {
		if req.Church == nil {
			return nil, validation.Invalid("church", "campo obrigatório")
		}
		plan.Church = &models.Church{}
		if err := req.Church.Apply(plan.Church); err != nil {
			return nil, err
		}
	}

	plan.Agent = &models.AgentSettings{Name: models.DefaultAgentName, Personality: models.DefaultAgentPersonality}
	if req.AgentSettings != nil {
		if err := req.AgentSettings.Apply(plan.Agent); err != nil {
			return nil, err
		}
	}

	for i, row := range req.Schedules {
		if !row.Complete() {
			continue
		}
		entry := models.ScheduleRequest{Day: row.Day, Time: row.Time, Description: row.Description}
		if err := validation.Struct(&entry); err != nil {
			return nil, validation.Invalid(fmt.Sprintf("schedules[%d]", i), "dia ou horário inválido")
		}
		var schedule models.ScheduleEntry
		if err := entry.Apply(&schedule); err != nil {
			return nil, err
		}
		plan.Schedules = append(plan.Schedules, schedule)
	}

	if err := s.repo.Complete(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("church_id", plan.Church.ID.String()).
		Int("schedules", len(plan.Schedules)).
		Msg("🎉 Onboarding completed")
	changed(ctx, s.notifier, plan.Church.ID, events.EntityChurch)

	return &OnboardingResult{User: plan.User, ChurchID: plan.Church.ID.String()}, nil
}
