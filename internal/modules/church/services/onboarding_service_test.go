package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
)

func TestOnboarding_CreatesChurch(t *testing.T) {
	repo := &memoryOnboarding{}
	n := &recordingNotifier{}
	s := NewOnboardingService(repo, newMemoryChurches(), n)
	user := &auth.User{ID: uuid.New()}

	assert.Equal(t, models.OnboardingStatus{}, s.Status(user))

	res, err := s.Complete(context.Background(), user, &models.OnboardingRequest{
		Church:        &models.ChurchRequest{Name: "Igreja Central", PastorName: "Pr. João"},
		AgentSettings: &models.AgentSettingsRequest{Name: "Ana", Personality: "Acolhedora"},
		Schedules: []models.OnboardingSchedule{
			{Day: "Domingo", Time: "18:00", Description: "Culto da Família"},
			{Day: "Quarta-feira", Time: "", Description: "incompleto"},
			{},
		},
	})

	require.NoError(t, err)
	require.Len(t, repo.plans, 1)
	plan := repo.plans[0]
	assert.Equal(t, "Igreja Central", plan.Church.Name)
	assert.Equal(t, "Ana", plan.Agent.Name)
	require.Len(t, plan.Schedules, 1, "incomplete rows are skipped")
	assert.Equal(t, "Culto da Família", plan.Schedules[0].Description)

	assert.Equal(t, plan.Church.ID.String(), res.ChurchID)
	assert.Equal(t, models.OnboardingStatus{Completed: true, HasChurch: true}, s.Status(res.User))
	assert.Len(t, n.entities(), 1)
}

func TestOnboarding_DefaultAgent(t *testing.T) {
	repo := &memoryOnboarding{}
	s := NewOnboardingService(repo, newMemoryChurches(), nil)

	_, err := s.Complete(context.Background(), &auth.User{ID: uuid.New()}, &models.OnboardingRequest{
		Church: &models.ChurchRequest{Name: "Igreja", PastorName: "Pr."},
	})

	require.NoError(t, err)
	assert.Equal(t, models.DefaultAgentName, repo.plans[0].Agent.Name)
}

func TestOnboarding_ExistingChurch(t *testing.T) {
	ctx := context.Background()
	churches := newMemoryChurches()
	user := &auth.User{ID: uuid.New()}
	existing := &models.Church{Name: "Igreja Antiga", PastorName: "Pr. Paulo"}
	require.NoError(t, churches.Create(ctx, existing, user.ID))
	user.ChurchID = &existing.ID

	repo := &memoryOnboarding{}
	s := NewOnboardingService(repo, churches, nil)

	res, err := s.Complete(ctx, user, &models.OnboardingRequest{})

	require.NoError(t, err)
	assert.Equal(t, existing.ID.String(), res.ChurchID)
	assert.Equal(t, "Igreja Antiga", repo.plans[0].Church.Name)
}

func TestOnboarding_Rejections(t *testing.T) {
	tests := []struct {
		name string
		req  *models.OnboardingRequest
	}{
		{"church required", &models.OnboardingRequest{}},
		{"bad weekday", &models.OnboardingRequest{
			Church:    &models.ChurchRequest{Name: "I", PastorName: "P"},
			Schedules: []models.OnboardingSchedule{{Day: "Funday", Time: "18:00", Description: "Culto"}},
		}},
		{"bad time", &models.OnboardingRequest{
			Church:    &models.ChurchRequest{Name: "I", PastorName: "P"},
			Schedules: []models.OnboardingSchedule{{Day: "Domingo", Time: "6pm", Description: "Culto"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryOnboarding{}
			s := NewOnboardingService(repo, newMemoryChurches(), nil)

			_, err := s.Complete(context.Background(), &auth.User{ID: uuid.New()}, tt.req)

			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.Empty(t, repo.plans)
		})
	}
}
