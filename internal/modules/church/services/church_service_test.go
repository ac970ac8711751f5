package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/events"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
)

func strPtr(s string) *string {
	return &s
}

func TestChurchService_CreateSeedsAgent(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryChurches()
	s := NewChurchService(repo, nil)
	user := &auth.User{ID: uuid.New()}

	church, err := s.Create(ctx, user, &models.ChurchRequest{Name: "Igreja Central", PastorName: "Pr. João"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, church.ID)
	assert.Equal(t, user.ID, repo.owners[church.ID])

	agent, err := s.Agent(ctx, church.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAgentName, agent.Name)
	assert.Equal(t, models.DefaultAgentPersonality, agent.Personality)
}

func TestChurchService_CreateRejectsSecondChurch(t *testing.T) {
	churchID := uuid.New()
	s := NewChurchService(newMemoryChurches(), nil)

	_, err := s.Create(context.Background(), &auth.User{ID: uuid.New(), ChurchID: &churchID}, &models.ChurchRequest{Name: "X", PastorName: "Y"})

	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestChurchService_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	s := NewChurchService(newMemoryChurches(), n)

	church, err := s.Create(ctx, &auth.User{ID: uuid.New()}, &models.ChurchRequest{Name: "Igreja Central", PastorName: "Pr. João", Address: "Rua A"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, church.ID, &models.ChurchUpdateRequest{Address: strPtr("Rua B, 200")})
	require.NoError(t, err)
	assert.Equal(t, "Igreja Central", updated.Name)
	assert.Equal(t, "Rua B, 200", updated.Address)
	assert.Equal(t, []string{events.EntityChurch}, n.entities())

	_, err = s.Update(ctx, uuid.New(), &models.ChurchUpdateRequest{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestChurchService_DefaultsWhenMissing(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	s := NewChurchService(newMemoryChurches(), nil)

	agent, err := s.Agent(ctx, churchID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAgentName, agent.Name)

	info, err := s.Financial(ctx, churchID)
	require.NoError(t, err)
	assert.Equal(t, churchID, info.ChurchID)
	assert.Empty(t, info.PixKey)
}

func TestChurchService_SaveAgentAndFinancial(t *testing.T) {
	ctx := context.Background()
	churchID := uuid.New()
	n := &recordingNotifier{}
	s := NewChurchService(newMemoryChurches(), n)

	_, err := s.UpdateAgent(ctx, churchID, &models.AgentSettingsRequest{Name: "Ana", Personality: "Acolhedora"})
	require.NoError(t, err)
	_, err = s.UpdateFinancial(ctx, churchID, &models.FinancialInfoRequest{PixKey: "pix@igreja.org"})
	require.NoError(t, err)

	agent, err := s.Agent(ctx, churchID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", agent.Name)

	info, err := s.Financial(ctx, churchID)
	require.NoError(t, err)
	assert.Equal(t, "pix@igreja.org", info.PixKey)

	assert.Equal(t, []string{events.EntityAgent, events.EntityFinancial}, n.entities())
}
