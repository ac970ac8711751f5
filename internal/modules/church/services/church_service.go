package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/events"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/repositories"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
)

const msgChurchNotFound = "Igreja não encontrada"

// ChurchService manages the singleton records of a church: its profile,
// agent settings and financial info.
type ChurchService struct {
	repo     repositories.ChurchRepo
	notifier ChangeNotifier
}

func NewChurchService(repo repositories.ChurchRepo, notifier ChangeNotifier) *ChurchService {
	return &ChurchService{repo: repo, notifier: notifierOrNoop(notifier)}
}

func (s *ChurchService) Get(ctx context.Context, churchID uuid.UUID) (*models.Church, error) {
	church, err := s.repo.GetByID(ctx, churchID)
	if err != nil {
		return nil, notFound(err, msgChurchNotFound)
	}
	return church, nil
}

// Create registers the user's church and seeds its default agent settings.
func (s *ChurchService) Create(ctx context.Context, user *auth.User, req *models.ChurchRequest) (*models.Church, error) {
	if user.HasChurch() {
		return nil, apperr.Conflict("Usuário já possui uma igreja cadastrada")
	}

	church := &models.Church{}
	if err := req.Apply(church); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, church, user.ID); err != nil {
		return nil, fmt.Errorf("failed to create church: %w", err)
	}

	log.Info().Str("church_id", church.ID.String()).Str("user_id", user.ID.String()).Msg("⛪ Church created")
	return church, nil
}

func (s *ChurchService) Update(ctx context.Context, churchID uuid.UUID, req *models.ChurchUpdateRequest) (*models.Church, error) {
	church, err := s.Get(ctx, churchID)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(church); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, church); err != nil {
		return nil, fmt.Errorf("failed to update church: %w", err)
	}

	changed(ctx, s.notifier, churchID, events.EntityChurch)
	return church, nil
}

// Agent returns the agent settings, falling back to the defaults when the
// row is missing.
func (s *ChurchService) Agent(ctx context.Context, churchID uuid.UUID) (*models.AgentSettings, error) {
	agent, err := s.repo.GetAgent(ctx, churchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultAgentSettings(churchID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent settings: %w", err)
	}
	return agent, nil
}

func (s *ChurchService) UpdateAgent(ctx context.Context, churchID uuid.UUID, req *models.AgentSettingsRequest) (*models.AgentSettings, error) {
	agent := &models.AgentSettings{ChurchID: churchID}
	if err := req.Apply(agent); err != nil {
		return nil, err
	}
	if err := s.repo.SaveAgent(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to save agent settings: %w", err)
	}

	changed(ctx, s.notifier, churchID, events.EntityAgent)
	return agent, nil
}

// Financial returns the donation details; an empty record means not configured.
func (s *ChurchService) Financial(ctx context.Context, churchID uuid.UUID) (*models.FinancialInfo, error) {
	info, err := s.repo.GetFinancial(ctx, churchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.FinancialInfo{ChurchID: churchID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get financial info: %w", err)
	}
	return info, nil
}

func (s *ChurchService) UpdateFinancial(ctx context.Context, churchID uuid.UUID, req *models.FinancialInfoRequest) (*models.FinancialInfo, error) {
	info := &models.FinancialInfo{ChurchID: churchID}
	if err := req.Apply(info); err != nil {
		return nil, err
	}
	if err := s.repo.SaveFinancial(ctx, info); err != nil {
		return nil, fmt.Errorf("failed to save financial info: %w", err)
	}

	changed(ctx, s.notifier, churchID, events.EntityFinancial)
	return info, nil
}
