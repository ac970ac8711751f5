package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
)

type ChurchRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Church, error)
	// Create inserts the church with its default agent settings and makes
	// ownerID its manager.
	Create(ctx context.Context, church *models.Church, ownerID uuid.UUID) error
	Update(ctx context.Context, church *models.Church) error

	GetAgent(ctx context.Context, churchID uuid.UUID) (*models.AgentSettings, error)
	SaveAgent(ctx context.Context, agent *models.AgentSettings) error

	GetFinancial(ctx context.Context, churchID uuid.UUID) (*models.FinancialInfo, error)
	SaveFinancial(ctx context.Context, info *models.FinancialInfo) error
}

type churchRepo struct {
	db *gorm.DB
}

func NewChurchRepo(db *gorm.DB) ChurchRepo {
	return &churchRepo{db: db}
}

func (r *churchRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Church, error) {
	var church models.Church
	if err := r.db.WithContext(ctx).First(&church, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &church, nil
}

func (r *churchRepo) Create(ctx context.Context, church *models.Church, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createChurch(tx, church); err != nil {
			return err
		}
		return tx.Model(&auth.User{}).Where("id = ?", ownerID).Update("church_id", church.ID).Error
	})
}

func createChurch(tx *gorm.DB, church *models.Church) error {
	if err := tx.Create(church).Error; err != nil {
		return err
	}
	return tx.Create(models.DefaultAgentSettings(church.ID)).Error
}

func (r *churchRepo) Update(ctx context.Context, church *models.Church) error {
	return r.db.WithContext(ctx).Save(church).Error
}

func (r *churchRepo) GetAgent(ctx context.Context, churchID uuid.UUID) (*models.AgentSettings, error) {
	var agent models.AgentSettings
	if err := r.db.WithContext(ctx).First(&agent, "church_id = ?", churchID).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *churchRepo) SaveAgent(ctx context.Context, agent *models.AgentSettings) error {
	return upsertAgent(r.db.WithContext(ctx), agent)
}

func upsertAgent(tx *gorm.DB, agent *models.AgentSettings) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "church_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "personality", "updated_at"}),
	}).Create(agent).Error
}

func (r *churchRepo) GetFinancial(ctx context.Context, churchID uuid.UUID) (*models.FinancialInfo, error) {
	var info models.FinancialInfo
	if err := r.db.WithContext(ctx).First(&info, "church_id = ?", churchID).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *churchRepo) SaveFinancial(ctx context.Context, info *models.FinancialInfo) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "church_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"bank", "branch", "account", "pix_key", "updated_at"}),
	}).Create(info).Error
}
