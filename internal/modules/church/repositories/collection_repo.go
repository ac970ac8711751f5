package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollectionRepo stores one kind of church-owned record.
type CollectionRepo[T any] interface {
	List(ctx context.Context, churchID uuid.UUID) ([]T, error)
	Get(ctx context.Context, churchID, id uuid.UUID) (*T, error)
	Create(ctx context.Context, item *T) error
	Save(ctx context.Context, item *T) error
	// Delete reports whether a row of churchID was removed.
	Delete(ctx context.Context, churchID, id uuid.UUID) (bool, error)
}

type collectionRepo[T any] struct {
	db    *gorm.DB
	order string
}

// NewCollectionRepo returns a repository listing rows in the given SQL order.
func NewCollectionRepo[T any](db *gorm.DB, order string) CollectionRepo[T] {
	return &collectionRepo[T]{db: db, order: order}
}

func (r *collectionRepo[T]) List(ctx context.Context, churchID uuid.UUID) ([]T, error) {
	items := make([]T, 0)
	query := r.db.WithContext(ctx).Where("church_id = ?", churchID)
	if r.order != "" {
		query = query.Order(r.order)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *collectionRepo[T]) Get(ctx context.Context, churchID, id uuid.UUID) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).Where("church_id = ? AND id = ?", churchID, id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *collectionRepo[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *collectionRepo[T]) Save(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *collectionRepo[T]) Delete(ctx context.Context, churchID, id uuid.UUID) (bool, error) {
	var item T
	result := r.db.WithContext(ctx).Where("church_id = ? AND id = ?", churchID, id).Delete(&item)
	return result.RowsAffected > 0, result.Error
}
