package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/repositories"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
)

// Collection is the CRUD service of one kind of church-owned record.
// PT is the pointer type of T, which carries the Record methods.
type Collection[T any, PT interface {
	*T
	models.Record
}] struct {
	repo     repositories.CollectionRepo[T]
	notifier ChangeNotifier
	entity   string
	notFound string
}

// NewCollection builds the service; entity names the DataChanged events and
// notFound is the message returned for unknown ids.
func NewCollection[T any, PT interface {
	*T
	models.Record
}](repo repositories.CollectionRepo[T], notifier ChangeNotifier, entity, notFound string) *Collection[T, PT] {
	return &Collection[T, PT]{
		repo:     repo,
		notifier: notifierOrNoop(notifier),
		entity:   entity,
		notFound: notFound,
	}
}

func (s *Collection[T, PT]) List(ctx context.Context, churchID uuid.UUID) ([]T, error) {
	items, err := s.repo.List(ctx, churchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.entity, err)
	}
	return items, nil
}

func (s *Collection[T, PT]) Create(ctx context.Context, churchID uuid.UUID, in models.Input[T]) (*T, error) {
	var item T
	if err := in.Apply(&item); err != nil {
		return nil, err
	}
	PT(&item).SetChurchID(churchID)

	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.entity, err)
	}

	changed(ctx, s.notifier, churchID, s.entity)
	return &item, nil
}

func (s *Collection[T, PT]) Update(ctx context.Context, churchID, id uuid.UUID, in models.Input[T]) (*T, error) {
	item, err := s.repo.Get(ctx, churchID, id)
	if err != nil {
		return nil, notFound(err, s.notFound)
	}
	if err := in.Apply(item); err != nil {
		return nil, err
	}
	PT(item).SetChurchID(churchID)

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", s.entity, err)
	}

	changed(ctx, s.notifier, churchID, s.entity)
	return item, nil
}

func (s *Collection[T, PT]) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, churchID, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.entity, err)
	}
	if !deleted {
		return apperr.NotFound(s.notFound)
	}

	changed(ctx, s.notifier, churchID, s.entity)
	return nil
}
