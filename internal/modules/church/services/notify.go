package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/events"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
)

// ChangeNotifier is told about every mutation of a church's records.
type ChangeNotifier interface {
	Publish(ctx context.Context, ev events.DataChanged) error
}

type noopNotifier struct{}

func (noopNotifier) Publish(context.Context, events.DataChanged) error { return nil }

func notifierOrNoop(n ChangeNotifier) ChangeNotifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

// changed publishes a DataChanged event. A failed publish only delays
// session invalidation, so it is logged and not returned.
func changed(ctx context.Context, n ChangeNotifier, churchID uuid.UUID, entity string) {
	if err := n.Publish(ctx, events.DataChanged{ChurchID: churchID, Entity: entity}); err != nil {
		log.Warn().Err(err).
			Str("church_id", churchID.String()).
			Str("entity", entity).
			Msg("⚠️ Failed to publish data change")
	}
}

// notFound translates a missing row into a NotFound error with message.
func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(message)
	}
	return err
}
