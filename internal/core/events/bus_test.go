package events

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBus_FanOut(t *testing.T) {
	bus := NewLocalBus()
	church := uuid.New()

	var mu sync.Mutex
	var got []string
	record := func(name string) Handler {
		return func(ev DataChanged) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, church, ev.ChurchID)
			assert.False(t, ev.At.IsZero())
			got = append(got, name+":"+ev.Entity)
		}
	}

	unsubA := bus.Subscribe(record("a"))
	bus.Subscribe(record("b"))

	require.NoError(t, bus.Publish(context.Background(), DataChanged{ChurchID: church, Entity: EntityFAQ}))
	assert.ElementsMatch(t, []string{"a:faq", "b:faq"}, got)

	unsubA()
	got = nil
	require.NoError(t, bus.Publish(context.Background(), DataChanged{ChurchID: church, Entity: EntityEvent}))
	assert.Equal(t, []string{"b:special_event"}, got)

	require.NoError(t, bus.Close())
	got = nil
	require.NoError(t, bus.Publish(context.Background(), DataChanged{ChurchID: church, Entity: EntityEvent}))
	assert.Empty(t, got)
}

func TestAssistantAction_Subject(t *testing.T) {
	assert.Equal(t, "church.assistant.handoff", AssistantAction{Kind: ActionHandoff}.Subject())
	assert.NoError(t, NoopPublisher{}.PublishAction(context.Background(), AssistantAction{Kind: ActionPrayer}))
}
