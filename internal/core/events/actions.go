package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// SubjectPrefix prefixes every assistant action subject, e.g. church.assistant.handoff.
const SubjectPrefix = "church.assistant."

// Action kinds, also the last token of the NATS subject.
const (
	ActionAppointment = "appointment"
	ActionPrayer      = "prayer"
	ActionHandoff     = "handoff"
)

// AssistantAction is published whenever the assistant acted on a directive.
type AssistantAction struct {
	Kind      string            `json:"kind"`
	ChurchID  uuid.UUID         `json:"churchId"`
	SessionID *uuid.UUID        `json:"sessionId,omitempty"`
	Payload   map[string]string `json:"payload"`
	At        time.Time         `json:"at"`
}

// Subject returns the NATS subject the action is published on.
func (a AssistantAction) Subject() string {
	return SubjectPrefix + a.Kind
}

type ActionPublisher interface {
	PublishAction(ctx context.Context, action AssistantAction) error
	Close()
}

// NATSPublisher publishes assistant actions to NATS for the human desk.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url, token string) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("church-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("⚠️ NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info().Msg("🔌 NATS reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) PublishAction(_ context.Context, action AssistantAction) error {
	if action.At.IsZero() {
		action.At = time.Now().UTC()
	}
	payload, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("marshal action: %w", err)
	}
	if err := p.conn.Publish(action.Subject(), payload); err != nil {
		return fmt.Errorf("publish %s: %w", action.Subject(), err)
	}
	return nil
}

func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// NoopPublisher drops actions. Used when NATS_URL is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishAction(context.Context, AssistantAction) error { return nil }

func (NoopPublisher) Close() {}
