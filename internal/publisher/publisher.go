package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/Checker-Finance/league-client/internal/metrics"
	"github.com/Checker-Finance/league-client/pkg/logger"
	"github.com/Checker-Finance/league-client/pkg/model"
)

const (
	StandingsUpdatedSubject = "evt.league.standings.updated.v1"
	standingsUpdatedType    = "league.standings.updated"
	envelopeVersion         = "1.0.0"
)

// Publisher wraps a NATS connection and publishes canonical league events.
type Publisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
	service string
}

// New creates a Publisher backed by JetStream. subject is used when a
// publish call does not name one.
func New(nc *nats.Conn, subject, service string) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	if subject == "" {
		subject = StandingsUpdatedSubject
	}
	return &Publisher{
		nc:      nc,
		js:      js,
		subject: subject,
		service: service,
	}, nil
}

// PublishEnvelope serializes env and publishes it to subject.
func (p *Publisher) PublishEnvelope(ctx context.Context, subject string, env *model.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		logger.S().Errorw("publisher.marshal_failed",
			"subject", subject,
			"event_type", env.EventType,
			"error", err,
		)
		metrics.IncError("publisher", "marshal_failed")
		return err
	}

	if subject == "" {
		subject = p.subject
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"event_type":     []string{env.EventType},
			"correlation_id": []string{env.CorrelationID.String()},
			"service":        []string{p.service},
			"content_type":   []string{"application/json"},
			// JetStream drops a message whose Nats-Msg-Id it has already seen.
			nats.MsgIdHdr: []string{env.ID.String()},
		},
	}

	start := time.Now()
	_, err = p.js.PublishMsg(msg, nats.Context(ctx))
	metrics.ObserveDuration(metrics.NATSMessageLatency, start, subject)

	if err != nil {
		logger.S().Errorw("publisher.publish_failed",
			"subject", subject,
			"event_type", env.EventType,
			"error", err,
		)
		metrics.IncNATSMessage(subject, "error")
		return err
	}

	logger.S().Infow("publisher.publish_success",
		"subject", subject,
		"event_type", env.EventType,
	)
	metrics.IncNATSMessage(subject, "ok")
	return nil
}

// PublishStandingsUpdated emits a league.standings.updated event.
func (p *Publisher) PublishStandingsUpdated(ctx context.Context, ev model.StandingsUpdated) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		metrics.IncError("publisher", "marshal_failed")
		return err
	}

	env := &model.Envelope{
		ID:            uuid.New(),
		CorrelationID: uuid.New(),
		Topic:         p.subject,
		EventType:     standingsUpdatedType,
		Version:       envelopeVersion,
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
	}
	return p.PublishEnvelope(ctx, p.subject, env)
}

func (p *Publisher) Close() {
	if p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
	}
}
