package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Checker-Finance/league-client/pkg/model"
)

// --- mock types ---

type mockJetStream struct {
	nats.JetStreamContext
	published []*nats.Msg
	fail      bool
}

func (m *mockJetStream) PublishMsg(msg *nats.Msg, _ ...nats.PubOpt) (*nats.PubAck, error) {
	if m.fail {
		return nil, errors.New("mock publish error")
	}
	m.published = append(m.published, msg)
	return &nats.PubAck{Stream: "mock-stream", Sequence: uint64(len(m.published))}, nil
}

func newTestPublisher(fail bool) (*Publisher, *mockJetStream) {
	js := &mockJetStream{fail: fail}
	return &Publisher{
		js:      js,
		subject: StandingsUpdatedSubject,
		service: "leaguectl",
	}, js
}

// --- tests ---

func TestPublishEnvelope_Success(t *testing.T) {
	pub, js := newTestPublisher(false)
	env := &model.Envelope{
		ID:            uuid.New(),
		CorrelationID: uuid.New(),
		Topic:         StandingsUpdatedSubject,
		EventType:     "league.standings.updated",
		Version:       "1.0.0",
		Timestamp:     time.Now(),
		Payload:       json.RawMessage(`{"league_id":5}`),
	}

	require.NoError(t, pub.PublishEnvelope(context.Background(), "", env))
	require.Len(t, js.published, 1)

	msg := js.published[0]
	assert.Equal(t, StandingsUpdatedSubject, msg.Subject)
	assert.Equal(t, "league.standings.updated", msg.Header.Get("event_type"))
	assert.Equal(t, "leaguectl", msg.Header.Get("service"))
	assert.Equal(t, env.ID.String(), msg.Header.Get(nats.MsgIdHdr))

	var parsed model.Envelope
	require.NoError(t, json.Unmarshal(msg.Data, &parsed))
	assert.Equal(t, env.ID, parsed.ID)
	assert.JSONEq(t, `{"league_id":5}`, string(parsed.Payload))
}

func TestPublishEnvelope_Failure(t *testing.T) {
	pub, _ := newTestPublisher(true)
	err := pub.PublishEnvelope(context.Background(), "evt.x", &model.Envelope{ID: uuid.New()})
	assert.Error(t, err)
}

func TestPublishStandingsUpdated(t *testing.T) {
	pub, js := newTestPublisher(false)
	ev := model.StandingsUpdated{
		LeagueID:   5,
		Standings:  []model.Standing{{TeamID: 1, TeamName: "Hawks", Points: 9}},
		Checksum:   "abc",
		ObservedAt: time.Now().UTC(),
	}

	require.NoError(t, pub.PublishStandingsUpdated(context.Background(), ev))
	require.Len(t, js.published, 1)

	var env model.Envelope
	require.NoError(t, json.Unmarshal(js.published[0].Data, &env))
	assert.Equal(t, "league.standings.updated", env.EventType)
	assert.Equal(t, StandingsUpdatedSubject, env.Topic)

	var got model.StandingsUpdated
	require.NoError(t, json.Unmarshal(env.Payload, &got))
	assert.Equal(t, 5, got.LeagueID)
	assert.Equal(t, "abc", got.Checksum)
	require.Len(t, got.Standings, 1)
	assert.Equal(t, "Hawks", got.Standings[0].TeamName)
}

func TestClose_NilConn(t *testing.T) {
	pub, _ := newTestPublisher(false)
	assert.NotPanics(t, pub.Close)
}
