package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DiagBench/internal/application/validation"
	"github.com/turtacn/DiagBench/internal/domain/testset"
	apperrors "github.com/turtacn/DiagBench/pkg/errors"
	"github.com/turtacn/DiagBench/pkg/types/diagnosis"
)

type mockKafkaWriter struct {
	mu       sync.Mutex
	msgs     []kafka.Message
	writeErr error
	closed   int
}

func (m *mockKafkaWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.closed++
	return nil
}

func TestValidateProducerConfig(t *testing.T) {
	assert.Error(t, ValidateProducerConfig(ProducerConfig{}))
	assert.Error(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b:9092"}, MaxRetries: -1}))
	assert.NoError(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b:9092"}}))

	p, err := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}, Acks: "all"}, nil)
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestPublish(t *testing.T) {
	w := &mockKafkaWriter{}
	p := NewProducerWithWriter(w, ProducerConfig{}, nil)

	err := p.Publish(context.Background(), Message{Topic: "t", Key: []byte("k"), Value: []byte("v"), Headers: map[string]string{"h": "1"}})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "t", w.msgs[0].Topic)
	assert.Equal(t, []kafka.Header{{Key: "h", Value: []byte("1")}}, w.msgs[0].Headers)
	assert.False(t, w.msgs[0].Time.IsZero())
	assert.EqualValues(t, 1, p.Sent())
}

func TestPublish_Validation(t *testing.T) {
	p := NewProducerWithWriter(&mockKafkaWriter{}, ProducerConfig{MaxMessageBytes: 4}, nil)
	ctx := context.Background()

	assert.True(t, apperrors.IsCode(p.Publish(ctx, Message{Value: []byte("v")}), apperrors.ErrCodeValidation))
	assert.True(t, apperrors.IsCode(p.Publish(ctx, Message{Topic: "t"}), apperrors.ErrCodeValidation))
	assert.True(t, apperrors.IsCode(p.Publish(ctx, Message{Topic: "t", Value: []byte("12345")}), apperrors.ErrCodeValidation))
}

func TestPublish_WriteErrorAndClose(t *testing.T) {
	w := &mockKafkaWriter{writeErr: errors.New("leader not available")}
	p := NewProducerWithWriter(w, ProducerConfig{}, nil)

	err := p.Publish(context.Background(), Message{Topic: "t", Value: []byte("v")})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMessagingError))
	assert.EqualValues(t, 1, p.Failed())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, w.closed)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Topic: "t", Value: []byte("v")}), ErrProducerClosed)
}

func decodeEnvelope(t *testing.T, m kafka.Message) (EventEnvelope, map[string]interface{}) {
	t.Helper()
	var env EventEnvelope
	require.NoError(t, json.Unmarshal(m.Value, &env))
	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	return env, payload
}

func TestOutcomePublisher(t *testing.T) {
	w := &mockKafkaWriter{}
	pub := NewOutcomePublisher(NewProducerWithWriter(w, ProducerConfig{}, nil), "diagbench.outcomes", nil)
	pub.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	ctx := context.Background()

	top := diagnosis.Candidate{ICDCodes: []string{"I21.0"}, Diagnosis: "ОИМ", LikelihoodPercent: 77}
	out := validation.Outcome{
		Index:     1,
		Case:      testset.TestCase{Query: "боль в груди", GT: "I21"},
		Matched:   true,
		MatchKind: validation.MatchCategory,
		Reason:    validation.ReasonMatched,
		FoundCode: "I21.0",
		Top:       &top,
		Duration:  1500 * time.Millisecond,
	}
	require.NoError(t, pub.OnOutcome(ctx, "run-7", out))

	start := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	rep := &validation.Report{
		RunID:      "run-7",
		Source:     "test_set.jsonl",
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
		Outcomes:   []validation.Outcome{out},
		Stats:      validation.Tally([]validation.Outcome{out}),
	}
	require.NoError(t, pub.OnComplete(ctx, rep))

	require.Len(t, w.msgs, 2)
	for _, m := range w.msgs {
		assert.Equal(t, "diagbench.outcomes", m.Topic)
		assert.Equal(t, "run-7", string(m.Key))
	}

	env, payload := decodeEnvelope(t, w.msgs[0])
	assert.Equal(t, EventCaseEvaluated, env.EventType)
	assert.Equal(t, "run-7", env.RunID)
	assert.Equal(t, SchemaVersion, env.SchemaVersion)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "I21", payload["gt"])
	assert.Equal(t, "category", payload["match_kind"])
	assert.EqualValues(t, 77, payload["likelihood_percent"])
	assert.EqualValues(t, 1500, payload["duration_ms"])

	env, payload = decodeEnvelope(t, w.msgs[1])
	assert.Equal(t, EventRunCompleted, env.EventType)
	assert.EqualValues(t, 1, payload["total"])
	assert.EqualValues(t, 1, payload["rate"])
	assert.EqualValues(t, 2, payload["duration_seconds"])
	assert.True(t, strings.Contains(string(w.msgs[1].Value), `"matched":1`))
}

func TestOutcomePublisher_EmptyRunHasNullRate(t *testing.T) {
	w := &mockKafkaWriter{}
	pub := NewOutcomePublisher(NewProducerWithWriter(w, ProducerConfig{}, nil), "t", nil)

	require.NoError(t, pub.OnComplete(context.Background(), &validation.Report{RunID: "r", Stats: validation.Tally(nil)}))
	_, payload := decodeEnvelope(t, w.msgs[0])
	v, ok := payload["rate"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

//Personal.AI order the ending
