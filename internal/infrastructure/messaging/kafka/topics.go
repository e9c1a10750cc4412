package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/DiagBench/internal/application/validation"
	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/errors"
)

// Event types carried in EventEnvelope.EventType.
const (
	EventCaseEvaluated = "validation.case_evaluated"
	EventRunCompleted  = "validation.run_completed"

	SchemaVersion = "1"
	sourceName    = "diagbench"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	RunID         string          `json:"run_id"`
	Payload       json.RawMessage `json:"payload"`
}

// CaseEvaluatedPayload is one outcome.
type CaseEvaluatedPayload struct {
	Index      int     `json:"index"`
	Query      string  `json:"query"`
	GT         string  `json:"gt"`
	Matched    bool    `json:"matched"`
	MatchKind  string  `json:"match_kind,omitempty"`
	Reason     string  `json:"reason"`
	FoundCode  string  `json:"found_code,omitempty"`
	Likelihood float64 `json:"likelihood_percent,omitempty"`
	Error      string  `json:"error,omitempty"`
	DurationMs int64   `json:"duration_ms"`
}

// RunCompletedPayload summarizes a run.
type RunCompletedPayload struct {
	Source      string         `json:"source"`
	Endpoint    string         `json:"endpoint"`
	Total       int            `json:"total"`
	Passed      int            `json:"passed"`
	Failed      int            `json:"failed"`
	Rate        *float64       `json:"rate"`
	ByReason    map[string]int `json:"by_reason"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	DurationSec float64        `json:"duration_seconds"`
}

// OutcomePublisher is a validation.Observer that publishes every outcome and
// the final summary to one topic, keyed by run ID so a run stays ordered
// within its partition.
type OutcomePublisher struct {
	producer *Producer
	topic    string
	logger   logging.Logger
	now      func() time.Time
}

func NewOutcomePublisher(p *Producer, topic string, logger logging.Logger) *OutcomePublisher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &OutcomePublisher{producer: p, topic: topic, logger: logger, now: time.Now}
}

func (o *OutcomePublisher) OnOutcome(ctx context.Context, runID string, out validation.Outcome) error {
	payload := CaseEvaluatedPayload{
		Index:      out.Index,
		Query:      out.Case.Query,
		GT:         out.Case.GT,
		Matched:    out.Matched,
		MatchKind:  string(out.MatchKind),
		Reason:     string(out.Reason),
		FoundCode:  out.FoundCode,
		Error:      out.Error,
		DurationMs: out.Duration.Milliseconds(),
	}
	if out.Top != nil {
		payload.Likelihood = out.Top.LikelihoodPercent
	}
	return o.publish(ctx, EventCaseEvaluated, runID, payload)
}

func (o *OutcomePublisher) OnComplete(ctx context.Context, rep *validation.Report) error {
	payload := RunCompletedPayload{
		Source:      rep.Source,
		Endpoint:    rep.Endpoint,
		Total:       rep.Stats.Total,
		Passed:      rep.Stats.Passed,
		Failed:      rep.Stats.Failed,
		ByReason:    make(map[string]int, len(rep.Stats.ByReason)),
		StartedAt:   rep.StartedAt,
		FinishedAt:  rep.FinishedAt,
		DurationSec: rep.FinishedAt.Sub(rep.StartedAt).Seconds(),
	}
	if rep.Stats.RateDefined {
		rate := rep.Stats.Rate
		payload.Rate = &rate
	}
	for r, n := range rep.Stats.ByReason {
		payload.ByReason[string(r)] = n
	}
	return o.publish(ctx, EventRunCompleted, rep.RunID, payload)
}

func (o *OutcomePublisher) publish(ctx context.Context, eventType, runID string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode event payload")
	}
	env := EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        sourceName,
		Timestamp:     o.now().UTC(),
		SchemaVersion: SchemaVersion,
		RunID:         runID,
		Payload:       raw,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode event envelope")
	}
	return o.producer.Publish(ctx, Message{
		Topic:   o.topic,
		Key:     []byte(runID),
		Value:   value,
		Headers: map[string]string{"event_type": eventType},
		Time:    env.Timestamp,
	})
}

var _ validation.Observer = (*OutcomePublisher)(nil)

//Personal.AI order the ending
