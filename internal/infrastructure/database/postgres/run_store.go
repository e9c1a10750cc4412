package postgres

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/turtacn/DiagBench/internal/application/validation"
	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/errors"
)

const (
	queryEnsureRun = `INSERT INTO validation_runs (run_id, started_at) VALUES ($1, $2)
ON CONFLICT (run_id) DO NOTHING`

	queryInsertOutcome = `INSERT INTO validation_outcomes
(run_id, idx, query, gt, matched, match_kind, reason, found_code, diagnosis, likelihood, error, duration_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (run_id, idx) DO NOTHING`

	queryCompleteRun = `INSERT INTO validation_runs
(run_id, source, endpoint, started_at, finished_at, total, passed, failed, rate)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (run_id) DO UPDATE SET
source = EXCLUDED.source, endpoint = EXCLUDED.endpoint, started_at = EXCLUDED.started_at,
finished_at = EXCLUDED.finished_at, total = EXCLUDED.total, passed = EXCLUDED.passed,
failed = EXCLUDED.failed, rate = EXCLUDED.rate`

	queryRecentRuns = `SELECT run_id, source, endpoint, started_at, finished_at, total, passed, failed, rate
FROM validation_runs ORDER BY started_at DESC LIMIT $1`
)

// RunSummary is one stored run.
type RunSummary struct {
	RunID      string     `json:"run_id"`
	Source     string     `json:"source"`
	Endpoint   string     `json:"endpoint"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Total      int        `json:"total"`
	Passed     int        `json:"passed"`
	Failed     int        `json:"failed"`
	// Rate is nil for runs without cases or still in progress.
	Rate *float64 `json:"rate"`
}

// RunStore persists validation runs. It is a validation.Observer: each
// outcome is written as it is produced, so an interrupted run still leaves
// its finished cases behind.
type RunStore struct {
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time

	mu    sync.Mutex
	known map[string]bool
}

func NewRunStore(db *sql.DB, logger logging.Logger) *RunStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RunStore{db: db, logger: logger, now: time.Now, known: make(map[string]bool)}
}

func (s *RunStore) ensureRun(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.known[runID] {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, queryEnsureRun, runID, s.now().UTC()); err != nil {
		return errors.Wrapf(err, errors.ErrCodeDatabaseError, "register run %s", runID)
	}
	s.known[runID] = true
	return nil
}

func (s *RunStore) OnOutcome(ctx context.Context, runID string, o validation.Outcome) error {
	if err := s.ensureRun(ctx, runID); err != nil {
		return err
	}

	var diag string
	var likelihood sql.NullFloat64
	if o.Top != nil {
		diag = o.Top.Diagnosis
		likelihood = sql.NullFloat64{Float64: o.Top.LikelihoodPercent, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, queryInsertOutcome,
		runID, o.Index, o.Case.Query, o.Case.GT, o.Matched, string(o.MatchKind), string(o.Reason),
		o.FoundCode, diag, likelihood, o.Error, o.Duration.Milliseconds())
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeDatabaseError, "store outcome %d of run %s", o.Index, runID)
	}
	return nil
}

func (s *RunStore) OnComplete(ctx context.Context, rep *validation.Report) error {
	var rate sql.NullFloat64
	if rep.Stats.RateDefined {
		rate = sql.NullFloat64{Float64: rep.Stats.Rate, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, queryCompleteRun,
		rep.RunID, rep.Source, rep.Endpoint, rep.StartedAt.UTC(), rep.FinishedAt.UTC(),
		rep.Stats.Total, rep.Stats.Passed, rep.Stats.Failed, rate)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeDatabaseError, "store run %s", rep.RunID)
	}
	s.logger.Info("validation run saved", logging.String("run_id", rep.RunID), logging.Int("total", rep.Stats.Total))
	return nil
}

// RecentRuns lists up to limit runs, newest first.
func (s *RunStore) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, queryRecentRuns, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list runs")
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var finished sql.NullTime
		var rate sql.NullFloat64
		if err := rows.Scan(&r.RunID, &r.Source, &r.Endpoint, &r.StartedAt, &finished,
			&r.Total, &r.Passed, &r.Failed, &rate); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan run")
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		if rate.Valid {
			v := rate.Float64
			r.Rate = &v
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate runs")
	}
	return out, nil
}

var _ validation.Observer = (*RunStore)(nil)

//Personal.AI order the ending
