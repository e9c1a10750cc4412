package testset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/errors"
)

// Reader streams TestCases from JSONL input. Blank lines are ignored;
// undecodable lines are logged and skipped.
type Reader struct {
	br      *bufio.Reader
	logger  logging.Logger
	line    int
	skipped int
	done    bool
}

// NewReader wraps r. A nil logger discards skip warnings.
func NewReader(r io.Reader, logger logging.Logger) *Reader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Reader{br: bufio.NewReaderSize(r, 64*1024), logger: logger}
}

// Skipped is the number of undecodable lines seen so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Next returns the next test case or io.EOF.
func (r *Reader) Next() (TestCase, error) {
	for {
		if r.done {
			return TestCase{}, io.EOF
		}
		raw, err := r.br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return TestCase{}, errors.Wrapf(err, errors.ErrCodeFatalIO, "read test set line %d", r.line+1)
		}
		if err == io.EOF {
			r.done = true
			if len(raw) == 0 {
				return TestCase{}, io.EOF
			}
		}
		r.line++

		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		var tc TestCase
		if jerr := json.Unmarshal(raw, &tc); jerr != nil {
			r.skipped++
			r.logger.Warn("skipping malformed test case",
				logging.String("error_code", errors.ErrCodeTestSetParse.String()),
				logging.Int("line", r.line),
				logging.Err(jerr))
			continue
		}
		return tc, nil
	}
}

// ReadAll drains r. It honours ctx between records.
func (r *Reader) ReadAll(ctx context.Context) ([]TestCase, error) {
	var out []TestCase
	for {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		tc, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, tc)
	}
}

// ReadFile loads every test case from path.
func ReadFile(ctx context.Context, path string, logger logging.Logger) ([]TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeFatalIO, "open test set %q", path)
	}
	defer f.Close()
	return NewReader(f, logger).ReadAll(ctx)
}

//Personal.AI order the ending
