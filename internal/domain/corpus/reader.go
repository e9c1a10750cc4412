package corpus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/errors"
)

// Stats counts what a Reader has seen so far.
type Stats struct {
	Lines     int
	Blank     int
	Documents int
	Skipped   int
}

// rawID accepts string or numeric ids.
type rawID string

func (id *rawID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = rawID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = rawID(n.String())
	return nil
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithLogger sets the logger used for skipped lines.
func WithLogger(l logging.Logger) ReaderOption {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSkipHook registers a callback invoked for every malformed line, after
// it has been logged. Metrics use it to count corpus_parse_error.
func WithSkipHook(fn func(line int, err error)) ReaderOption {
	return func(r *Reader) { r.onSkip = fn }
}

// Reader streams ProtocolDocuments from JSONL input. Lines may be of any
// length. Blank lines are ignored; malformed lines are logged and skipped.
type Reader struct {
	br     *bufio.Reader
	logger logging.Logger
	onSkip func(line int, err error)
	stats  Stats
	done   bool
}

// NewReader wraps r.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	rd := &Reader{
		br:     bufio.NewReaderSize(r, 64*1024),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Stats returns the counters accumulated so far.
func (r *Reader) Stats() Stats {
	return r.stats
}

// Next returns the next well-formed document, or io.EOF when the input is
// exhausted. Any other error is an I/O failure and carries ErrCodeFatalIO.
func (r *Reader) Next() (*ProtocolDocument, error) {
	for {
		if r.done {
			return nil, io.EOF
		}
		line, err := r.br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, errors.ErrCodeFatalIO, "read corpus line %d", r.stats.Lines+1)
		}
		if err == io.EOF {
			r.done = true
			if len(line) == 0 {
				return nil, io.EOF
			}
		}
		r.stats.Lines++

		line = bytes.TrimRight(line, "\r\n")
		if len(bytes.TrimSpace(line)) == 0 {
			r.stats.Blank++
			continue
		}

		doc, perr := r.parse(line)
		if perr != nil {
			r.stats.Skipped++
			r.logger.Warn("skipping malformed corpus line",
				logging.String("error_code", errors.ErrCodeCorpusParse.String()),
				logging.Int("line", r.stats.Lines),
				logging.Err(perr))
			if r.onSkip != nil {
				r.onSkip(r.stats.Lines, perr)
			}
			continue
		}
		r.stats.Documents++
		return doc, nil
	}
}

func (r *Reader) parse(line []byte) (*ProtocolDocument, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeCorpusParse, "line %d", r.stats.Lines)
	}

	id := strings.TrimSpace(string(rec.ID))
	if id == "" {
		id = "line:" + strconv.Itoa(r.stats.Lines)
	}

	// codes are ground truth and pass through as written, blanks included
	return &ProtocolDocument{
		ID:       id,
		Text:     norm.NFC.String(rec.Text),
		ICDCodes: append([]string(nil), rec.ICDCodes...),
	}, nil
}

// ForEach calls fn for every well-formed document in order. It stops at the
// first error from fn, from the input, or from ctx.
func (r *Reader) ForEach(ctx context.Context, fn func(*ProtocolDocument) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
}

// OpenFile opens path for streaming. The caller closes the returned file.
func OpenFile(path string, opts ...ReaderOption) (*Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrCodeFatalIO, "open corpus %q", path)
	}
	return NewReader(f, opts...), f, nil
}

//Personal.AI order the ending
