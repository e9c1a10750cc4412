// Package generation synthesizes a labeled test set from a protocol corpus:
// one (query, ground-truth code) pair per listed code, capped per document.
package generation

import (
	"context"
	"strconv"
	"strings"

	"github.com/turtacn/DiagBench/internal/domain/corpus"
	"github.com/turtacn/DiagBench/internal/domain/testset"
	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/internal/intelligence/symptom_extractor"
	"github.com/turtacn/DiagBench/pkg/types/diagnosis"
)

// DefaultMaxCasesPerDocument caps the cases emitted per document when no
// valid cap is given.
const DefaultMaxCasesPerDocument = 3

// Document outcome labels reported to Metrics.
const (
	DocumentEmitted = "emitted"
	DocumentNoCodes = "no_codes"
	DocumentSkipped = "parse_error"
)

// Metrics receives generation counters. The Prometheus collector
// implements it.
type Metrics interface {
	RecordCorpusDocument(status string)
	RecordGeneratedCase(strategy string)
}

type nopMetrics struct{}

func (nopMetrics) RecordCorpusDocument(string) {}
func (nopMetrics) RecordGeneratedCase(string)  {}

// Summary describes one generation pass.
type Summary struct {
	Documents          int            `json:"documents"`
	DocumentsWithCodes int            `json:"documents_with_codes"`
	SkippedLines       int            `json:"skipped_lines"`
	Cases              int            `json:"cases"`
	InvalidCodes       int            `json:"invalid_codes"`
	ByStrategy         map[string]int `json:"by_strategy"`
	Output             string         `json:"output,omitempty"`
}

// NormalizeMaxCases maps a non-positive cap to the default.
func NormalizeMaxCases(n int) int {
	if n <= 0 {
		return DefaultMaxCasesPerDocument
	}
	return n
}

// ParseMaxCases parses a command-line cap. Anything that is not a positive
// integer yields the default and ok == false.
func ParseMaxCases(s string) (n int, ok bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return DefaultMaxCasesPerDocument, false
	}
	return v, true
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// Service turns corpus documents into test cases.
type Service struct {
	extractor *symptom_extractor.Extractor
	logger    logging.Logger
	metrics   Metrics
}

// NewService builds a Service around an extractor.
func NewService(extractor *symptom_extractor.Extractor, opts ...Option) *Service {
	if extractor == nil {
		extractor = symptom_extractor.NewExtractor()
	}
	s := &Service{
		extractor: extractor,
		logger:    logging.NewNopLogger(),
		metrics:   nopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CasesForDocument emits the cases for one document: one per listed code in
// order, duplicates included, truncated to maxCases. It is deterministic.
func (s *Service) CasesForDocument(doc *corpus.ProtocolDocument, maxCases int, summary *Summary) []testset.TestCase {
	if !doc.HasCodes() {
		return nil
	}
	codes := doc.ICDCodes
	if limit := NormalizeMaxCases(maxCases); len(codes) > limit {
		codes = codes[:limit]
	}

	out := make([]testset.TestCase, 0, len(codes))
	for _, code := range codes {
		if !diagnosis.Code(code).Valid() {
			s.logger.Warn("ground-truth code does not look like ICD-10",
				logging.String("document", doc.ID), logging.String("code", code))
			if summary != nil {
				summary.InvalidCodes++
			}
		}
		syn := s.extractor.Synthesize(doc.Text, code)
		s.metrics.RecordGeneratedCase(syn.Strategy)
		if summary != nil {
			summary.ByStrategy[syn.Strategy]++
		}
		out = append(out, testset.TestCase{Query: syn.Query, GT: code})
	}
	return out
}

// Generate streams every document from r and collects the cases in corpus
// order.
func (s *Service) Generate(ctx context.Context, r *corpus.Reader, maxCases int) ([]testset.TestCase, Summary, error) {
	summary := Summary{ByStrategy: map[string]int{}}
	var cases []testset.TestCase

	err := r.ForEach(ctx, func(doc *corpus.ProtocolDocument) error {
		summary.Documents++
		if !doc.HasCodes() {
			s.metrics.RecordCorpusDocument(DocumentNoCodes)
			s.logger.Debug("document has no codes", logging.String("document", doc.ID))
			return nil
		}
		summary.DocumentsWithCodes++
		s.metrics.RecordCorpusDocument(DocumentEmitted)
		cases = append(cases, s.CasesForDocument(doc, maxCases, &summary)...)
		return nil
	})
	summary.SkippedLines = r.Stats().Skipped
	summary.Cases = len(cases)
	if err != nil {
		return cases, summary, err
	}
	return cases, summary, nil
}

// GenerateFile reads corpusPath, then writes every case to outputPath in a
// single atomic pass.
func (s *Service) GenerateFile(ctx context.Context, corpusPath, outputPath string, maxCases int) ([]testset.TestCase, Summary, error) {
	r, f, err := corpus.OpenFile(corpusPath,
		corpus.WithLogger(s.logger),
		corpus.WithSkipHook(func(int, error) { s.metrics.RecordCorpusDocument(DocumentSkipped) }))
	if err != nil {
		return nil, Summary{}, err
	}
	defer f.Close()

	cases, summary, err := s.Generate(ctx, r, maxCases)
	if err != nil {
		return nil, summary, err
	}
	if err := testset.WriteFile(outputPath, cases); err != nil {
		return nil, summary, err
	}
	summary.Output = outputPath

	s.logger.Info("test set generated",
		logging.String("corpus", corpusPath),
		logging.String("output", outputPath),
		logging.Int("documents", summary.Documents),
		logging.Int("cases", summary.Cases),
		logging.Int("skipped_lines", summary.SkippedLines))
	return cases, summary, nil
}

//Personal.AI order the ending
