package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/DiagBench/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"corpus parse", errors.ErrCodeCorpusParse, "line 7: unexpected EOF"},
		{"empty test set", errors.ErrCodeEmptyTestSet, "test_set.jsonl has no cases"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestNew_EmptyMessageUsesDefault(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeEmptyTestSet, "")
	assert.Equal(t, "test set contains no cases", ae.Message)
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeFatalIO, "cannot open corpus")
	assert.Equal(t, "[GEN_001] cannot open corpus", ae.Error())

	withDetail := ae.WithDetail("protocols_corpus.jsonl")
	assert.Equal(t, "[GEN_001] cannot open corpus: protocols_corpus.jsonl", withDetail.Error())

	withCause := withDetail.WithCause(fmt.Errorf("permission denied"))
	assert.Equal(t, "[GEN_001] cannot open corpus: protocols_corpus.jsonl: permission denied", withCause.Error())

	// the original is untouched by the fluent copies
	assert.Empty(t, ae.Detail)
	assert.Nil(t, ae.Cause)
}

func TestWithDetail_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(fmt.Errorf("x")))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilReturnsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.Wrap(nil, errors.ErrCodeFatalIO, "ignored"))
	assert.Nil(t, errors.Wrapf(nil, errors.ErrCodeFatalIO, "ignored %d", 1))
}

func TestWrap_PreservesChain(t *testing.T) {
	t.Parallel()

	sentinel := stderrors.New("disk full")
	ae := errors.Wrap(sentinel, errors.ErrCodeFatalIO, "write test set")

	require.NotNil(t, ae)
	assert.True(t, stderrors.Is(ae, sentinel))
	assert.Equal(t, sentinel, stderrors.Unwrap(ae))
}

func TestWrap_UnknownCodeKeepsOriginal(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeCorpusParse, "bad line")
	outer := errors.Wrap(inner, errors.CodeUnknown, "reading corpus")

	assert.Equal(t, errors.ErrCodeCorpusParse, outer.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_WalksChain(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeServiceError, "connection refused")
	mid := fmt.Errorf("case 3: %w", inner)
	outer := errors.Wrap(mid, errors.ErrCodeValidationFailed, "run failed")

	assert.True(t, errors.IsCode(outer, errors.ErrCodeValidationFailed))
	assert.True(t, errors.IsCode(outer, errors.ErrCodeServiceError))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeFatalIO))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeFatalIO))
	assert.False(t, errors.IsCode(stderrors.New("plain"), errors.ErrCodeFatalIO))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeUnknown, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeFatalIO, errors.GetCode(fmt.Errorf("x: %w", errors.New(errors.ErrCodeFatalIO, "y"))))
}

func TestInvalidConfig_IsSentinel(t *testing.T) {
	t.Parallel()

	err := errors.InvalidConfig("service.base_url %q is not absolute", "localhost")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidConfig))
	assert.Equal(t, errors.ErrCodeValidation, err.Code)
	assert.Contains(t, err.Error(), "localhost")
}

func TestExitStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"validation failed", errors.New(errors.ErrCodeValidationFailed, ""), 1},
		{"empty test set", errors.New(errors.ErrCodeEmptyTestSet, ""), 1},
		{"fatal io", errors.New(errors.ErrCodeFatalIO, ""), 2},
		{"bad config", errors.InvalidConfig("x"), 3},
		{"plain error", stderrors.New("boom"), 2},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, errors.ExitStatus(tc.err))
		})
	}
}

func TestModuleForCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "CORPUS", errors.ModuleForCode(errors.ErrCodeCorpusParse))
	assert.Equal(t, "VAL", errors.ModuleForCode(errors.ErrCodeServiceError))
	assert.Equal(t, "UNKNOWN", errors.ModuleForCode(errors.ErrorCode("bogus")))
}

//Personal.AI order the ending
