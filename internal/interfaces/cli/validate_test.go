package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DiagBench/pkg/errors"
)

func TestValidateCommand_AllPass(t *testing.T) {
	engine := fakeEngine(t, map[string]string{
		"боль за грудиной":  "I21.0",
		"свистящее дыхание": "J45.1",
	}, "")
	cfg := writeConfig(t, engine.URL, "")
	set := writeLines(t, "set.jsonl",
		`{"query": "боль за грудиной", "gt": "I21.0"}`,
		`{"query": "свистящее дыхание", "gt": "J45.9"}`,
	)

	out, _, err := runCLI(t, "-c", cfg, "validate", set)
	require.NoError(t, err)
	assert.Contains(t, out, "Diagnosis Engine - Test Set Validation")
	assert.Contains(t, out, "Test 1/2:")
	assert.Contains(t, out, "Test 2/2:")
	assert.Contains(t, out, "PASS - Matched: I21.0 (80%) [exact]")
	assert.Contains(t, out, "PASS - Matched: J45.1 (80%) [category]")
	assert.Contains(t, out, "100.0%")
}

func TestValidateCommand_FailureExitsOne(t *testing.T) {
	engine := fakeEngine(t, map[string]string{"головная боль": "G43.0"}, "")
	cfg := writeConfig(t, engine.URL, "")
	set := writeLines(t, "set.jsonl",
		`{"query": "головная боль", "gt": "O14.2"}`,
		`{"query": "ничего", "gt": "R10.4"}`,
	)

	out, _, err := runCLI(t, "-c", cfg, "validate", set)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidationFailed))
	assert.Equal(t, 1, errors.ExitStatus(err))
	assert.Contains(t, out, "FAIL - Got: G43.0, Expected: O14.2")
	assert.Contains(t, out, "FAIL - No diagnoses found")
	assert.Contains(t, out, "0.0%")
}

func TestValidateCommand_JSONReport(t *testing.T) {
	engine := fakeEngine(t, map[string]string{"одышка": "J45.0"}, "")
	cfg := writeConfig(t, engine.URL, "")
	set := writeLines(t, "set.jsonl", `{"query": "одышка", "gt": "J45.0"}`)

	out, _, err := runCLI(t, "-c", cfg, "-o", "json", "validate", set)
	require.NoError(t, err)

	var rep struct {
		RunID    string            `json:"run_id"`
		Source   string            `json:"source"`
		Outcomes []json.RawMessage `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, set, rep.Source)
	assert.Len(t, rep.Outcomes, 1)
}

func TestValidateCommand_EmptyTestSet(t *testing.T) {
	engine := fakeEngine(t, nil, "")
	cfg := writeConfig(t, engine.URL, "")
	set := writeLines(t, "empty.jsonl", "")

	_, _, err := runCLI(t, "-c", cfg, "validate", set)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyTestSet))
	assert.Equal(t, 1, errors.ExitStatus(err))
}

func TestValidateCommand_MissingTestSet(t *testing.T) {
	cfg := writeConfig(t, "http://localhost:3000", "")
	_, _, err := runCLI(t, "-c", cfg, "validate", filepath.Join(t.TempDir(), "absent.jsonl"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFatalIO))
}

//Personal.AI order the ending
