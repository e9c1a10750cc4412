package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/DiagBench/pkg/types/diagnosis"
)

// writeConfig writes a minimal config pointing the engine at baseURL.
func writeConfig(t *testing.T, baseURL string, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "diagbench.yaml")
	body := fmt.Sprintf("service:\n  base_url: %q\nlog:\n  level: error\n%s", baseURL, extra)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func writeLines(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

// runCLI executes the root command and returns captured stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// fakeEngine answers every diagnose request with the codes for the query,
// and every chat request with reply.
func fakeEngine(t *testing.T, codes map[string]string, reply string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/diagnose", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := diagnosis.DiagnoseResponse{Diagnoses: []diagnosis.Candidate{}}
		if code, ok := codes[req["symptoms"]]; ok {
			resp.Diagnoses = append(resp.Diagnoses, diagnosis.Candidate{
				ICDCodes: []string{code}, Diagnosis: "diag " + code, LikelihoodPercent: 80,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(diagnosis.ChatResponse{Reply: reply})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

//Personal.AI order the ending
