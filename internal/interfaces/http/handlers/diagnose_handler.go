package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/types/diagnosis"
)

const (
	// DefaultQueryField is the request field holding the symptom text.
	DefaultQueryField = "symptoms"
	// DefaultMaxResults bounds the diagnoses returned per request.
	DefaultMaxResults = 5
)

// Ranker produces ranked candidates for a query.
type Ranker interface {
	Rank(query string, limit int) []diagnosis.Candidate
}

// DiagnoseHandler serves the diagnosis and chat contracts from a Ranker.
type DiagnoseHandler struct {
	ranker     Ranker
	queryField string
	maxResults int
	logger     logging.Logger
}

// DiagnoseOption configures a DiagnoseHandler.
type DiagnoseOption func(*DiagnoseHandler)

// WithQueryField renames the request field read by Diagnose.
func WithQueryField(field string) DiagnoseOption {
	return func(h *DiagnoseHandler) {
		if field = strings.TrimSpace(field); field != "" {
			h.queryField = field
		}
	}
}

// WithMaxResults caps the diagnoses returned.
func WithMaxResults(n int) DiagnoseOption {
	return func(h *DiagnoseHandler) {
		if n > 0 {
			h.maxResults = n
		}
	}
}

func WithLogger(l logging.Logger) DiagnoseOption {
	return func(h *DiagnoseHandler) {
		if l != nil {
			h.logger = l
		}
	}
}

func NewDiagnoseHandler(r Ranker, opts ...DiagnoseOption) *DiagnoseHandler {
	h := &DiagnoseHandler{
		ranker:     r,
		queryField: DefaultQueryField,
		maxResults: DefaultMaxResults,
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Diagnose handles POST /api/diagnose.
func (h *DiagnoseHandler) Diagnose(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "bad_request", "request body must be a JSON object")
		return
	}
	raw, ok := body[h.queryField]
	if !ok {
		writeError(c, http.StatusBadRequest, "bad_request", fmt.Sprintf("field %q is required", h.queryField))
		return
	}
	var query string
	if err := json.Unmarshal(raw, &query); err != nil {
		writeError(c, http.StatusBadRequest, "bad_request", fmt.Sprintf("field %q must be a string", h.queryField))
		return
	}

	candidates := h.ranker.Rank(query, h.maxResults)
	h.logger.Debug("diagnose served",
		logging.Int("query_runes", len([]rune(query))),
		logging.Int("candidates", len(candidates)))
	c.JSON(http.StatusOK, diagnosis.DiagnoseResponse{Diagnoses: candidates})
}

// Chat handles POST /api/chat. The reply lists the ranked candidates with
// the phrases that matched.
func (h *DiagnoseHandler) Chat(c *gin.Context) {
	var req diagnosis.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		writeError(c, http.StatusBadRequest, "bad_request", `field "message" is required`)
		return
	}

	candidates := h.ranker.Rank(req.Message, h.maxResults)
	if len(candidates) == 0 {
		c.JSON(http.StatusOK, diagnosis.ChatResponse{Reply: "Совпадений в справочнике не найдено."})
		return
	}
	var sb strings.Builder
	for i, cand := range candidates {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s (%.1f%%): %s", cand.PrimaryCode(), cand.LikelihoodPercent, cand.Diagnosis)
	}
	c.JSON(http.StatusOK, diagnosis.ChatResponse{Reply: sb.String()})
}

//Personal.AI order the ending
