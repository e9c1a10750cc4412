package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DiagBench/pkg/types/diagnosis"
)

type fakeRanker struct {
	gotQuery string
	gotLimit int
	out      []diagnosis.Candidate
}

func (f *fakeRanker) Rank(query string, limit int) []diagnosis.Candidate {
	f.gotQuery, f.gotLimit = query, limit
	return f.out
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/x", h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestDiagnose_Defaults(t *testing.T) {
	rk := &fakeRanker{out: []diagnosis.Candidate{{ICDCodes: []string{"E78.2"}, Diagnosis: "x", LikelihoodPercent: 40}}}
	h := NewDiagnoseHandler(rk)

	w := serve(h.Diagnose, `{"symptoms":"слабость"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "слабость", rk.gotQuery)
	assert.Equal(t, DefaultMaxResults, rk.gotLimit)

	var resp diagnosis.DiagnoseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, rk.out, resp.Diagnoses)
}

func TestDiagnose_EmptyResultIsArray(t *testing.T) {
	h := NewDiagnoseHandler(&fakeRanker{out: []diagnosis.Candidate{}})
	w := serve(h.Diagnose, `{"symptoms":"?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"diagnoses":[]}`, w.Body.String())
}

func TestDiagnose_CustomFieldAndLimit(t *testing.T) {
	rk := &fakeRanker{}
	h := NewDiagnoseHandler(rk, WithQueryField("query"), WithMaxResults(2))

	w := serve(h.Diagnose, `{"query":"кашель"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "кашель", rk.gotQuery)
	assert.Equal(t, 2, rk.gotLimit)

	w = serve(h.Diagnose, `{"symptoms":"кашель"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `field \"query\" is required`)
}

func TestDiagnose_BadBodies(t *testing.T) {
	h := NewDiagnoseHandler(&fakeRanker{})
	for _, body := range []string{`not json`, `[1,2]`, `{"symptoms":42}`} {
		w := serve(h.Diagnose, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestChat(t *testing.T) {
	rk := &fakeRanker{out: []diagnosis.Candidate{
		{ICDCodes: []string{"O14.2"}, Diagnosis: "головная боль, рвота", LikelihoodPercent: 66.7},
	}}
	h := NewDiagnoseHandler(rk)

	w := serve(h.Chat, `{"message":"головная боль"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp diagnosis.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "O14.2 (66.7%): головная боль, рвота", resp.Reply)

	rk.out = nil
	w = serve(h.Chat, `{"message":"ничего"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Совпадений")

	w = serve(h.Chat, `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

//Personal.AI order the ending
