package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikirag/internal/compare"
	"wikirag/internal/config"
)

type stubRetriever struct {
	text  string
	err   error
	calls int
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string) (string, error) {
	s.calls++
	return s.text, s.err
}

type stubGenerator struct {
	err   error
	calls int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if strings.HasPrefix(prompt, "You are an expert") {
		return "**Augmented** answer", nil
	}
	return "Direct answer to " + prompt, nil
}

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.LLM.APIKey = "secret-key"
	return cfg
}

func newTestRouter(cfg *config.Config, r compare.Retriever, g compare.TextGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(cfg, compare.NewPipeline(r, g))
}

func TestHealthHandler_ReturnsOk(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", healthHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestConfigHandler_HidesAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/config", configHandler(testConfig()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/config", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "secret-key")
	assert.Contains(t, body, `"top_k":2`)
	assert.Contains(t, body, `"temperature":0.6`)
	assert.Contains(t, body, "iphone 16?")
}

func TestPage_InitialLoadShowsDefaultQuery(t *testing.T) {
	ret, gen := &stubRetriever{text: "x"}, &stubGenerator{}
	r := newTestRouter(testConfig(), ret, gen)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>Wikipedia + LLM Response</title>")
	assert.Contains(t, body, `value="iphone 16?"`)
	assert.NotContains(t, body, "<h2>")
	assert.Zero(t, ret.calls)
	assert.Zero(t, gen.calls)
}

func TestPage_EmptySubmitRendersNoPanels(t *testing.T) {
	ret, gen := &stubRetriever{text: "x"}, &stubGenerator{}
	r := newTestRouter(testConfig(), ret, gen)

	form := url.Values{"query": {"   "}}
	req := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<h2>")
	assert.Zero(t, ret.calls)
	assert.Zero(t, gen.calls)
}

func TestPage_SubmitRendersThreePanels(t *testing.T) {
	ret := &stubRetriever{text: "Page: Paris\nSummary: Paris is the capital of France."}
	gen := &stubGenerator{}
	r := newTestRouter(testConfig(), ret, gen)

	form := url.Values{"query": {"What is the capital of France?"}}
	req := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	wiki := strings.Index(body, "<h2>Wikipedia response</h2>")
	direct := strings.Index(body, "<h2>LLM response</h2>")
	augmented := strings.Index(body, "<h2>Wiki &#43; LLM response</h2>")
	require.True(t, wiki > 0 && direct > wiki && augmented > direct, body)

	assert.Contains(t, body, "Paris is the capital of France.")
	assert.Contains(t, body, "Direct answer to What is the capital of France?")
	assert.Contains(t, body, "<strong>Augmented</strong> answer")
	assert.Contains(t, body, `value="What is the capital of France?"`)
	assert.Equal(t, 1, ret.calls)
	assert.Equal(t, 2, gen.calls)
}

func TestPage_GetWithQueryRuns(t *testing.T) {
	ret, gen := &stubRetriever{text: "Page: A\nSummary: B"}, &stubGenerator{}
	r := newTestRouter(testConfig(), ret, gen)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/?query=iphone+16%3F", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h2>Wiki &#43; LLM response</h2>")
	assert.Equal(t, 1, ret.calls)
}

func TestPage_RetrievalFailureShowsOnlyInItsPanel(t *testing.T) {
	ret := &stubRetriever{err: errors.New("wikipedia returned status 503")}
	gen := &stubGenerator{}
	r := newTestRouter(testConfig(), ret, gen)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/?query=paris", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "retrieval unavailable: wikipedia returned status 503")
	assert.Contains(t, body, "Direct answer to paris")
	assert.Equal(t, 1, gen.calls)
}

func TestPage_NoResultsNotice(t *testing.T) {
	r := newTestRouter(testConfig(), &stubRetriever{}, &stubGenerator{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/?query=zzqxj", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), compare.NoResultsNotice)
}

func TestPage_EscapesRawHTMLFromModel(t *testing.T) {
	ret := &stubRetriever{text: "<script>alert(1)</script>"}
	r := newTestRouter(testConfig(), ret, &stubGenerator{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/?query=x", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>alert(1)</script>")
}

func TestCompareHandler_JSON(t *testing.T) {
	ret := &stubRetriever{text: "Page: Paris\nSummary: Capital of France."}
	gen := &stubGenerator{}
	r := newTestRouter(testConfig(), ret, gen)

	req := httptest.NewRequest("POST", "/api/compare", strings.NewReader(`{"query":"What is the capital of France?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp compareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Submitted)
	assert.NotEmpty(t, resp.ID)
	require.NotNil(t, resp.Wikipedia)
	require.NotNil(t, resp.LLM)
	require.NotNil(t, resp.Augmented)
	assert.Equal(t, "Wikipedia response", resp.Wikipedia.Title)
	assert.Equal(t, "Page: Paris\nSummary: Capital of France.", resp.Wikipedia.Text)
	assert.Equal(t, "Direct answer to What is the capital of France?", resp.LLM.Text)
	assert.Equal(t, "**Augmented** answer", resp.Augmented.Text)
	assert.Empty(t, resp.Augmented.Error)
}

func TestCompareHandler_GenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("openai QuotaError (status 429)")}
	r := newTestRouter(testConfig(), &stubRetriever{text: "Page: A\nSummary: B"}, gen)

	req := httptest.NewRequest("POST", "/api/compare", strings.NewReader(`{"query":"q"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp compareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Wikipedia.Error)
	assert.Contains(t, resp.LLM.Error, "generation unavailable")
	assert.Contains(t, resp.Augmented.Error, "QuotaError")
}

func TestCompareHandler_EmptyQuery(t *testing.T) {
	ret, gen := &stubRetriever{}, &stubGenerator{}
	r := newTestRouter(testConfig(), ret, gen)

	req := httptest.NewRequest("POST", "/api/compare", strings.NewReader(`{"query":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"submitted":false`)
	assert.NotContains(t, w.Body.String(), "wikipedia")
	assert.Zero(t, ret.calls)
	assert.Zero(t, gen.calls)
}

func TestCompareHandler_BadJSON(t *testing.T) {
	r := newTestRouter(testConfig(), &stubRetriever{}, &stubGenerator{})

	req := httptest.NewRequest("POST", "/api/compare", strings.NewReader(`{"query":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
