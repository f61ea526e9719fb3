package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/scanstream/health"
	"github.com/c360/scanstream/vocabulary"
)

type fakeHealth struct {
	healthy bool
}

func (f *fakeHealth) IsHealthy() bool {
	return f.healthy
}

func newTestGateway(t *testing.T, opts ...Option) *Gateway {
	t.Helper()

	g, err := NewGateway(8080, opts...)
	require.NoError(t, err)
	return g
}

func postDecode(t *testing.T, g *Gateway, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/decode", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	return rec
}

func TestNewGateway_InvalidPort(t *testing.T) {
	_, err := NewGateway(0)
	assert.Error(t, err)
}

func TestDecode_GSInput(t *testing.T) {
	g := newTestGateway(t)

	rec := postDecode(t, g, `{"input":"0100196527094841\u001d2100298"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp decodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "gs", string(resp.Format))
	assert.True(t, resp.OK)
	assert.True(t, resp.Data.Valid)
	require.Len(t, resp.Data.Elements, 2)
	assert.Equal(t, "00196527094841", resp.Data.AIMap["01"])
	assert.Equal(t, "00298", resp.Data.AIMap["21"])
}

func TestDecode_ParenInput(t *testing.T) {
	g := newTestGateway(t)

	rec := postDecode(t, g, `{"input":"(01)00196527094841(21)0298"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp decodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "paren", string(resp.Format))
	assert.True(t, resp.Data.Valid)
}

func TestDecode_ExplicitFormat(t *testing.T) {
	g := newTestGateway(t)

	// Forcing the GS decoder on parenthesized input fails tokenization
	rec := postDecode(t, g, `{"input":"(01)00196527094841","format":"gs"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp decodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.NotEmpty(t, resp.Errors)
	assert.False(t, resp.Data.Valid)
}

func TestDecode_UnknownFormat(t *testing.T) {
	g := newTestGateway(t)

	rec := postDecode(t, g, `{"input":"700","format":"ean"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown format")
}

func TestDecode_EmptyInput(t *testing.T) {
	g := newTestGateway(t)

	rec := postDecode(t, g, `{"input":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "input is required")
}

func TestDecode_InvalidJSON(t *testing.T) {
	g := newTestGateway(t)

	rec := postDecode(t, g, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecode_MethodNotAllowed(t *testing.T) {
	g := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/decode", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDecode_RequestIDHeader(t *testing.T) {
	g := newTestGateway(t)

	rec := postDecode(t, g, `{"input":"700"}`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	// A provided request ID is echoed back
	req := httptest.NewRequest(http.MethodPost, "/api/v1/decode",
		bytes.NewBufferString(`{"input":"700"}`))
	req.Header.Set("X-Request-ID", "trace-42")
	rec = httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	assert.Equal(t, "trace-42", rec.Header().Get("X-Request-ID"))
}

func TestVocabularyList(t *testing.T) {
	g := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vocabulary", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp vocabularyListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, vocabulary.Size(), resp.Count)
	assert.NotEmpty(t, resp.Definitions)

	codes := make(map[string]bool, len(resp.Definitions))
	for _, def := range resp.Definitions {
		codes[def.Code] = true
	}
	assert.True(t, codes["01"])
	assert.True(t, codes["21"])
}

func TestVocabularySearch(t *testing.T) {
	g := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vocabulary?q=batch", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp vocabularyListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.NotEmpty(t, resp.Definitions)
	found := false
	for _, def := range resp.Definitions {
		if def.Code == "10" {
			found = true
		}
	}
	assert.True(t, found, "batch search should match AI 10")
}

func TestVocabularySearch_NoMatches(t *testing.T) {
	g := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vocabulary?q=zzzznope", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp vocabularyListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Definitions)
}

func TestVocabularyGet(t *testing.T) {
	g := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vocabulary/01", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var def vocabulary.AIDefinition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &def))
	assert.Equal(t, "01", def.Code)
	assert.Equal(t, "GTIN", def.Title)
}

func TestVocabularyGet_NotFound(t *testing.T) {
	g := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vocabulary/9999", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	g := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.NATS)
}

func TestHealthz_NATSStatus(t *testing.T) {
	source := &fakeHealth{healthy: true}
	g := newTestGateway(t, WithHealthSource(source))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "connected", resp.NATS)

	source.healthy = false
	rec = httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "disconnected", resp.NATS)
}

func TestHealthz_ComponentMonitor(t *testing.T) {
	monitor := health.NewMonitor(nil)
	monitor.UpdateHealthy("natsclient", "connected")
	monitor.UpdateHealthy("websocket-feed", "listening")
	g := newTestGateway(t, WithHealthMonitor(monitor))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Components, 2)
	assert.Equal(t, "natsclient", resp.Components[0].Component)

	monitor.UpdateUnhealthy("natsclient", "connection refused")
	rec = httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
}

func TestHealthz_MonitorDegraded(t *testing.T) {
	monitor := health.NewMonitor(nil)
	monitor.UpdateDegraded("natsclient", "reconnecting")
	g := newTestGateway(t, WithHealthMonitor(monitor))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	g.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
}
