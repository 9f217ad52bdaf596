package server

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/event"
	"github.com/osse101/ExpTracker_Go/internal/ocr"
	"github.com/osse101/ExpTracker_Go/internal/preferences"
	"github.com/osse101/ExpTracker_Go/internal/records"
	"github.com/osse101/ExpTracker_Go/internal/tracker"
)

const testAPIKey = "test-key"

type idleOCR struct{}

func (idleOCR) Ready() bool { return true }

func (idleOCR) Recognize(context.Context, image.Image) (domain.OCRReading, error) {
	return domain.OCRReading{}, nil
}

func (idleOCR) Locate(context.Context, image.Image) (ocr.Location, error) {
	return ocr.Location{}, nil
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	svc := tracker.New(idleOCR{}, tracker.Options{
		Interval:    time.Minute,
		Bus:         event.NewMemoryBus(),
		Records:     records.NewService(records.NewMemoryRepository()),
		Preferences: preferences.NewService(preferences.NewMemoryRepository(), time.Minute),
	})
	t.Cleanup(svc.Close)

	return NewServer(Options{
		Port:           0,
		APIKey:         testAPIKey,
		AllowedOrigins: []string{"http://localhost:5173"},
		Version:        "test",
		Tracker:        svc,
	}).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set(HeaderAPIKey, testAPIKey)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_PublicRoutes(t *testing.T) {
	h := newTestServer(t)

	for _, path := range []string{PathHealthz, PathReadyz, PathMetrics, PathVersion} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestServer_SwaggerUIIsPublic(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, PathSwagger+"index.html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}

func TestServer_RequiresKey(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tracker", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_TrackerFlow(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/v1/tracker", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var state map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "idle", state["phase"])
	assert.Equal(t, 60.0, state["interval_seconds"])

	rec = do(t, h, http.MethodPost, "/api/v1/tracker/start", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/v1/tracker/region", `{"x":0.1,"y":0.8,"width":0.3,"height":0.05}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Region set but nothing to capture from
	rec = do(t, h, http.MethodPost, "/api/v1/tracker/start", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/v1/tracker/interval", `{"seconds":30}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"interval_seconds":30`)

	rec = do(t, h, http.MethodGet, "/api/v1/tracker/history.csv", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/api/v1/tracker/region", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Records(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/records", `{"monster_name":"Slime","minutes":10,"total_exp_override":900}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.SavedExpRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(900), created.TotalExp)
	assert.True(t, created.TotalExpManual)

	rec = do(t, h, http.MethodGet, "/api/v1/records/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/records", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.SavedExpRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestServer_CORSPreflight(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tracker/start", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", HeaderAPIKey)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
