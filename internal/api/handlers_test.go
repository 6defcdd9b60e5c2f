package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthshield-server/internal/domain"
	"github.com/healthshield-server/internal/service"
	"github.com/healthshield-server/internal/store"
)

// fakeStore is an in-memory report store for handler tests.
type fakeStore struct {
	reports []*domain.Report
	pingErr error
}

func (f *fakeStore) Create(_ context.Context, report *domain.Report) error {
	report.ID = int64(len(f.reports) + 1)
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeStore) List(_ context.Context, page, perPage int) (*store.ReportPage, error) {
	total := int64(len(f.reports))
	pages := int((total + int64(perPage) - 1) / int64(perPage))

	items := make([]*domain.Report, 0)
	start := (page - 1) * perPage
	for i := len(f.reports) - 1 - start; i >= 0 && len(items) < perPage; i-- {
		items = append(items, f.reports[i])
	}
	return &store.ReportPage{Items: items, Total: total, Pages: pages, Page: page}, nil
}

func (f *fakeStore) Count(_ context.Context) (int64, error) { return int64(len(f.reports)), nil }
func (f *fakeStore) Ping(_ context.Context) error           { return f.pingErr }
func (f *fakeStore) Close() error                           { return nil }

// silentAlerts is an alert sender that records nothing and never fails.
type silentAlerts struct{ err error }

func (s *silentAlerts) SendAlert(_ context.Context, _ *domain.Submission, _ []domain.MatchResult, _ domain.RiskTier) error {
	return s.err
}

func testConfig() *domain.Config {
	return &domain.Config{
		Server: domain.ServerConfig{
			Host:           "127.0.0.1",
			Port:           5000,
			RateLimit:      100,
			RateLimitBurst: 100,
		},
		SMS: domain.SMSConfig{
			Provider:        "console",
			AuthorityNumber: "18605001066",
		},
	}
}

func newTestServer(t *testing.T, st *fakeStore, alerts *silentAlerts) *Server {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := service.NewReportService(
		logger,
		service.NewRiskScorer(domain.DefaultCatalog()),
		st,
		alerts,
		nil,
		"18605001066",
	)
	return NewServer(testConfig(), svc, st, logger)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func submissionPayload(symptoms []int) map[string]interface{} {
	return map[string]interface{}{
		"name":     "Asha Kumari",
		"age":      34,
		"gender":   "female",
		"village":  "Majuli",
		"mobile":   "9797001122",
		"symptoms": symptoms,
	}
}

func TestHandleHome(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &silentAlerts{})

	w := doJSON(t, srv, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "HealthShield Backend API", body["message"])
	assert.Equal(t, "1.0", body["version"])

	endpoints, ok := body["endpoints"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "/health", endpoints["health_check"])
	assert.Equal(t, "/api/analyze (POST)", endpoints["analyze_symptoms"])
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &silentAlerts{})

	w := doJSON(t, srv, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHandleHealth_StoreUnreachable(t *testing.T) {
	srv := newTestServer(t, &fakeStore{pingErr: errors.New("connection refused")}, &silentAlerts{})

	w := doJSON(t, srv, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", decodeBody(t, w)["status"])
}

func TestHandleAnalyze_HighRisk(t *testing.T) {
	st := &fakeStore{}
	srv := newTestServer(t, st, &silentAlerts{})

	w := doJSON(t, srv, http.MethodPost, "/api/analyze",
		submissionPayload([]int{1, 2, 3, 4, 5, 6, 8, 9, 11}))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "high", body["risk_level"])
	assert.Equal(t, true, body["sms_alert_sent"])
	assert.Equal(t, "High risk detected! SMS alert sent to health authorities.", body["message"])
	assert.Equal(t, float64(1), body["report_id"])
	assert.NotEmpty(t, body["matching_diseases"])
	require.Len(t, st.reports, 1)
}

func TestHandleAnalyze_LowRisk(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &silentAlerts{})

	w := doJSON(t, srv, http.MethodPost, "/api/analyze", submissionPayload([]int{}))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "low", body["risk_level"])
	assert.Equal(t, false, body["sms_alert_sent"])
	assert.Equal(t, "No serious water-borne disease detected. Your health appears good.", body["message"])
}

func TestHandleAnalyze_AlertFailureStillSucceeds(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &silentAlerts{err: errors.New("gateway unavailable")})

	w := doJSON(t, srv, http.MethodPost, "/api/analyze",
		submissionPayload([]int{1, 2, 3, 4, 5, 6, 8, 9, 11}))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "high", body["risk_level"])
	assert.Equal(t, false, body["sms_alert_sent"])
	assert.Equal(t, "High risk detected! Alert system activated.", body["message"])
}

func TestHandleAnalyze_MissingField(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &silentAlerts{})

	payload := submissionPayload([]int{2, 3})
	delete(payload, "name")

	w := doJSON(t, srv, http.MethodPost, "/api/analyze", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Missing required field: name", body["error"])
}

func TestHandleAnalyze_MissingSymptoms(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &silentAlerts{})

	payload := submissionPayload(nil)
	delete(payload, "symptoms")

	w := doJSON(t, srv, http.MethodPost, "/api/analyze", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required field: symptoms", decodeBody(t, w)["error"])
}

func TestHandleAnalyze_MalformedBody(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &silentAlerts{})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decodeBody(t, w)["error"])
}

func TestHandleReports(t *testing.T) {
	st := &fakeStore{}
	srv := newTestServer(t, st, &silentAlerts{})

	for i := 0; i < 3; i++ {
		w := doJSON(t, srv, http.MethodPost, "/api/analyze", submissionPayload([]int{2, 3, 5}))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, srv, http.MethodGet, "/api/reports", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(1), body["pages"])
	assert.Equal(t, float64(1), body["current_page"])

	reports, ok := body["reports"].([]interface{})
	require.True(t, ok)
	assert.Len(t, reports, 3)
}

func TestHandleReports_Pagination(t *testing.T) {
	st := &fakeStore{}
	srv := newTestServer(t, st, &silentAlerts{})

	for i := 0; i < 5; i++ {
		w := doJSON(t, srv, http.MethodPost, "/api/analyze", submissionPayload([]int{2, 3, 5}))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, srv, http.MethodGet, "/api/reports?page=2&per_page=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(5), body["total"])
	assert.Equal(t, float64(3), body["pages"])
	assert.Equal(t, float64(2), body["current_page"])
	assert.Len(t, body["reports"], 2)
}

func TestHandleReports_MalformedQueryFallsBack(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &silentAlerts{})

	w := doJSON(t, srv, http.MethodGet, "/api/reports?page=abc&per_page=xyz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["current_page"])
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &silentAlerts{})

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, &fakeStore{}, &silentAlerts{})

	w := doJSON(t, srv, http.MethodGet, "/health", nil)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestAnalyzeRateLimit(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	st := &fakeStore{}
	svc := service.NewReportService(
		logger,
		service.NewRiskScorer(domain.DefaultCatalog()),
		st,
		&silentAlerts{},
		nil,
		"18605001066",
	)
	cfg := testConfig()
	cfg.Server.RateLimit = 1
	cfg.Server.RateLimitBurst = 2
	srv := NewServer(cfg, svc, st, logger)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := doJSON(t, srv, http.MethodPost, "/api/analyze", submissionPayload([]int{2, 3}))
		codes = append(codes, w.Code)
	}

	assert.Contains(t, codes, http.StatusTooManyRequests)
	assert.Equal(t, http.StatusOK, codes[0])
}
