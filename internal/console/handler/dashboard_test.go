package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TharHtet236401/cyber-security/internal/console/service"
	"github.com/TharHtet236401/cyber-security/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDashboardService struct {
	lastReq domain.SelectionRequest
	report  *domain.DashboardReport
	err     error
}

func (s *stubDashboardService) Dimensions() domain.Dimensions {
	return domain.Dimensions{Years: []int{2020, 2021}, Countries: []string{"UK", "USA"}}
}

func (s *stubDashboardService) BuildReport(_ context.Context, req domain.SelectionRequest, _ service.QueryMeta) (*domain.DashboardReport, error) {
	s.lastReq = req
	return s.report, s.err
}

func (s *stubDashboardService) ListIncidents(_ context.Context, req domain.SelectionRequest, limit, offset int, _ service.QueryMeta) ([]domain.Incident, int) {
	s.lastReq = req
	return []domain.Incident{{Country: "UK", Year: 2021}}, 1
}

func (s *stubDashboardService) BuildMap(_ context.Context, req domain.SelectionRequest, _ service.QueryMeta) ([]domain.CountryMapEntry, error) {
	s.lastReq = req
	return []domain.CountryMapEntry{}, s.err
}

func TestGetDimensions(t *testing.T) {
	h := NewDashboardHandler(&stubDashboardService{})

	rec := httptest.NewRecorder()
	h.GetDimensions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dimensions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var dims domain.Dimensions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dims))
	assert.Equal(t, []int{2020, 2021}, dims.Years)
}

func TestBuildReport_PassesSelectionThrough(t *testing.T) {
	stub := &stubDashboardService{report: &domain.DashboardReport{}}
	h := NewDashboardHandler(stub)

	body := `{"years":[2020],"countries":[]}`
	rec := httptest.NewRecorder()
	h.BuildReport(rec, httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/report", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	// nil против пустого массива: years задан, countries осознанно пуст,
	// остальные измерения не присланы
	require.NotNil(t, stub.lastReq.Years)
	assert.Equal(t, []int{2020}, *stub.lastReq.Years)
	require.NotNil(t, stub.lastReq.Countries)
	assert.Empty(t, *stub.lastReq.Countries)
	assert.Nil(t, stub.lastReq.AttackTypes)
}

func TestBuildReport_BadJSON(t *testing.T) {
	h := NewDashboardHandler(&stubDashboardService{})

	rec := httptest.NewRecorder()
	h.BuildReport(rec, httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/report", strings.NewReader("{broken")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListIncidents_Response(t *testing.T) {
	h := NewDashboardHandler(&stubDashboardService{})

	rec := httptest.NewRecorder()
	h.ListIncidents(rec, httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/incidents", strings.NewReader(`{"limit":10}`)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp incidentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "UK", resp.Items[0].Country)
}

func TestTracingMiddleware_GeneratesAndEchoesTraceID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = extractTraceID(r.Context())
	})

	rec := httptest.NewRecorder()
	TracingMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Trace-ID"))

	// Пришедший от прокси ID сохраняется
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace-ID", "upstream-id")
	rec = httptest.NewRecorder()
	TracingMiddleware(next).ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", seen)
}
