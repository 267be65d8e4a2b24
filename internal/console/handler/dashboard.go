package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/TharHtet236401/cyber-security/internal/console/service"
	"github.com/TharHtet236401/cyber-security/internal/domain"
	"github.com/TharHtet236401/cyber-security/internal/infra/auth"
)

// DashboardProvider Описываем, что нам нужно от сервиса
type DashboardProvider interface {
	Dimensions() domain.Dimensions
	BuildReport(ctx context.Context, req domain.SelectionRequest, meta service.QueryMeta) (*domain.DashboardReport, error)
	ListIncidents(ctx context.Context, req domain.SelectionRequest, limit, offset int, meta service.QueryMeta) ([]domain.Incident, int)
	BuildMap(ctx context.Context, req domain.SelectionRequest, meta service.QueryMeta) ([]domain.CountryMapEntry, error)
}

type DashboardHandler struct {
	service DashboardProvider
}

func NewDashboardHandler(s DashboardProvider) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDimensions отдает вселенные значений пяти измерений — из них UI
// собирает мультиселекты фильтров.
// GET /api/v1/dimensions
func (h *DashboardHandler) GetDimensions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.service.Dimensions())
}

// BuildReport считает KPI и чарты по присланной выборке.
// POST /api/v1/dashboard/report
func (h *DashboardHandler) BuildReport(w http.ResponseWriter, r *http.Request) {
	var req domain.SelectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	report, err := h.service.BuildReport(r.Context(), req, metaFromRequest(r))
	if err != nil {
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, report)
}

type incidentsRequest struct {
	domain.SelectionRequest
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type incidentsResponse struct {
	Total int               `json:"total"`
	Items []domain.Incident `json:"items"`
}

// ListIncidents — таблица Data Explorer: отфильтрованные строки с пагинацией.
// POST /api/v1/dashboard/incidents
func (h *DashboardHandler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	req := incidentsRequest{Limit: 200}
	if !decodeBody(w, r, &req) {
		return
	}

	items, total := h.service.ListIncidents(r.Context(), req.SelectionRequest, req.Limit, req.Offset, metaFromRequest(r))
	writeJSON(w, incidentsResponse{Total: total, Items: items})
}

// BuildMap — choropleth-слой по странам.
// POST /api/v1/dashboard/map
func (h *DashboardHandler) BuildMap(w http.ResponseWriter, r *http.Request) {
	var req domain.SelectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entries, err := h.service.BuildMap(r.Context(), req, metaFromRequest(r))
	if err != nil {
		http.Error(w, "Failed to build map layer", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

func metaFromRequest(r *http.Request) service.QueryMeta {
	return service.QueryMeta{
		TraceID: extractTraceID(r.Context()),
		UserID:  auth.UserIDFromContext(r.Context()),
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
