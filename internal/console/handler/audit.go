package handler

import (
	"net/http"

	"github.com/TharHtet236401/cyber-security/internal/console/service"
)

type AuditHandler struct {
	service *service.AuditService
}

func NewAuditHandler(s *service.AuditService) *AuditHandler {
	return &AuditHandler{service: s}
}

// GetLogs возвращает журнал аналитических запросов с поддержкой фильтрации
// GET /v1/audit?user_id=...&trace_id=...
func (h *AuditHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	// Извлекаем фильтры из Query-параметров
	userID := r.URL.Query().Get("user_id")
	traceID := r.URL.Query().Get("trace_id")

	logs, err := h.service.FetchLogs(r.Context(), userID, traceID)
	if err != nil {
		http.Error(w, "Failed to fetch audit logs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, logs)
}
