package service

import (
	"context"
	"fmt"

	"github.com/TharHtet236401/cyber-security/internal/audit"
)

// AuditLogProvider описывает контракт для чтения журнала запросов.
// Используем структуру QueryEvent из пакета audit — единая модель данных.
type AuditLogProvider interface {
	FetchLogs(ctx context.Context, userID, traceID string) ([]audit.QueryEvent, error)
}

type AuditService struct {
	repo AuditLogProvider
}

func NewAuditService(repo AuditLogProvider) *AuditService {
	return &AuditService{
		repo: repo,
	}
}

// FetchLogs запрашивает журнал с фильтрацией.
// Семантика пустых фильтров инкапсулирована в репозитории.
func (s *AuditService) FetchLogs(ctx context.Context, userID, traceID string) ([]audit.QueryEvent, error) {
	logs, err := s.repo.FetchLogs(ctx, userID, traceID)
	if err != nil {
		return nil, fmt.Errorf("audit_service: failed to fetch logs: %w", err)
	}
	return logs, nil
}
