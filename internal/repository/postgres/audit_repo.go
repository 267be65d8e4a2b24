package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/TharHtet236401/cyber-security/internal/audit"

	_ "github.com/jackc/pgx/v5/stdlib" // Драйвер Postgres
)

type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(connString string) *AuditRepo {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		// В main проверим соединение через Ping
		log.Fatal(err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &AuditRepo{db: db}
}

// Ping проверяет доступность базы при старте
func (r *AuditRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// WriteBatch — пакетная вставка событий одним запросом
func (r *AuditRepo) WriteBatch(ctx context.Context, events []audit.QueryEvent) error {
	if len(events) == 0 {
		return nil
	}

	// Количество колонок в таблице query_audit
	numFields := 9
	placeholderStr := ""
	vals := make([]interface{}, 0, len(events)*numFields)

	for i, e := range events {
		p := i * numFields
		placeholderStr += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d),",
			p+1, p+2, p+3, p+4, p+5, p+6, p+7, p+8, p+9)

		vals = append(vals,
			e.ID, e.TraceID, e.UserID, e.Endpoint,
			e.SelectionDigest, e.RowsMatched, e.CacheHit, e.DurationMs, e.Timestamp,
		)
	}

	query := fmt.Sprintf(
		"INSERT INTO query_audit (id, trace_id, user_id, endpoint, selection_digest, rows_matched, cache_hit, duration_ms, timestamp) VALUES %s",
		strings.TrimSuffix(placeholderStr, ","),
	)

	_, err := r.db.ExecContext(ctx, query, vals...)
	return err
}

// FetchLogs возвращает события аудита, опционально сужая по пользователю
// и/или trace-ID. Пустая строка фильтра — без ограничения.
func (r *AuditRepo) FetchLogs(ctx context.Context, userID, traceID string) ([]audit.QueryEvent, error) {
	query := `
		SELECT id, trace_id, user_id, endpoint, selection_digest, rows_matched, cache_hit, duration_ms, timestamp
		FROM query_audit
		WHERE ($1 = '' OR user_id = $1)
		  AND ($2 = '' OR trace_id = $2)
		ORDER BY timestamp DESC
		LIMIT 500`

	rows, err := r.db.QueryContext(ctx, query, userID, traceID)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch audit logs: %w", err)
	}
	defer rows.Close()

	var events []audit.QueryEvent
	for rows.Next() {
		var e audit.QueryEvent
		if err := rows.Scan(
			&e.ID, &e.TraceID, &e.UserID, &e.Endpoint,
			&e.SelectionDigest, &e.RowsMatched, &e.CacheHit, &e.DurationMs, &e.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan audit log: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
