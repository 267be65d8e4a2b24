package audit

import "time"

// QueryEvent — один аналитический запрос: кто, с какой выборкой,
// сколько строк прошло фильтр и как быстро ответили.
type QueryEvent struct {
	ID      string `json:"id"`       // UUID события
	TraceID string `json:"trace_id"` // Сквозной ID запроса
	UserID  string `json:"user_id"`  // Кто спрашивал

	Endpoint        string `json:"endpoint"`         // report / incidents / map
	SelectionDigest string `json:"selection_digest"` // Детерминированный ключ выборки
	RowsMatched     int    `json:"rows_matched"`     // Размер отфильтрованной выборки
	CacheHit        bool   `json:"cache_hit"`        // Ответ из Redis-кэша

	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms"`
}
