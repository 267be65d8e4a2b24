package audit

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStorage struct {
	mu     sync.Mutex
	events []QueryEvent
}

func (m *memStorage) WriteBatch(_ context.Context, events []QueryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *memStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func TestTrail_FlushesEverythingOnStop(t *testing.T) {
	storage := &memStorage{}
	trail := NewTrail(storage, 100, zap.NewNop())
	trail.Start()

	for i := 0; i < 42; i++ {
		trail.Record(QueryEvent{ID: "e", Endpoint: "report"})
	}
	trail.Stop() // drain: после Stop буфер должен быть полностью дописан

	assert.Equal(t, 42, storage.count())
}

func TestTrail_RecordAfterStopIsDropped(t *testing.T) {
	storage := &memStorage{}
	trail := NewTrail(storage, 10, zap.NewNop())
	trail.Start()
	trail.Stop()

	// Не должно паниковать записью в закрытый канал
	trail.Record(QueryEvent{ID: "late"})
	assert.Equal(t, 0, storage.count())
}

func TestTrail_TimestampDefaulted(t *testing.T) {
	storage := &memStorage{}
	trail := NewTrail(storage, 10, zap.NewNop())
	trail.Start()

	trail.Record(QueryEvent{ID: "x"})
	trail.Stop()

	require.Equal(t, 1, storage.count())
	assert.False(t, storage.events[0].Timestamp.IsZero())
}
