package memory

import (
	"context"
	"sync"

	"vetclinic-api/internal/domain/accesslogs"
)

type AccessLogRepository struct {
	mu      sync.Mutex
	entries []accesslogs.Entry
}

func NewAccessLogRepository() *AccessLogRepository {
	return &AccessLogRepository{}
}

func (r *AccessLogRepository) Append(_ context.Context, e accesslogs.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

// Entries devuelve una copia; lo usan los tests.
func (r *AccessLogRepository) Entries() []accesslogs.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]accesslogs.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
