package auditlogRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"chronoboard/models"

	"github.com/google/uuid"
)

// MemoryAuditLogRepo keeps audit entries in process memory.
type MemoryAuditLogRepo struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func NewMemoryAuditLogRepo() *MemoryAuditLogRepo {
	return &MemoryAuditLogRepo{}
}

func (r *MemoryAuditLogRepo) Create(_ context.Context, entry models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *MemoryAuditLogRepo) ListBySchool(_ context.Context, schoolID string, limit int) ([]models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.AuditLog{}
	for _, e := range r.entries {
		if e.SchoolID == schoolID {
			out = append(out, e)
		}
	}
	// insertion order breaks timestamp ties, newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryAuditLogRepo) DeleteBySchool(_ context.Context, schoolID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	var removed int64
	for _, e := range r.entries {
		if e.SchoolID == schoolID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}
