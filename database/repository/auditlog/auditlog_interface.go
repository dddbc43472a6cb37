package auditlogRepo

import (
	"context"

	"chronoboard/models"
)

// AuditLogRepository stores admin change records.
type AuditLogRepository interface {
	Create(ctx context.Context, entry models.AuditLog) error
	// ListBySchool returns up to limit entries, newest first. limit <= 0 means all.
	ListBySchool(ctx context.Context, schoolID string, limit int) ([]models.AuditLog, error)
	// DeleteBySchool removes every entry of a school and reports how many were removed.
	DeleteBySchool(ctx context.Context, schoolID string) (int64, error)
}
