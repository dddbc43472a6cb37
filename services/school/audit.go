package school

import (
	"context"
	"time"

	"chronoboard/models"
	"chronoboard/utils"

	"go.uber.org/zap"
)

const maxAuditLimit = 500

// RecordAudit stores an audit entry. Failures are logged, never returned.
func (s *DefaultSchoolService) RecordAudit(ctx context.Context, schoolID, action, actor, details string) {
	entry := models.AuditLog{
		SchoolID:  schoolID,
		Timestamp: time.Now().UTC(),
		Action:    action,
		Actor:     actor,
		Details:   details,
	}
	if err := s.AuditRepo.Create(ctx, entry); err != nil {
		utils.GetLogger().Warn("Failed to record audit log",
			zap.String("schoolId", schoolID), zap.String("action", action), zap.Error(err))
	}
}

// ListAuditLogs returns the newest entries first; limit is clamped to [1, 500].
func (s *DefaultSchoolService) ListAuditLogs(ctx context.Context, schoolID string, limit int) ([]models.AuditLog, error) {
	if _, err := s.Repo.GetByID(ctx, schoolID); err != nil {
		return nil, mapRepoErr(err)
	}
	if limit <= 0 || limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	return s.AuditRepo.ListBySchool(ctx, schoolID, limit)
}

func (s *DefaultSchoolService) ClearAuditLogs(ctx context.Context, schoolID string) (int64, error) {
	if _, err := s.Repo.GetByID(ctx, schoolID); err != nil {
		return 0, mapRepoErr(err)
	}
	return s.AuditRepo.DeleteBySchool(ctx, schoolID)
}
