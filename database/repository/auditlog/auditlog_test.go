package auditlogRepo

import (
	"context"
	"testing"
	"time"

	"chronoboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAuditLogRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAuditLogRepo()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, models.AuditLog{SchoolID: "a", Action: models.ActionScheduleUpdated, Timestamp: base}))
	require.NoError(t, repo.Create(ctx, models.AuditLog{SchoolID: "b", Action: models.ActionDesignUpdated, Timestamp: base}))
	require.NoError(t, repo.Create(ctx, models.AuditLog{SchoolID: "a", Action: models.ActionBellUpdated, Timestamp: base.Add(time.Minute)}))
	require.NoError(t, repo.Create(ctx, models.AuditLog{SchoolID: "a", Action: models.ActionDesignReset, Timestamp: base.Add(time.Minute)}))

	logs, err := repo.ListBySchool(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, models.ActionDesignReset, logs[0].Action)
	assert.Equal(t, models.ActionBellUpdated, logs[1].Action)
	assert.Equal(t, models.ActionScheduleUpdated, logs[2].Action)
	assert.NotEmpty(t, logs[0].ID)

	limited, err := repo.ListBySchool(ctx, "a", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	removed, err := repo.DeleteBySchool(ctx, "a")
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	logs, err = repo.ListBySchool(ctx, "a", 0)
	require.NoError(t, err)
	assert.Empty(t, logs)

	logs, err = repo.ListBySchool(ctx, "b", 0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
