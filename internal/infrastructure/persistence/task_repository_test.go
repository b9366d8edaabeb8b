package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTaskRepository_ListByRole(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormTaskRepository(gormDB, nil)

	roleID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "title", "role_id", "assignee_id", "phase_id", "status", "sentinel", "version", "created_at", "updated_at"}).
		AddRow(uuid.New(), "Sanitize prep line", roleID, uuid.New(), uuid.New(), "active", false, 1, now, now).
		AddRow(uuid.New(), "Stock walk-in", roleID, uuid.New(), uuid.New(), "paused", false, 1, now, now)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE role_id = \$1 AND status <> \$2 ORDER BY title ASC`).
		WithArgs(roleID, "archived").
		WillReturnRows(rows)

	tasks, err := repo.ListByRole(context.Background(), roleID)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Sanitize prep line", tasks[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_CountByRole(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormTaskRepository(gormDB, nil)

	roleID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE role_id = \$1 AND status <> \$2`).
		WithArgs(roleID, "archived").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByRole(context.Background(), roleID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRoleRepository_FindSentinel(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormRoleRepository(gormDB, nil)

	sentinelID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "name", "slug", "description", "status", "sentinel", "version", "created_at", "updated_at"}).
		AddRow(sentinelID, "To Be Assigned", "tba-role", "", "archived", true, 1, now, now)

	mock.ExpectQuery(`SELECT \* FROM "roles" WHERE sentinel = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(true, 1).
		WillReturnRows(rows)

	role, err := repo.FindSentinel(context.Background())

	require.NoError(t, err)
	assert.Equal(t, sentinelID, role.ID)
	assert.True(t, role.Sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}
