package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/seed"
)

func openRepo(t *testing.T) *TaskRepo {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "taskplan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return NewTaskRepo(db)
}

func TestSaveAllThenLoadAll(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)

	ok, err := repo.Initialized(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	rows := seed.Project()
	require.NoError(t, repo.SaveAll(ctx, rows))

	got, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	ok, err = repo.Initialized(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSaveAllReplacesPreviousRows(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)

	require.NoError(t, repo.SaveAll(ctx, seed.Project()))
	one := model.Task{
		Name:     "Release",
		Assignee: model.DefaultAssignee,
		Status:   model.StatusNotStarted,
		Priority: model.PriorityHigh,
		End:      model.NewDate(2024, 9, 1),
	}
	require.NoError(t, repo.SaveAll(ctx, []model.Task{one}))

	got, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, one, got[0])
	assert.True(t, got[0].Start.IsZero())
}

func TestEmptyTableStaysInitialized(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)

	require.NoError(t, repo.SaveAll(ctx, nil))
	got, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	ok, err := repo.Initialized(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}
