package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/harrisonrobin/taskplan/pkg/seed"
	"github.com/harrisonrobin/taskplan/pkg/storage"
	"github.com/harrisonrobin/taskplan/pkg/store"
)

// workspace is the persisted store opened for one command.
type workspace struct {
	db    *sql.DB
	repo  *storage.TaskRepo
	store *store.Store
}

// openWorkspace loads the stored table. A database that was never written
// starts from the demo project.
func (a *app) openWorkspace(ctx context.Context) (*workspace, error) {
	db, err := storage.OpenSQLite(a.cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo := storage.NewTaskRepo(db)

	ok, err := repo.Initialized(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if !ok {
		a.logger.Info("no saved table, starting from the demo project", "database", a.cfg.Database)
		return &workspace{db: db, repo: repo, store: store.New(seed.Project()...)}, nil
	}

	rows, err := repo.LoadAll(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &workspace{db: db, repo: repo, store: store.New(rows...)}, nil
}

func (w *workspace) save(ctx context.Context) error {
	return w.repo.SaveAll(ctx, w.store.Snapshot())
}

func (w *workspace) close() {
	_ = w.db.Close()
}

// rowIndex turns a 1-based row argument into a store index.
func rowIndex(arg string, n int) (int, error) {
	row, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("row must be a number, got %q", arg)
	}
	if row < 1 || row > n {
		return 0, fmt.Errorf("row %d does not exist (table has %d rows)", row, n)
	}
	return row - 1, nil
}
