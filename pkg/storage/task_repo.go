package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harrisonrobin/taskplan/pkg/model"
)

const initializedKey = "initialized"

type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// Initialized reports whether SaveAll has ever run against this database.
func (r *TaskRepo) Initialized(ctx context.Context) (bool, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, initializedKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("meta get: %w", err)
	}
	return v == "1", nil
}

// LoadAll returns every row in store order.
func (r *TaskRepo) LoadAll(ctx context.Context) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT task, subtask, start_date, end_date, assignee, status, progress,
			priority, time_spent, comments, dependencies, budget, cost
		FROM tasks
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var out []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	return out, nil
}

// SaveAll replaces the stored table with tasks in one transaction.
func (r *TaskRepo) SaveAll(ctx context.Context, tasks []model.Task) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return fmt.Errorf("task clear: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO tasks (
				position, task, subtask, start_date, end_date, assignee, status,
				progress, priority, time_spent, comments, dependencies, budget, cost
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("task insert: %w", err)
		}
		defer stmt.Close()

		for i, t := range tasks {
			deps, err := marshalDeps(t.Dependencies)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx,
				i, t.Name, t.Subtask, t.Start.ISO(), t.End.ISO(), t.Assignee, string(t.Status),
				t.Progress, string(t.Priority), t.TimeSpent, t.Comments, deps, t.Budget, t.Cost,
			); err != nil {
				return fmt.Errorf("task insert row %d: %w", i, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES (?, '1') ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			initializedKey,
		); err != nil {
			return fmt.Errorf("meta set: %w", err)
		}
		return nil
	})
}

func marshalDeps(deps []string) (*string, error) {
	if len(deps) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(deps)
	if err != nil {
		return nil, fmt.Errorf("marshal dependencies: %w", err)
	}
	s := string(data)
	return &s, nil
}

func scanTask(rows *sql.Rows) (model.Task, error) {
	var (
		t                model.Task
		start, end       string
		status, priority string
		deps             sql.NullString
	)
	if err := rows.Scan(
		&t.Name, &t.Subtask, &start, &end, &t.Assignee, &status, &t.Progress,
		&priority, &t.TimeSpent, &t.Comments, &deps, &t.Budget, &t.Cost,
	); err != nil {
		return model.Task{}, fmt.Errorf("task scan: %w", err)
	}

	var err error
	if t.Start, err = model.ParseAnyDate(start); err != nil {
		return model.Task{}, fmt.Errorf("task %q start: %w", t.Name, err)
	}
	if t.End, err = model.ParseAnyDate(end); err != nil {
		return model.Task{}, fmt.Errorf("task %q end: %w", t.Name, err)
	}
	t.Status = model.Status(status)
	t.Priority = model.Priority(priority)
	if deps.Valid && deps.String != "" {
		if err := json.Unmarshal([]byte(deps.String), &t.Dependencies); err != nil {
			return model.Task{}, fmt.Errorf("unmarshal dependencies: %w", err)
		}
	}
	return t, nil
}
