// Package sqlite stores the task list in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"todo/internal/backend"
	"todo/internal/task"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
    position  INTEGER PRIMARY KEY,
    id        TEXT NOT NULL,
    name      TEXT NOT NULL,
    completed INTEGER NOT NULL DEFAULT 0,
    priority  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Backend keeps one row per task, ordered by position.
type Backend struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// Open opens (or creates) the database at path and ensures the tables exist.
func Open(path string, log logrus.FieldLogger) (*Backend, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Backend{
		db:  db,
		log: log.WithFields(logrus.Fields{"backend": "sqlite", "path": path}),
	}, nil
}

// Load returns all rows by position. A database that was never saved to
// reports backend.ErrNotExist.
func (b *Backend) Load(ctx context.Context) ([]task.Task, error) {
	var saved string
	err := b.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'saved'`).Scan(&saved)
	if err == sql.ErrNoRows {
		return nil, backend.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("read meta: %w", err)
	}

	rows, err := b.db.QueryContext(ctx, `
        SELECT id, name, completed, priority
        FROM tasks
        ORDER BY position
    `)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var t task.Task
		var priority string
		if err := rows.Scan(&t.ID, &t.Name, &t.Completed, &priority); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Priority = task.Priority(priority)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	b.log.WithField("count", len(tasks)).Debug("loaded tasks")
	return tasks, nil
}

// Save replaces every row inside one transaction.
func (b *Backend) Save(ctx context.Context, tasks []task.Task) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO tasks (position, id, name, completed, priority)
        VALUES (?, ?, ?, ?, ?)
    `)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		if _, err := stmt.ExecContext(ctx, i, t.ID, t.Name, t.Completed, string(t.Priority)); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES ('saved', ?)`,
		fmt.Sprint(backend.DocumentVersion)); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	b.log.WithField("count", len(tasks)).Debug("saved tasks")
	return nil
}

// Close closes the database handle.
func (b *Backend) Close() error {
	return b.db.Close()
}
