package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nissyi-gh/tally/internal/model"
	_ "modernc.org/sqlite"
)

// SQLiteStore manages SQLite persistence for tasks.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and ensures the schema exists.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS tasks (
		position    INTEGER PRIMARY KEY,
		kind        TEXT    NOT NULL,
		completed   INTEGER NOT NULL DEFAULT 0,
		description TEXT    NOT NULL,
		due_at      TEXT,
		event_on    TEXT,
		time_from   TEXT,
		time_to     TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath, logger: logger}, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string { return s.path }

func scanTask(scanner interface{ Scan(...any) error }) (int, model.Task, error) {
	var (
		pos              int
		kind, desc       string
		comp             int
		dueAt, eventOn   sql.NullString
		timeFrom, timeTo sql.NullString
		task             model.Task
		err              error
	)
	if err := scanner.Scan(&pos, &kind, &comp, &desc, &dueAt, &eventOn, &timeFrom, &timeTo); err != nil {
		return 0, model.Task{}, model.IOError("scan task row", err)
	}
	switch kind {
	case model.KindTodo.Tag():
		task, err = model.NewTodo(desc)
	case model.KindDeadline.Tag():
		task, err = model.NewDeadline(desc, dueAt.String)
	case model.KindEvent.Tag():
		task, err = model.NewEvent(desc, eventOn.String, timeFrom.String, timeTo.String)
	default:
		err = fmt.Errorf("unknown task type %q", kind)
	}
	if err != nil {
		return pos, model.Task{}, &model.Error{Kind: model.ErrFormat, Msg: fmt.Sprintf("bad row %d", pos), Err: err}
	}
	task.Done = comp != 0
	return pos, task, nil
}

// Load returns all tasks ordered by position. Rows that no longer form a
// valid task are logged and skipped. A row the driver cannot scan aborts the
// load with the tasks read so far.
func (s *SQLiteStore) Load() ([]model.Task, error) {
	rows, err := s.db.Query("SELECT position, kind, completed, description, due_at, event_on, time_from, time_to FROM tasks ORDER BY position ASC")
	if err != nil {
		return nil, model.IOError("query tasks", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		pos, t, err := scanTask(rows)
		if err != nil && !errors.Is(err, model.ErrFormat) {
			return tasks, err
		}
		if err != nil {
			s.logger.Warn("Skipped corrupted row",
				slog.String("path", s.path),
				slog.Int("position", pos),
				slog.String("error", err.Error()))
			continue
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return tasks, model.IOError("scan tasks", err)
	}
	return tasks, nil
}

// Save replaces every row inside one transaction.
func (s *SQLiteStore) Save(tasks []model.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return model.IOError("begin save", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tasks"); err != nil {
		return model.IOError("clear tasks", err)
	}

	stmt, err := tx.Prepare("INSERT INTO tasks (position, kind, completed, description, due_at, event_on, time_from, time_to) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return model.IOError("prepare insert", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		var dueAt, eventOn, timeFrom, timeTo sql.NullString
		switch t.Kind {
		case model.KindDeadline:
			dueAt = sql.NullString{String: t.Due.Format(model.DueLayout), Valid: true}
		case model.KindEvent:
			eventOn = sql.NullString{String: t.Date.Format(model.DateLayout), Valid: true}
			timeFrom = sql.NullString{String: t.From.Format(model.TimeLayout), Valid: true}
			timeTo = sql.NullString{String: t.To.Format(model.TimeLayout), Valid: true}
		}
		comp := 0
		if t.Done {
			comp = 1
		}
		if _, err := stmt.Exec(i+1, t.Kind.Tag(), comp, t.Description, dueAt, eventOn, timeFrom, timeTo); err != nil {
			return model.IOError(fmt.Sprintf("insert task %d", i+1), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.IOError("commit save", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
