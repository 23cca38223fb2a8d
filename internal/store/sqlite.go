package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/five82/pulsar/internal/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS entities (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	created_ns    INTEGER NOT NULL,
	level         INTEGER NOT NULL,
	label         TEXT NOT NULL DEFAULT '',
	text          TEXT NOT NULL DEFAULT '',
	pinned        INTEGER NOT NULL DEFAULT 0,
	revision      INTEGER NOT NULL DEFAULT 1,
	is_task       INTEGER NOT NULL DEFAULT 0,
	method        TEXT NOT NULL DEFAULT '',
	url           TEXT NOT NULL DEFAULT '',
	state         INTEGER NOT NULL DEFAULT 0,
	status_code   INTEGER NOT NULL DEFAULT 0,
	error_code    INTEGER NOT NULL DEFAULT 0,
	duration_ns   INTEGER NOT NULL DEFAULT 0,
	response_body BLOB
);

CREATE INDEX IF NOT EXISTS idx_entities_created ON entities(created_ns, id);
CREATE INDEX IF NOT EXISTS idx_entities_pinned ON entities(pinned);
`

const entityColumns = `id, created_ns, level, label, text, pinned, revision, is_task,
	method, url, state, status_code, error_code, duration_ns, response_body`

// SQLiteConfig configures a SQLite-backed store.
type SQLiteConfig struct {
	Path string
	// WAL enables write-ahead logging.
	WAL bool
}

// SQLite persists entities in a SQLite database.
type SQLite struct {
	db      *sql.DB
	path    string
	mu      sync.Mutex
	closed  bool
	changes *notifier
}

// OpenSQLite opens (creating if needed) the database at cfg.Path.
func OpenSQLite(cfg SQLiteConfig) (*SQLite, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := cfg.Path + "?_busy_timeout=5000"
	if cfg.WAL {
		dsn += "&_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLite{db: db, path: cfg.Path, changes: newNotifier()}, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Fetch implements Store. Pin and level constraints run in SQL; the filter
// expression is evaluated per row.
func (s *SQLite) Fetch(ctx context.Context, q Query) ([]entity.Entity, error) {
	sel, err := q.compile()
	if err != nil {
		return nil, err
	}
	if s.isClosed() {
		return nil, ErrClosed
	}

	query := "SELECT " + entityColumns + " FROM entities WHERE level >= ?"
	args := []any{int(q.MinLevel)}
	if q.OnlyPinned {
		query += " AND pinned = 1"
	}
	if q.Order == OrderNewest {
		query += " ORDER BY created_ns DESC, id DESC"
	} else {
		query += " ORDER BY created_ns ASC, id ASC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var out []entity.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		if sel.match(e) {
			out = append(out, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}
	return out, nil
}

func scanEntity(rows *sql.Rows) (entity.Entity, error) {
	var (
		e                     entity.Entity
		createdNS, durationNS int64
		level, state          int
		pinned, isTask        bool
		method, url           string
		statusCode, errorCode int
		body                  []byte
	)
	err := rows.Scan(&e.ID, &createdNS, &level, &e.Label, &e.Text, &pinned, &e.Revision, &isTask,
		&method, &url, &state, &statusCode, &errorCode, &durationNS, &body)
	if err != nil {
		return entity.Entity{}, fmt.Errorf("scan entity: %w", err)
	}
	e.CreatedAt = time.Unix(0, createdNS).UTC()
	e.Level = entity.Level(level)
	e.Pinned = pinned
	if isTask {
		e.Task = &entity.Task{
			Method:       method,
			URL:          url,
			State:        entity.TaskState(state),
			StatusCode:   statusCode,
			ErrorCode:    errorCode,
			Duration:     time.Duration(durationNS),
			ResponseBody: body,
		}
	}
	return e, nil
}

// Changes implements Store. Only writes made through this handle signal.
func (s *SQLite) Changes() <-chan struct{} {
	return s.changes.ch
}

// Close implements Store.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.changes.close()
	return s.db.Close()
}

func (s *SQLite) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Insert implements Writer.
func (s *SQLite) Insert(ctx context.Context, e entity.Entity) (entity.Entity, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()
	e.Revision = 1
	args := append([]any{e.CreatedAt.UnixNano(), int(e.Level), e.Label, e.Text, e.Pinned}, taskArgs(e.Task)...)

	err := s.write(ctx, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `INSERT INTO entities
			(created_ns, level, label, text, pinned, revision, is_task,
			 method, url, state, status_code, error_code, duration_ns, response_body)
			VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return fmt.Errorf("insert entity: %w", err)
		}
		e.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return entity.Entity{}, err
	}
	return cloneEntity(e), nil
}

// Update implements Writer. ID and CreatedAt of the stored entity are kept.
func (s *SQLite) Update(ctx context.Context, e entity.Entity) error {
	args := append([]any{int(e.Level), e.Label, e.Text, e.Pinned}, taskArgs(e.Task)...)
	args = append(args, e.ID)
	return s.write(ctx, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `UPDATE entities SET
			level = ?, label = ?, text = ?, pinned = ?, revision = revision + 1, is_task = ?,
			method = ?, url = ?, state = ?, status_code = ?, error_code = ?, duration_ns = ?,
			response_body = ?
			WHERE id = ?`, args...)
		if err != nil {
			return fmt.Errorf("update entity %d: %w", e.ID, err)
		}
		return requireRow(res, e.ID)
	})
}

// SetPinned implements Writer.
func (s *SQLite) SetPinned(ctx context.Context, id int64, pinned bool) error {
	return s.write(ctx, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx,
			`UPDATE entities SET pinned = ?, revision = revision + 1 WHERE id = ?`, pinned, id)
		if err != nil {
			return fmt.Errorf("pin entity %d: %w", id, err)
		}
		return requireRow(res, id)
	})
}

// RemoveAll implements Writer.
func (s *SQLite) RemoveAll(ctx context.Context) error {
	return s.write(ctx, func(ctx context.Context) error {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM entities`); err != nil {
			return fmt.Errorf("remove entities: %w", err)
		}
		return nil
	})
}

// taskArgs returns the is_task flag and task columns in schema order.
func taskArgs(t *entity.Task) []any {
	if t == nil {
		return []any{false, "", "", 0, 0, 0, int64(0), []byte(nil)}
	}
	return []any{true, t.Method, t.URL, int(t.State), t.StatusCode, t.ErrorCode, int64(t.Duration), t.ResponseBody}
}

// write runs fn and signals a change when it succeeds.
func (s *SQLite) write(ctx context.Context, fn func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := fn(ctx); err != nil {
		return err
	}
	s.changes.notify()
	return nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("entity %d: %w", id, ErrNotFound)
	}
	return nil
}
