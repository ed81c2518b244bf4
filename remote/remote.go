// Package remote is the shared store for session rows, presence and the
// per-user privacy flag, backed by SQLite.
package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ayoisaiah/studyfocus/internal/models"
	"github.com/ayoisaiah/studyfocus/internal/osutil"
	"github.com/ayoisaiah/studyfocus/internal/timeutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS study_sessions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    TEXT    NOT NULL,
	mode       TEXT    NOT NULL,
	duration   INTEGER NOT NULL CHECK (duration > 0 AND duration < 86400),
	task       TEXT,
	task_id    TEXT,
	created_at TEXT    NOT NULL,
	group_id   TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_study_sessions_user_created
	ON study_sessions (user_id, created_at);

CREATE TABLE IF NOT EXISTS presence (
	user_id              TEXT PRIMARY KEY,
	status               TEXT NOT NULL,
	current_task         TEXT,
	last_active_at       TEXT NOT NULL,
	study_start_time     TEXT,
	total_stopwatch_time INTEGER
);

CREATE TABLE IF NOT EXISTS profiles (
	user_id        TEXT PRIMARY KEY,
	show_task      INTEGER NOT NULL DEFAULT 1
);
`

var (
	errInvalidDuration = errors.New("session duration must be between 1 and 86399 seconds")
	errNoRows          = errors.New("no session rows to insert")
)

// ErrNotFound is returned when a user has no presence row.
var ErrNotFound = errors.New("not found")

// Client is a SQLite database client.
type Client struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Client, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), osutil.DirPermission); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 8000",
		"PRAGMA synchronous = NORMAL",
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Client{db: db}, nil
}

// Close releases the database.
func (c *Client) Close() error {
	return c.db.Close()
}

// InsertSessions writes rows in a single transaction: either every row is
// stored or none is.
func (c *Client) InsertSessions(
	ctx context.Context,
	userID string,
	rows []models.SessionRecord,
) error {
	if len(rows) == 0 {
		return errNoRows
	}

	for _, r := range rows {
		if r.Duration <= 0 || r.Duration >= timeutil.SecondsInADay {
			return errInvalidDuration
		}
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO study_sessions (
			user_id, mode, duration, task, task_id, created_at, group_id
		) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}

	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.ExecContext(
			ctx,
			userID,
			string(r.Mode),
			r.Duration,
			nullString(r.TaskLabel),
			nullString(r.TaskID),
			formatTime(r.CreatedAt),
			r.GroupID,
		)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sessions: %w", err)
	}

	return nil
}

// ListSessions returns the rows created within [start, end), oldest first.
func (c *Client) ListSessions(
	ctx context.Context,
	userID string,
	start, end time.Time,
) ([]models.SessionRecord, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT mode, duration, task, task_id, created_at, group_id
		FROM study_sessions
		WHERE user_id = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at ASC, id ASC`,
		userID,
		formatTime(start),
		formatTime(end),
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	defer rows.Close()

	var out []models.SessionRecord

	for rows.Next() {
		var (
			r         models.SessionRecord
			mode      string
			task      sql.NullString
			taskID    sql.NullString
			createdAt string
		)

		err := rows.Scan(&mode, &r.Duration, &task, &taskID, &createdAt, &r.GroupID)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}

		r.Mode = models.Mode(mode)
		r.TaskLabel = stringPtr(task)
		r.TaskID = stringPtr(taskID)

		r.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse session created_at: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return out, nil
}

// UpdateStatus upserts the presence row for userID.
func (c *Client) UpdateStatus(
	ctx context.Context,
	userID string,
	u models.StatusUpdate,
) error {
	var start any
	if u.StudyStartTime != nil {
		start = formatTime(*u.StudyStartTime)
	}

	var total any
	if u.TotalStopwatchTime != nil {
		total = *u.TotalStopwatchTime
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO presence (
			user_id, status, current_task, last_active_at, study_start_time,
			total_stopwatch_time
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			status = excluded.status,
			current_task = excluded.current_task,
			last_active_at = excluded.last_active_at,
			study_start_time = excluded.study_start_time,
			total_stopwatch_time = COALESCE(
				excluded.total_stopwatch_time,
				presence.total_stopwatch_time
			)`,
		userID,
		string(u.Status),
		nullString(u.CurrentTask),
		formatTime(u.LastActiveAt),
		start,
		total,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	return nil
}

// Presence returns the last status published for userID.
func (c *Client) Presence(
	ctx context.Context,
	userID string,
) (*models.StatusUpdate, error) {
	var (
		u            models.StatusUpdate
		status       string
		task         sql.NullString
		lastActiveAt string
		start        sql.NullString
		total        sql.NullInt64
	)

	err := c.db.QueryRowContext(ctx, `
		SELECT status, current_task, last_active_at, study_start_time,
		       total_stopwatch_time
		FROM presence WHERE user_id = ?`,
		userID,
	).Scan(&status, &task, &lastActiveAt, &start, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get presence: %w", err)
	}

	u.Status = models.Status(status)
	u.CurrentTask = stringPtr(task)

	u.LastActiveAt, err = parseTime(lastActiveAt)
	if err != nil {
		return nil, fmt.Errorf("parse last_active_at: %w", err)
	}

	if start.Valid {
		t, err := parseTime(start.String)
		if err != nil {
			return nil, fmt.Errorf("parse study_start_time: %w", err)
		}

		u.StudyStartTime = &t
	}

	if total.Valid {
		v := int(total.Int64)
		u.TotalStopwatchTime = &v
	}

	return &u, nil
}

// TaskVisibility reports whether userID shares the current task label with
// others. Users without a profile share it.
func (c *Client) TaskVisibility(ctx context.Context, userID string) (bool, error) {
	var show bool

	err := c.db.QueryRowContext(ctx,
		`SELECT show_task FROM profiles WHERE user_id = ?`,
		userID,
	).Scan(&show)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}

	if err != nil {
		return false, fmt.Errorf("get task visibility: %w", err)
	}

	return show, nil
}

// SetTaskVisibility stores the privacy flag for userID.
func (c *Client) SetTaskVisibility(
	ctx context.Context,
	userID string,
	show bool,
) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, show_task) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET show_task = excluded.show_task`,
		userID,
		show,
	)
	if err != nil {
		return fmt.Errorf("set task visibility: %w", err)
	}

	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, err
	}

	return t.Local(), nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}

	return *s
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}

	v := s.String

	return &v
}
