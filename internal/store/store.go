// Package store handles SQLite persistence.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/podium/internal/metrics"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Fixed-width UTC timestamps so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var (
	// ErrTeamNotFound is returned when joining a team that does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrAlreadyMember is returned when a user joins a team twice.
	ErrAlreadyMember = errors.New("already a member of this team")
)

// SortOrder selects the created_at ordering of list queries.
type SortOrder int

const (
	NewestFirst SortOrder = iota
	OldestFirst
)

// Query filters session lists.
type Query struct {
	UserID string
	Since  *time.Time
	Order  SortOrder
	Limit  int
}

// Store wraps SQLite access for sessions, teams, and profiles.
type Store struct {
	db       *sql.DB
	recorder *metrics.Recorder
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder instruments store operations.
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Store) {
		s.recorder = r
	}
}

// WithClock overrides the time source used for default timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string, opts ...Option) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL DEFAULT '',
			full_name TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			goals TEXT NOT NULL DEFAULT '',
			preferences TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS practice_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			topic_id TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			transcript TEXT NOT NULL DEFAULT '',
			duration_seconds INTEGER,
			clarity_score REAL,
			pace_score REAL,
			volume_score REAL,
			tone_score REAL,
			engagement_score REAL,
			overall_score REAL,
			feedback TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS debate_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			topic_id TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL,
			opponent_notes TEXT NOT NULL DEFAULT '',
			duration_seconds INTEGER,
			user_score REAL,
			ai_score REAL,
			feedback TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS teams (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			leader_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS team_members (
			id TEXT PRIMARY KEY,
			team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('leader', 'member')),
			joined_at TEXT NOT NULL,
			UNIQUE (team_id, user_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_practice_user_created ON practice_sessions(user_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_debate_user_created ON debate_sessions(user_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_team_members_user ON team_members(user_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) observe(op string, started time.Time, err error) {
	s.recorder.ObserveStore(op, started, err)
}

func (s *Store) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

// nullFloat stores nil and non-finite values as NULL.
func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func newID() string {
	return uuid.NewString()
}

// listClauses builds the WHERE/ORDER/LIMIT tail shared by session lists.
func listClauses(q Query) (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{q.UserID}
	if q.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, formatTime(*q.Since))
	}
	order := "DESC"
	if q.Order == OldestFirst {
		order = "ASC"
	}
	tail := fmt.Sprintf("WHERE %s ORDER BY created_at %s, rowid %s", strings.Join(clauses, " AND "), order, order)
	if q.Limit > 0 {
		tail += " LIMIT ?"
		args = append(args, q.Limit)
	}
	return tail, args
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}
