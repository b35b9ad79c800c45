package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome classifies how a command-chat turn resolved.
type Outcome string

const (
	// OutcomeInformational is a turn that executed nothing (overview,
	// search, free-form answer).
	OutcomeInformational Outcome = "informational"
	// OutcomeExecuted is a turn where the backend reported actions taken.
	OutcomeExecuted Outcome = "executed"
	// OutcomeCancelled is a proposed action the user declined.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeFailed is a transport or endpoint failure.
	OutcomeFailed Outcome = "failed"
)

// Record is one logged command turn. The transcript itself is never
// persisted; this is a separate audit of what the user asked for and
// what actually happened.
type Record struct {
	ID          int64
	Instruction string
	Response    string
	Outcome     Outcome
	ActionCount int
	CreatedAt   time.Time
}

type Store struct {
	db *sql.DB
}

func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ahmes_history.db"
	}
	return filepath.Join(home, ".ahmes", "history.db")
}

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS command_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		instruction TEXT NOT NULL,
		response TEXT,
		outcome TEXT NOT NULL,
		action_count INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_cl_outcome ON command_log(outcome);
	CREATE INDEX IF NOT EXISTS idx_cl_created_at ON command_log(created_at);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *Store) Add(record *Record) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	result, err := s.db.Exec(
		`INSERT INTO command_log (instruction, response, outcome, action_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		record.Instruction, record.Response, record.Outcome, record.ActionCount, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	record.ID = id
	return nil
}

// Recent returns the latest turns, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT id, instruction, response, outcome, action_count, created_at
		 FROM command_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var response sql.NullString
		var createdAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.Instruction, &response, &r.Outcome, &r.ActionCount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Response = response.String
		r.CreatedAt = createdAt.Time
		records = append(records, r)
	}
	return records, rows.Err()
}

// Stats returns all-time counts per outcome.
func (s *Store) Stats() (total, executed, cancelled, failed int, err error) {
	query := `SELECT COUNT(*),
		SUM(CASE WHEN outcome='executed' THEN 1 ELSE 0 END),
		SUM(CASE WHEN outcome='cancelled' THEN 1 ELSE 0 END),
		SUM(CASE WHEN outcome='failed' THEN 1 ELSE 0 END)
		FROM command_log`

	var executedNull, cancelledNull, failedNull sql.NullInt64
	err = s.db.QueryRow(query).Scan(&total, &executedNull, &cancelledNull, &failedNull)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get stats: %w", err)
	}
	return total, int(executedNull.Int64), int(cancelledNull.Int64), int(failedNull.Int64), nil
}

// Clear removes the whole command log.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM command_log`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }
