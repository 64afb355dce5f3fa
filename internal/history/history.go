package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/howto-cli/howto/internal/config"
)

const historyFileName = "history.db"

// Entry is one finished interaction: the original request, the command that
// came out of it, and what happened when (and if) it ran.
type Entry struct {
	ID        int64
	Timestamp time.Time
	Intent    string
	Command   string
	Executed  bool
	ExitCode  int
	Repaired  bool
}

// Store persists history in a SQLite database under the config directory.
type Store struct {
	db   *sql.DB
	path string
}

// GetHistoryPath returns the path to the history database
func GetHistoryPath() (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, historyFileName), nil
}

// Open opens (or creates) the default history database.
func Open() (*Store, error) {
	path, err := GetHistoryPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt opens (or creates) a history database at an explicit path.
func OpenAt(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		intent TEXT NOT NULL,
		command TEXT NOT NULL,
		executed INTEGER NOT NULL,
		exit_code INTEGER NOT NULL,
		repaired INTEGER NOT NULL
	);`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a new entry. Timestamp defaults to now if unset.
func (s *Store) Record(e Entry) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO entries (timestamp, intent, command, executed, exit_code, repaired) VALUES (?, ?, ?, ?, ?, ?)`,
		ts.Format(time.RFC3339), e.Intent, e.Command, boolToInt(e.Executed), e.ExitCode, boolToInt(e.Repaired),
	)
	if err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, timestamp, intent, command, executed, exit_code, repaired FROM entries ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		var executed, repaired int
		if err := rows.Scan(&e.ID, &ts, &e.Intent, &e.Command, &executed, &e.ExitCode, &repaired); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339, ts)
		e.Executed = executed != 0
		e.Repaired = repaired != 0
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Get returns a single entry by id.
func (s *Store) Get(id int64) (Entry, error) {
	var e Entry
	var ts string
	var executed, repaired int

	err := s.db.QueryRow(
		`SELECT id, timestamp, intent, command, executed, exit_code, repaired FROM entries WHERE id = ?`, id,
	).Scan(&e.ID, &ts, &e.Intent, &e.Command, &executed, &e.ExitCode, &repaired)
	if err == sql.ErrNoRows {
		return Entry{}, fmt.Errorf("no history entry with id %d", id)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to load history entry: %w", err)
	}

	e.Timestamp, _ = time.Parse(time.RFC3339, ts)
	e.Executed = executed != 0
	e.Repaired = repaired != 0
	return e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
