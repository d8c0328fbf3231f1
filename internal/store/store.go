package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source_url TEXT NOT NULL,
	video_title TEXT NOT NULL,
	audio_file_path TEXT,
	transcript_text TEXT,
	summary_text TEXT,
	error_message TEXT,
	status TEXT NOT NULL DEFAULT 'waiting',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (status);

CREATE TABLE IF NOT EXISTS transcription_chunks (
	task_id INTEGER NOT NULL,
	chunk_index INTEGER NOT NULL,
	total_chunks INTEGER NOT NULL,
	start_sec REAL NOT NULL DEFAULT 0,
	end_sec REAL NOT NULL DEFAULT 0,
	text TEXT,
	completed INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (task_id, chunk_index)
);
`

// Store wraps the SQLite database holding tasks and chunk progress.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and applies the
// schema. WAL keeps chunk upserts durable without blocking readers.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
