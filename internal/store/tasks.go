package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ErrInvalidStatus is returned when a status value outside the known task
// lifecycle is written.
var ErrInvalidStatus = fmt.Errorf("invalid task status")

// CreateTask inserts a new task and returns its id.
func (s *Store) CreateTask(sourceURL, videoTitle string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO tasks (source_url, video_title, status)
		VALUES (?, ?, ?)
	`, sourceURL, videoTitle, StatusWaiting)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task id: %w", err)
	}
	return id, nil
}

// UpdateStatus moves a task to a new lifecycle status.
func (s *Store) UpdateStatus(taskID int64, status string) error {
	if !validStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if _, err := s.db.Exec(`UPDATE tasks SET status = ? WHERE id = ?`, status, taskID); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// ContentUpdate carries the optional result fields of UpdateContent.
// Nil fields are left untouched.
type ContentUpdate struct {
	Transcript    *string
	Summary       *string
	AudioFilePath *string
	VideoTitle    *string
}

// UpdateContent updates only the non-nil result fields of a task.
func (s *Store) UpdateContent(taskID int64, upd ContentUpdate) error {
	set := ""
	var args []any
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		if set != "" {
			set += ", "
		}
		set += column + " = ?"
		args = append(args, *value)
	}

	add("transcript_text", upd.Transcript)
	add("summary_text", upd.Summary)
	add("audio_file_path", upd.AudioFilePath)
	add("video_title", upd.VideoTitle)

	if set == "" {
		return nil
	}

	args = append(args, taskID)
	if _, err := s.db.Exec(`UPDATE tasks SET `+set+` WHERE id = ?`, args...); err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	return nil
}

// SetError marks a task failed and records the error message for
// diagnostics.
func (s *Store) SetError(taskID int64, message string) error {
	if _, err := s.db.Exec(`
		UPDATE tasks SET status = ?, error_message = ? WHERE id = ?
	`, StatusFailed, message, taskID); err != nil {
		return fmt.Errorf("set error: %w", err)
	}
	return nil
}

// GetTask returns a task by id, or nil if it does not exist.
func (s *Store) GetTask(taskID int64) (*Task, error) {
	row := s.db.QueryRow(`
		SELECT id, source_url, video_title, audio_file_path,
		       transcript_text, summary_text, error_message, status, created_at
		FROM tasks
		WHERE id = ?
	`, taskID)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return task, nil
}

// ListTasks returns tasks newest first. A non-positive limit returns all.
func (s *Store) ListTasks(limit int) ([]Task, error) {
	query := `
		SELECT id, source_url, video_title, audio_file_path,
		       transcript_text, summary_text, error_message, status, created_at
		FROM tasks
		ORDER BY datetime(created_at) DESC, id DESC
	`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// DeleteTask removes a task and its chunk progress.
func (s *Store) DeleteTask(taskID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM transcription_chunks WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var audioPath, transcript, summary, errMsg, createdAt sql.NullString

	if err := row.Scan(&t.ID, &t.SourceURL, &t.VideoTitle, &audioPath,
		&transcript, &summary, &errMsg, &t.Status, &createdAt); err != nil {
		return nil, err
	}

	t.AudioFilePath = audioPath.String
	t.Transcript = transcript.String
	t.Summary = summary.String
	t.ErrorMessage = errMsg.String
	if createdAt.Valid {
		// SQLite stores CURRENT_TIMESTAMP as UTC text.
		t.CreatedAt, _ = time.Parse(time.DateTime, createdAt.String)
	}
	return &t, nil
}
