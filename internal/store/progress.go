package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/transcribe-flow/internal/chunk"
)

// UpsertChunk durably records one completed chunk. The first write for a
// task pre-fills placeholder rows for every chunk index so GetProgress
// always returns the full ordered sequence. Re-writing the same slot
// overwrites its text and bounds only; other slots are never touched.
func (s *Store) UpsertChunk(taskID int64, index, total int, text string, startSec, endSec float64) error {
	if index < 0 || index >= total {
		return fmt.Errorf("chunk index %d out of range [0, %d)", index, total)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRow(`
		SELECT COUNT(*) FROM transcription_chunks WHERE task_id = ?
	`, taskID).Scan(&existing); err != nil {
		return fmt.Errorf("count chunks: %w", err)
	}

	if existing == 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO transcription_chunks (task_id, chunk_index, total_chunks)
			VALUES (?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("prepare placeholders: %w", err)
		}
		for i := 0; i < total; i++ {
			if _, err := stmt.Exec(taskID, i, total); err != nil {
				stmt.Close()
				return fmt.Errorf("insert placeholder %d: %w", i, err)
			}
		}
		stmt.Close()
	}

	if _, err := tx.Exec(`
		UPDATE transcription_chunks
		SET text = ?, start_sec = ?, end_sec = ?, completed = 1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE task_id = ? AND chunk_index = ?
	`, text, startSec, endSec, taskID, index); err != nil {
		return fmt.Errorf("upsert chunk %d: %w", index, err)
	}

	return tx.Commit()
}

// GetProgress returns the full ordered chunk sequence for a task, or nil
// if no progress has ever been recorded.
func (s *Store) GetProgress(taskID int64) (*Progress, error) {
	rows, err := s.db.Query(`
		SELECT chunk_index, total_chunks, start_sec, end_sec, text, completed
		FROM transcription_chunks
		WHERE task_id = ?
		ORDER BY chunk_index ASC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var progress Progress
	for rows.Next() {
		var st chunk.State
		var text sql.NullString
		var completed int
		if err := rows.Scan(&st.Index, &progress.TotalChunks, &st.StartSec,
			&st.EndSec, &text, &completed); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		st.Text = text.String
		st.Completed = completed != 0
		if st.Completed {
			progress.CompletedChunks++
		}
		progress.Chunks = append(progress.Chunks, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(progress.Chunks) == 0 {
		return nil, nil
	}
	return &progress, nil
}

// AssemblePartial joins the text of every completed chunk in index order.
// This is the recovery path after a mid-stream failure: whatever was
// durably written before the failure comes back as a best-effort
// transcript. Returns the empty string when nothing has completed.
func (s *Store) AssemblePartial(taskID int64) (string, error) {
	rows, err := s.db.Query(`
		SELECT text
		FROM transcription_chunks
		WHERE task_id = ? AND completed = 1
		ORDER BY chunk_index ASC
	`, taskID)
	if err != nil {
		return "", fmt.Errorf("query completed chunks: %w", err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text sql.NullString
		if err := rows.Scan(&text); err != nil {
			return "", fmt.Errorf("scan chunk text: %w", err)
		}
		if t := strings.TrimSpace(text.String); t != "" {
			texts = append(texts, t)
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	return strings.Join(texts, " "), nil
}
