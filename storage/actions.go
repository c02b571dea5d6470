package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Action is one executed automation operation
type Action struct {
	ID           int64     `json:"id"`
	Ref          string    `json:"ref"`
	Timestamp    time.Time `json:"timestamp"`
	Kind         string    `json:"kind"`   // e.g. "keyboard.press"
	Detail       string    `json:"detail"` // JSON arguments
	DurationMs   int64     `json:"duration_ms"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error,omitempty"`
}

// SaveAction saves an action to the journal
func (db *DB) SaveAction(a *Action) error {
	query := `
		INSERT INTO actions (ref, kind, detail, duration_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var errorMessage sql.NullString
	if a.ErrorMessage != "" {
		errorMessage = sql.NullString{String: a.ErrorMessage, Valid: true}
	}

	result, err := db.conn.Exec(query, a.Ref, a.Kind, a.Detail, a.DurationMs, a.Success, errorMessage)
	if err != nil {
		return fmt.Errorf("failed to save action: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	a.ID = id
	return db.conn.QueryRow("SELECT timestamp FROM actions WHERE id = ?", id).Scan(&a.Timestamp)
}

// GetActions retrieves actions, newest first, with pagination.
// An empty kind matches every action.
func (db *DB) GetActions(kind string, limit, offset int) ([]Action, error) {
	query := `
		SELECT id, ref, timestamp, kind, detail, duration_ms, success, error_message
		FROM actions
		WHERE ? = '' OR kind = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.conn.Query(query, kind, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var a Action
		var errorMessage sql.NullString

		err := rows.Scan(&a.ID, &a.Ref, &a.Timestamp, &a.Kind, &a.Detail, &a.DurationMs, &a.Success, &errorMessage)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		if errorMessage.Valid {
			a.ErrorMessage = errorMessage.String
		}

		actions = append(actions, a)
	}

	return actions, rows.Err()
}

// DeleteActions clears the journal and returns how many rows were removed
func (db *DB) DeleteActions() (int64, error) {
	result, err := db.conn.Exec(`DELETE FROM actions`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete actions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// GetActionCount returns the number of journaled actions of kind.
// An empty kind counts every action.
func (db *DB) GetActionCount(kind string) (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM actions WHERE ? = '' OR kind = ?", kind, kind).Scan(&count)
	return count, err
}
