// package repositories provides the SQLite persistence layer for cached playlists and the play queue.
package repositories

import (
	"database/sql"
	"fmt"
)

// inTx runs fn inside a transaction, committing when it returns nil.
func inTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// scanner is the common subset of [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}
