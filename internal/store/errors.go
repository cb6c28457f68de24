package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Sentinel errors for transcript operations. Check with errors.Is.
var (
	// ErrSessionExists indicates a session with the same ID was already
	// created. Callers resuming a session can treat this as success.
	ErrSessionExists = errors.New("session already exists")

	// ErrConflict indicates a SurrealDB transaction conflict from
	// concurrent writes. Callers should retry or skip the write.
	ErrConflict = errors.New("transaction conflict")

	// ErrNotFound indicates the requested session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrNoConnection indicates the SurrealDB endpoint could not be
	// reached. Transcript storage is optional, so callers usually log
	// this and continue without a store.
	ErrNoConnection = errors.New("no database connection")
)

// wrapQueryError maps known SurrealDB query errors onto sentinels so
// callers can branch with errors.Is. Unknown errors pass through.
func wrapQueryError(err error) error {
	if err == nil {
		return nil
	}

	var queryErr *surrealdb.QueryError
	if errors.As(err, &queryErr) {
		msg := queryErr.Message
		if strings.Contains(msg, "already exists") {
			return fmt.Errorf("%w: %s", ErrSessionExists, msg)
		}
		if strings.Contains(msg, "Transaction conflict") {
			return fmt.Errorf("%w: %s", ErrConflict, msg)
		}
	}

	return err
}
