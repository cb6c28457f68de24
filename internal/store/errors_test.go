package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/surrealdb/surrealdb.go"
)

func TestWrapQueryError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		if got := wrapQueryError(nil); got != nil {
			t.Errorf("wrapQueryError(nil) = %v, want nil", got)
		}
	})

	t.Run("already exists maps to ErrSessionExists", func(t *testing.T) {
		err := &surrealdb.QueryError{Message: "The record `session:abc` already exists"}
		got := wrapQueryError(err)
		if !errors.Is(got, ErrSessionExists) {
			t.Errorf("wrapQueryError(%v) = %v, want ErrSessionExists", err, got)
		}
	})

	t.Run("transaction conflict maps to ErrConflict", func(t *testing.T) {
		err := fmt.Errorf("query: %w", &surrealdb.QueryError{Message: "Transaction conflict, please retry"})
		got := wrapQueryError(err)
		if !errors.Is(got, ErrConflict) {
			t.Errorf("wrapQueryError(%v) = %v, want ErrConflict", err, got)
		}
	})

	t.Run("other query errors pass through unchanged", func(t *testing.T) {
		err := &surrealdb.QueryError{Message: "Parse error: unexpected token"}
		if got := wrapQueryError(err); got != err {
			t.Errorf("wrapQueryError(%v) = %v, want identity", err, got)
		}
	})

	t.Run("non-query errors pass through unchanged", func(t *testing.T) {
		err := errors.New("connection closed")
		if got := wrapQueryError(err); got != err {
			t.Errorf("wrapQueryError(%v) = %v, want identity", err, got)
		}
	})
}
