package store

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/mflister/lexicat/internal/metrics"
	"github.com/mflister/lexicat/internal/models"
)

const defaultSessionLimit = 20

// Counts summarizes stored transcript volume.
type Counts struct {
	Sessions int
	Messages int
}

type countRow struct {
	C int `json:"c"`
}

// CreateSession creates a session record under the given ID. Creating
// an ID that already exists returns ErrSessionExists; callers resuming
// a session can ignore it.
func (c *Client) CreateSession(ctx context.Context, id, title string) (*models.Session, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]models.Session](ctx, c.db, `
		CREATE type::record("session", $id) SET title = $title RETURN AFTER
	`, map[string]any{"id": id, "title": title})
	c.metrics.RecordTiming(metrics.OpStoreQuery, time.Since(start))
	if err != nil {
		c.metrics.RecordError(metrics.OpStoreQuery)
		return nil, fmt.Errorf("create session: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create session: no result returned")
	}
	return &(*results)[0].Result[0], nil
}

// GetSession retrieves a session by ID. Returns nil if not found.
func (c *Client) GetSession(ctx context.Context, id string) (*models.Session, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]models.Session](ctx, c.db, `
		SELECT * FROM type::record("session", $id)
	`, map[string]any{"id": id})
	c.metrics.RecordTiming(metrics.OpStoreQuery, time.Since(start))
	if err != nil {
		c.metrics.RecordError(metrics.OpStoreQuery)
		return nil, fmt.Errorf("get session: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// ListSessions returns sessions ordered by last activity, newest first.
func (c *Client) ListSessions(ctx context.Context, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = defaultSessionLimit
	}

	start := time.Now()
	results, err := surrealdb.Query[[]models.Session](ctx, c.db, `
		SELECT * FROM session ORDER BY updated_at DESC LIMIT $limit
	`, map[string]any{"limit": limit})
	c.metrics.RecordTiming(metrics.OpStoreQuery, time.Since(start))
	if err != nil {
		c.metrics.RecordError(metrics.OpStoreQuery)
		return nil, fmt.Errorf("list sessions: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Session{}, nil
	}
	return (*results)[0].Result, nil
}

// DeleteSession removes a session and its messages. Deleting a session
// that does not exist is a no-op and returns false.
func (c *Client) DeleteSession(ctx context.Context, id string) (bool, error) {
	vars := map[string]any{"id": id}

	start := time.Now()
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE message WHERE session = type::record("session", $id)
	`, vars)
	if err != nil {
		c.metrics.RecordError(metrics.OpStoreQuery)
		return false, fmt.Errorf("delete messages: %w", wrapQueryError(err))
	}

	results, err := surrealdb.Query[[]models.Session](ctx, c.db, `
		DELETE type::record("session", $id) RETURN BEFORE
	`, vars)
	c.metrics.RecordTiming(metrics.OpStoreQuery, time.Since(start))
	if err != nil {
		c.metrics.RecordError(metrics.OpStoreQuery)
		return false, fmt.Errorf("delete session: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return false, nil
	}
	return len((*results)[0].Result) > 0, nil
}

// AppendMessage records one turn of a session's transcript and bumps
// the session's last-activity time.
func (c *Client) AppendMessage(ctx context.Context, sessionID, role, content, intent string, entities []string) (*models.Message, error) {
	if entities == nil {
		entities = []string{}
	}
	var intentOpt *string
	if intent != "" {
		intentOpt = &intent
	}

	start := time.Now()
	results, err := surrealdb.Query[[]models.Message](ctx, c.db, `
		CREATE message SET
			session = type::record("session", $session),
			role = $role,
			content = $content,
			intent = $intent,
			entities = $entities
		RETURN AFTER
	`, map[string]any{
		"session":  sessionID,
		"role":     role,
		"content":  content,
		"intent":   intentOpt,
		"entities": entities,
	})
	c.metrics.RecordTiming(metrics.OpStoreQuery, time.Since(start))
	if err != nil {
		c.metrics.RecordError(metrics.OpStoreQuery)
		return nil, fmt.Errorf("append message: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("append message: no result returned")
	}
	message := &(*results)[0].Result[0]

	_, err = surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("session", $session) SET updated_at = time::now()
	`, map[string]any{"session": sessionID})
	if err != nil {
		c.metrics.RecordError(metrics.OpStoreQuery)
		return nil, fmt.Errorf("touch session: %w", wrapQueryError(err))
	}

	return message, nil
}

// ListMessages returns a session's transcript in chronological order.
func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]models.Message](ctx, c.db, `
		SELECT * FROM message WHERE session = type::record("session", $session) ORDER BY created_at ASC
	`, map[string]any{"session": sessionID})
	c.metrics.RecordTiming(metrics.OpStoreQuery, time.Since(start))
	if err != nil {
		c.metrics.RecordError(metrics.OpStoreQuery)
		return nil, fmt.Errorf("list messages: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Message{}, nil
	}
	return (*results)[0].Result, nil
}

// Transcript loads a session together with its messages in
// chronological order. Returns ErrNotFound when the session does not
// exist.
func (c *Client) Transcript(ctx context.Context, sessionID string) (*models.Session, []models.Message, error) {
	session, err := c.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}

	messages, err := c.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session, messages, nil
}

// TranscriptCounts returns how many sessions and messages are stored.
func (c *Client) TranscriptCounts(ctx context.Context) (Counts, error) {
	sessions, err := c.count(ctx, "session")
	if err != nil {
		return Counts{}, err
	}
	messages, err := c.count(ctx, "message")
	if err != nil {
		return Counts{}, err
	}
	return Counts{Sessions: sessions, Messages: messages}, nil
}

func (c *Client) count(ctx context.Context, table string) (int, error) {
	start := time.Now()
	results, err := surrealdb.Query[[]countRow](ctx, c.db,
		fmt.Sprintf("SELECT count() AS c FROM %s GROUP ALL", table), nil)
	c.metrics.RecordTiming(metrics.OpStoreQuery, time.Since(start))
	if err != nil {
		c.metrics.RecordError(metrics.OpStoreQuery)
		return 0, fmt.Errorf("count %s: %w", table, wrapQueryError(err))
	}

	// An empty table yields no group row at all.
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].C, nil
}
