package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dashboard/internal/database"
)

// Repository persists activity logs
type Repository struct {
	db database.Querier
}

// NewRepository creates a new activity repository
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// Insert stores a log entry
func (r *Repository) Insert(ctx context.Context, l *Log) error {
	metadata, err := json.Marshal(l.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO activity_logs (id, user_id, action, details, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.UserID, l.Action, l.Details, metadata, l.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}
	return nil
}

// escapeLike quotes the LIKE wildcards in s
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns the user's entries matching query, newest first, with the
// total number of matches. An empty query matches everything.
func (r *Repository) List(ctx context.Context, userID, query string, limit, offset int) ([]Log, int, error) {
	pattern := "%" + escapeLike(query) + "%"
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, action, details, metadata, created_at, COUNT(*) OVER ()
		FROM activity_logs
		WHERE user_id = $1
		  AND ($2 = '' OR action ILIKE $3 OR details ILIKE $3)
		ORDER BY created_at DESC, id
		LIMIT $4 OFFSET $5`,
		userID, query, pattern, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	logs := []Log{}
	total := 0
	for rows.Next() {
		var (
			l        Log
			metadata []byte
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Details, &metadata, &l.Timestamp, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity log: %w", err)
		}
		if err := json.Unmarshal(metadata, &l.Metadata); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// Past the last page the window count is not available.
	if len(logs) == 0 && offset > 0 {
		err := r.db.QueryRow(ctx, `
			SELECT COUNT(*) FROM activity_logs
			WHERE user_id = $1 AND ($2 = '' OR action ILIKE $3 OR details ILIKE $3)`,
			userID, query, pattern,
		).Scan(&total)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to count activity logs: %w", err)
		}
	}
	return logs, total, nil
}

// Summary aggregates every entry of the user. since marks the start of
// "today".
func (r *Repository) Summary(ctx context.Context, userID string, since time.Time) (Summary, error) {
	var s Summary
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT action),
		       COUNT(*) FILTER (WHERE created_at >= $2),
		       MAX(created_at)
		FROM activity_logs
		WHERE user_id = $1`,
		userID, since,
	).Scan(&s.Total, &s.UniqueActions, &s.Today, &s.Latest)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize activity logs: %w", err)
	}
	return s, nil
}
