// Package activity keeps the per-user log of account, folder and file
// actions shown on the dashboard's activity feed.
package activity

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recorder is implemented by anything that can record a user action.
// Recording never fails the caller.
type Recorder interface {
	Record(ctx context.Context, userID string, action Action, details string, metadata Metadata)
}

type discard struct{}

func (discard) Record(context.Context, string, Action, string, Metadata) {}

// Discard is a Recorder that drops every entry
var Discard Recorder = discard{}

// Store is the persistence the service depends on
type Store interface {
	Insert(ctx context.Context, l *Log) error
	List(ctx context.Context, userID, query string, limit, offset int) ([]Log, int, error)
	Summary(ctx context.Context, userID string, since time.Time) (Summary, error)
}

// Service records and lists activity logs
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

var _ Recorder = (*Service)(nil)

// NewService creates a new activity service
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger.With("component", "activity"), now: time.Now}
}

// Record stores an entry. The write outlives a cancelled request and a
// failure is only logged.
func (s *Service) Record(ctx context.Context, userID string, action Action, details string, metadata Metadata) {
	if metadata == nil {
		metadata = Metadata{}
	}
	l := &Log{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		Metadata:  metadata,
		Timestamp: s.now().UTC(),
	}
	if err := s.store.Insert(context.WithoutCancel(ctx), l); err != nil {
		s.logger.Warn("Failed to record activity", "user_id", userID, "action", action, "error", err)
	}
}

// List returns one page of the user's log. Pages start at 1; out of range
// pages are clamped to 1.
func (s *Service) List(ctx context.Context, userID, query string, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	query = strings.TrimSpace(query)

	logs, total, err := s.store.List(ctx, userID, query, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, err
	}

	now := s.now()
	y, m, d := now.Date()
	summary, err := s.store.Summary(ctx, userID, time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
	if err != nil {
		return nil, err
	}

	return &Page{
		Logs:       logs,
		Query:      query,
		Page:       page,
		PageSize:   PageSize,
		Total:      total,
		TotalPages: (total + PageSize - 1) / PageSize,
		Summary:    summary,
	}, nil
}
