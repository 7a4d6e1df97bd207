package db

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/mithrel/mriynyk/pkg/api"
)

const (
	// DefaultMessagesPerStudent is how many messages a student keeps.
	DefaultMessagesPerStudent = 10
	// DefaultActivityLimit is how many activity entries are kept.
	DefaultActivityLimit = 12
)

// MessageRepo stores generated answers per student, newest first.
type MessageRepo interface {
	// SendMessage stores m and drops the student's oldest messages beyond max.
	SendMessage(ctx context.Context, m api.Message, max int) (api.Message, error)
	ListMessages(ctx context.Context, studentID string, limit int) ([]api.Message, error)
	GetMessage(ctx context.Context, id string) (api.Message, error)
	ListStudents(ctx context.Context) ([]string, error)
}

// ActivityRepo is the capped activity log, newest first.
type ActivityRepo interface {
	AddActivity(ctx context.Context, a api.Activity, max int) (api.Activity, error)
	ListActivity(ctx context.Context, limit int) ([]api.Activity, error)
	ClearActivity(ctx context.Context) error
}

type Store struct {
	Messages MessageRepo
	Activity ActivityRepo

	closer io.Closer
}

func (s *Store) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid record")
)

// Open returns a Store based on a URL: mem:// or sqlite://path (a bare path
// is treated as sqlite).
func Open(ctx context.Context, url string) (*Store, error) {
	if strings.HasPrefix(url, "mem://") {
		m := newMemStore()
		return &Store{Messages: m, Activity: m}, nil
	}
	st, closer, err := openSQLite(ctx, url)
	if err != nil {
		return nil, err
	}
	st.closer = closer
	return st, nil
}

// prepareMessage fills id, digest and timestamp and validates required fields.
func prepareMessage(m api.Message) (api.Message, error) {
	m.StudentID = strings.TrimSpace(m.StudentID)
	if m.StudentID == "" || strings.TrimSpace(m.Output) == "" {
		return api.Message{}, ErrInvalid
	}
	if m.ID == "" {
		m.ID = api.NewID()
	}
	if m.Digest == "" {
		m.Digest = api.Digest(m.Output)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = nowUTC()
	}
	m.CreatedAt = m.CreatedAt.UTC()
	return m, nil
}

func prepareActivity(a api.Activity) api.Activity {
	if a.ID == "" {
		a.ID = api.NewID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = nowUTC()
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a
}

func capOr(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
