package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mithrel/mriynyk/pkg/api"
)

var nowUTC = func() time.Time { return time.Now().UTC() }

type memStore struct {
	mu       sync.RWMutex
	students map[string][]api.Message
	byID     map[string]api.Message
	activity []api.Activity
}

func newMemStore() *memStore {
	return &memStore{
		students: make(map[string][]api.Message),
		byID:     make(map[string]api.Message),
	}
}

func (m *memStore) SendMessage(ctx context.Context, msg api.Message, max int) (api.Message, error) {
	msg, err := prepareMessage(msg)
	if err != nil {
		return api.Message{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[msg.ID]; ok {
		return api.Message{}, ErrConflict
	}
	list := append([]api.Message{msg}, m.students[msg.StudentID]...)
	if n := capOr(max, DefaultMessagesPerStudent); len(list) > n {
		for _, old := range list[n:] {
			delete(m.byID, old.ID)
		}
		list = list[:n]
	}
	m.students[msg.StudentID] = list
	m.byID[msg.ID] = msg
	return msg, nil
}

func (m *memStore) ListMessages(ctx context.Context, studentID string, limit int) ([]api.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.students[studentID]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return append([]api.Message(nil), list...), nil
}

func (m *memStore) GetMessage(ctx context.Context, id string) (api.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msg, ok := m.byID[id]
	if !ok {
		return api.Message{}, ErrNotFound
	}
	return msg, nil
}

func (m *memStore) ListStudents(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.students))
	for id := range m.students {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memStore) AddActivity(ctx context.Context, a api.Activity, max int) (api.Activity, error) {
	a = prepareActivity(a)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activity = append([]api.Activity{a}, m.activity...)
	if n := capOr(max, DefaultActivityLimit); len(m.activity) > n {
		m.activity = m.activity[:n]
	}
	return a, nil
}

func (m *memStore) ListActivity(ctx context.Context, limit int) ([]api.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.activity
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return append([]api.Activity(nil), list...), nil
}

func (m *memStore) ClearActivity(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activity = nil
	return nil
}
