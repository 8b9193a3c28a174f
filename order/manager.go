package order

import (
	"context"
	"log"
	"slices"

	"github.com/google/uuid"
)

// Manager tracks the open editing sessions. An existing order has at most one session, which
// Open hands out again; every Open of NewOrderID starts a separate draft. Saves and removals are
// propagated to the list cache one row at a time.
//
// Manager is not safe for concurrent use.
type Manager struct {
	storage  Storage
	cache    *ListCache
	logger   *log.Logger
	sessions []*Editor
}

// NewManager returns a manager refreshing cache after every save or removal. cache may be nil.
func NewManager(storage Storage, cache *ListCache, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{storage: storage, cache: cache, logger: logger}
}

// Open returns the session of order id, opening it if needed.
func (m *Manager) Open(ctx context.Context, id int64) (*Editor, error) {
	if id != NewOrderID {
		if e, ok := m.Find(id); ok {
			return e, nil
		}
	}
	e, err := NewEditor(ctx, m.storage, id)
	if err != nil {
		return nil, err
	}
	e.Subscribe(m.onEvent)
	m.sessions = append(m.sessions, e)
	return e, nil
}

// Find returns the open session of a saved order.
func (m *Manager) Find(id int64) (*Editor, bool) {
	if id == NewOrderID {
		return nil, false
	}
	i := slices.IndexFunc(m.sessions, func(e *Editor) bool { return e.ID() == id })
	if i < 0 {
		return nil, false
	}
	return m.sessions[i], true
}

// Draft returns an open session by its session key.
func (m *Manager) Draft(session uuid.UUID) (*Editor, bool) {
	i := slices.IndexFunc(m.sessions, func(e *Editor) bool { return e.Session() == session })
	if i < 0 {
		return nil, false
	}
	return m.sessions[i], true
}

// Close ends a session. Unsaved changes are discarded.
func (m *Manager) Close(e *Editor) {
	m.sessions = slices.DeleteFunc(m.sessions, func(s *Editor) bool { return s == e })
}

// CloseAll ends every open session, drafts included, and reports how many were closed.
func (m *Manager) CloseAll() int {
	n := len(m.sessions)
	m.sessions = nil
	return n
}

// Sessions lists the open sessions in opening order.
func (m *Manager) Sessions() []*Editor {
	return slices.Clone(m.sessions)
}

// Cache is the list cache kept in sync by the manager.
func (m *Manager) Cache() *ListCache { return m.cache }

func (m *Manager) onEvent(ctx context.Context, ev Event) {
	if ev.Kind == EventRemoved {
		m.Close(ev.Editor)
	}
	if m.cache == nil || ev.ID == NewOrderID {
		return
	}
	if err := m.cache.Refresh(ctx, ev.ID); err != nil {
		m.logger.Printf("order list refresh id=%d err=%v", ev.ID, err)
	}
}
