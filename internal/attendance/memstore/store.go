// Package memstore is an in-memory attendance store used by tests and local
// development. It mirrors the Mongo store's semantics, including union-only
// growth of the student set.
package memstore

import (
	"context"
	"sync"

	"github.com/ifrasafa/docree-project/internal/models"
)

type Store struct {
	mu       sync.Mutex
	err      error
	current  *models.AttendanceSession
	sessions map[string]*models.AttendanceSession
}

func New() *Store {
	return &Store{sessions: make(map[string]*models.AttendanceSession)}
}

// SetError forces every subsequent operation to fail with err, emulating an
// unreachable store. Pass nil to heal.
func (st *Store) SetError(err error) {
	st.mu.Lock()
	st.err = err
	st.mu.Unlock()
}

func (st *Store) GetCurrent(_ context.Context) (models.AttendanceSession, bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.err != nil {
		return models.AttendanceSession{}, false, st.err
	}
	if st.current == nil {
		return models.AttendanceSession{}, false, nil
	}
	return copySession(st.current), true, nil
}

func (st *Store) GetSession(_ context.Context, date string) (models.AttendanceSession, bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.err != nil {
		return models.AttendanceSession{}, false, st.err
	}
	s, ok := st.sessions[date]
	if !ok {
		return models.AttendanceSession{}, false, nil
	}
	return copySession(s), true, nil
}

func (st *Store) PutCurrent(_ context.Context, s models.AttendanceSession) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.err != nil {
		return st.err
	}
	cp := copySession(&s)
	st.current = &cp
	return nil
}

func (st *Store) PutSession(_ context.Context, s models.AttendanceSession) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.err != nil {
		return st.err
	}
	cp := copySession(&s)
	st.sessions[s.Date] = &cp
	return nil
}

func (st *Store) SetSessionStatus(_ context.Context, date, status string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.err != nil {
		return st.err
	}
	if s, ok := st.sessions[date]; ok {
		s.Status = status
	}
	return nil
}

func (st *Store) SetCurrentStatus(_ context.Context, date, status string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.err != nil {
		return st.err
	}
	if st.current != nil && st.current.Date == date {
		st.current.Status = status
	}
	return nil
}

func (st *Store) AddStudent(_ context.Context, date, name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.err != nil {
		return st.err
	}
	s, ok := st.sessions[date]
	if !ok {
		return nil
	}
	for _, n := range s.Students {
		if n == name {
			return nil
		}
	}
	s.Students = append(s.Students, name)
	return nil
}

func copySession(s *models.AttendanceSession) models.AttendanceSession {
	cp := *s
	cp.Students = append([]string{}, s.Students...)
	return cp
}
