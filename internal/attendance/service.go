// Package attendance implements the timed attendance window: a teacher opens
// a session for the day, students mark presence until the end time passes,
// and watchers receive every roster and status change live.
package attendance

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ifrasafa/docree-project/internal/logging"
	"github.com/ifrasafa/docree-project/internal/models"
	"github.com/ifrasafa/docree-project/internal/roles"
)

// DateLayout is the session document key format.
const DateLayout = "2006-01-02"

// Snapshot is the plain status view handed to watchers and handlers.
type Snapshot struct {
	Date      string
	Status    string
	EndTime   time.Time
	Remaining time.Duration
	Open      bool
}

type (
	StatusFunc = func(Snapshot)
	RosterFunc = func(date string, students []string)
)

type rosterWatch struct {
	date string // "" matches every date
	fn   RosterFunc
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock, used by tests to drive expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service owns the session state machine. There is no background scheduler
// by default: expiry is enforced lazily by whichever reader next observes a
// stale open session. Run starts an optional active checker on top of that.
type Service struct {
	store Store
	dir   roles.Directory
	now   func() time.Time

	mu            sync.Mutex
	nextWatchID   int
	statusWatches map[int]StatusFunc
	rosterWatches map[int]rosterWatch
}

// NewService builds the session service. The role directory is mandatory:
// running without an authorizer is a configuration error, not a bypass.
func NewService(store Store, dir roles.Directory, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("attendance: store is required")
	}
	if dir == nil {
		return nil, errors.New("attendance: role directory is required")
	}
	s := &Service{
		store:         store,
		dir:           dir,
		now:           time.Now,
		statusWatches: make(map[int]StatusFunc),
		rosterWatches: make(map[int]rosterWatch),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Today returns the session key for the current day.
func (s *Service) Today() string {
	return s.now().UTC().Format(DateLayout)
}

// Open starts (or restarts) today's attendance window. Re-opening while a
// session is already open clears the prior marks for the date. The pointer
// document is written first, then the per-date record; the two writes are
// not transactional, so readers only trust status=open when the end time has
// not passed.
func (s *Service) Open(ctx context.Context, actor string, duration time.Duration) error {
	if err := s.requireRole(ctx, actor, roles.Teacher); err != nil {
		return err
	}
	if duration <= 0 {
		return &ValidationError{Field: "duration", Reason: "must be greater than zero"}
	}

	now := s.now()
	sess := models.AttendanceSession{
		Date:      now.UTC().Format(DateLayout),
		Status:    models.SessionOpen,
		EndTime:   now.Add(duration),
		Students:  []string{},
		UpdatedAt: now,
	}
	if err := s.store.PutCurrent(ctx, sess); err != nil {
		return remoteErr(err)
	}
	if err := s.store.PutSession(ctx, sess); err != nil {
		return remoteErr(err)
	}
	logging.Infof("attendance: session %s opened until %s", sess.Date, sess.EndTime.Format(time.RFC3339))
	s.broadcast(ctx, sess.Date)
	return nil
}

// Close marks the active session closed on both documents. Closing an
// already-closed session is a no-op. Any party may close: the teacher
// explicitly, or any reader that observes an expired end time.
func (s *Service) Close(ctx context.Context) error {
	cur, ok, err := s.store.GetCurrent(ctx)
	if err != nil {
		return remoteErr(err)
	}
	if !ok {
		return nil
	}
	if err := s.closeDate(ctx, cur.Date); err != nil {
		return err
	}
	s.broadcast(ctx, cur.Date)
	return nil
}

// MarkPresent records a student in the day's roster. The mark is rejected if
// the session is not open, has expired (which closes it as a side effect),
// or already contains the trimmed name. The insert itself is a union write,
// so concurrent marks from different students cannot overwrite each other.
func (s *Service) MarkPresent(ctx context.Context, actor, date, name string) error {
	if err := s.requireRole(ctx, actor, roles.Student); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if date == "" {
		return &ValidationError{Field: "date", Reason: "must not be empty"}
	}

	sess, ok, err := s.store.GetSession(ctx, date)
	if err != nil {
		return remoteErr(err)
	}
	if !ok || sess.Status != models.SessionOpen {
		return ErrSessionNotOpen
	}
	if !s.now().Before(sess.EndTime) {
		// Lazy expiry: the failed mark is what closes the stale session.
		if cerr := s.closeDate(ctx, date); cerr != nil {
			logging.Warnf("attendance: expiry close for %s failed: %v", date, cerr)
		} else {
			s.broadcast(ctx, date)
		}
		return ErrSessionExpired
	}
	for _, n := range sess.Students {
		if n == name {
			return ErrAlreadyMarked
		}
	}
	if err := s.store.AddStudent(ctx, date, name); err != nil {
		return remoteErr(err)
	}
	s.broadcast(ctx, date)
	return nil
}

// Status returns the current session snapshot. Observing an expired session
// closes it before reporting, so no caller ever sees a stale open window.
func (s *Service) Status(ctx context.Context) (Snapshot, error) {
	cur, ok, err := s.store.GetCurrent(ctx)
	if err != nil {
		return Snapshot{}, remoteErr(err)
	}
	if !ok {
		return Snapshot{Status: models.SessionClosed}, nil
	}
	now := s.now()
	if cur.Expired(now) {
		if cerr := s.closeDate(ctx, cur.Date); cerr != nil {
			logging.Warnf("attendance: expiry close for %s failed: %v", cur.Date, cerr)
		} else {
			s.broadcast(ctx, cur.Date)
		}
		cur.Status = models.SessionClosed
	}
	return snapshotOf(cur, now), nil
}

// Roster returns the marked students for a date in insertion order.
func (s *Service) Roster(ctx context.Context, date string) ([]string, error) {
	if date == "" {
		return nil, &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	sess, ok, err := s.store.GetSession(ctx, date)
	if err != nil {
		return nil, remoteErr(err)
	}
	if !ok {
		return []string{}, nil
	}
	return append([]string{}, sess.Students...), nil
}

// WatchStatus subscribes fn to every status change, including the
// subscriber's own writes, and delivers the current snapshot immediately.
// Each delivery re-evaluates expiry, so a watcher doubles as a lazy expiry
// trigger. The returned cancel stops delivery and all side effects.
func (s *Service) WatchStatus(ctx context.Context, fn StatusFunc) (func(), error) {
	snap, err := s.Status(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	id := s.nextWatchID
	s.nextWatchID++
	s.statusWatches[id] = fn
	s.mu.Unlock()
	fn(snap)
	return func() {
		s.mu.Lock()
		delete(s.statusWatches, id)
		s.mu.Unlock()
	}, nil
}

// WatchRoster subscribes fn to roster changes for a date; an empty date
// matches every date. The current roster is delivered immediately.
func (s *Service) WatchRoster(ctx context.Context, date string, fn RosterFunc) (func(), error) {
	if date != "" {
		students, err := s.Roster(ctx, date)
		if err != nil {
			return nil, err
		}
		fn(date, students)
	}
	s.mu.Lock()
	id := s.nextWatchID
	s.nextWatchID++
	s.rosterWatches[id] = rosterWatch{date: date, fn: fn}
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.rosterWatches, id)
		s.mu.Unlock()
	}, nil
}

// Run actively checks for expiry until ctx is cancelled. The lazy
// close-on-read path already guarantees no mark lands past the end time;
// this just makes the stored status flip promptly even with no readers.
func (s *Service) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Status(ctx); err != nil {
				logging.Debugf("attendance: expiry check: %v", err)
			}
		}
	}
}

func (s *Service) requireRole(ctx context.Context, actor string, want roles.Role) error {
	if strings.TrimSpace(actor) == "" {
		return ErrUnauthenticated
	}
	role, err := s.dir.Lookup(ctx, actor)
	if err != nil {
		return remoteErr(err)
	}
	if role != want {
		return ErrUnauthorized
	}
	return nil
}

// closeDate merges status=closed into both documents without touching the
// roster. Safe to call on an already-closed or missing session.
func (s *Service) closeDate(ctx context.Context, date string) error {
	if err := s.store.SetCurrentStatus(ctx, date, models.SessionClosed); err != nil {
		return remoteErr(err)
	}
	if err := s.store.SetSessionStatus(ctx, date, models.SessionClosed); err != nil {
		return remoteErr(err)
	}
	return nil
}

// broadcast fans the post-write state out to watchers. Status delivery
// re-checks expiry so that a watcher observing a stale open session closes
// it, per the close-on-read policy. Fan-out failures are housekeeping, never
// surfaced to the writer.
func (s *Service) broadcast(ctx context.Context, date string) {
	now := s.now()

	cur, ok, err := s.store.GetCurrent(ctx)
	if err == nil {
		snap := Snapshot{Status: models.SessionClosed}
		if ok {
			if cur.Expired(now) {
				if cerr := s.closeDate(ctx, cur.Date); cerr == nil {
					cur.Status = models.SessionClosed
				}
			}
			snap = snapshotOf(cur, now)
		}
		for _, fn := range s.liveStatusWatches() {
			fn(snap)
		}
	} else {
		logging.Debugf("attendance: broadcast status read: %v", err)
	}

	if date == "" {
		return
	}
	sess, ok, err := s.store.GetSession(ctx, date)
	if err != nil || !ok {
		return
	}
	students := append([]string{}, sess.Students...)
	for _, fn := range s.liveRosterWatches(date) {
		fn(date, students)
	}
}

func (s *Service) liveStatusWatches() []StatusFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StatusFunc, 0, len(s.statusWatches))
	for _, fn := range s.statusWatches {
		out = append(out, fn)
	}
	return out
}

func (s *Service) liveRosterWatches(date string) []RosterFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RosterFunc, 0, len(s.rosterWatches))
	for _, w := range s.rosterWatches {
		if w.date == "" || w.date == date {
			out = append(out, w.fn)
		}
	}
	return out
}

func snapshotOf(sess models.AttendanceSession, now time.Time) Snapshot {
	snap := Snapshot{
		Date:    sess.Date,
		Status:  sess.Status,
		EndTime: sess.EndTime,
	}
	if sess.Open(now) {
		snap.Open = true
		snap.Remaining = sess.EndTime.Sub(now)
	}
	return snap
}
