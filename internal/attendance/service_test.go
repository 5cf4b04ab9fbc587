package attendance_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ifrasafa/docree-project/internal/attendance"
	"github.com/ifrasafa/docree-project/internal/attendance/memstore"
	"github.com/ifrasafa/docree-project/internal/models"
	"github.com/ifrasafa/docree-project/internal/roles"
)

const (
	teacherID = "auth0|teacher-1"
	studentID = "auth0|student-1"
	parentID  = "auth0|parent-1"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestService(t *testing.T, dir roles.Directory) (*attendance.Service, *memstore.Store, *fakeClock) {
	t.Helper()
	if dir == nil {
		dir = roles.StaticDirectory{
			teacherID: roles.Teacher,
			studentID: roles.Student,
			parentID:  roles.Parent,
		}
	}
	store := memstore.New()
	clock := newFakeClock()
	svc, err := attendance.NewService(store, dir, attendance.WithClock(clock.Now))
	require.NoError(t, err)
	return svc, store, clock
}

func TestNewServiceRequiresDirectory(t *testing.T) {
	_, err := attendance.NewService(memstore.New(), nil)
	require.Error(t, err)

	_, err = attendance.NewService(nil, roles.StaticDirectory{})
	require.Error(t, err)
}

func TestOpenThenMark(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Open(ctx, teacherID, time.Minute))
	require.NoError(t, svc.MarkPresent(ctx, studentID, svc.Today(), "Alice"))

	roster, err := svc.Roster(ctx, svc.Today())
	require.NoError(t, err)
	require.Equal(t, []string{"Alice"}, roster)
}

func TestMarkTwiceReportsAlreadyMarked(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Open(ctx, teacherID, time.Minute))
	require.NoError(t, svc.MarkPresent(ctx, studentID, svc.Today(), "Alice"))

	err := svc.MarkPresent(ctx, studentID, svc.Today(), "Alice")
	require.ErrorIs(t, err, attendance.ErrAlreadyMarked)

	// names are trimmed before the membership check
	err = svc.MarkPresent(ctx, studentID, svc.Today(), "  Alice ")
	require.ErrorIs(t, err, attendance.ErrAlreadyMarked)

	roster, err := svc.Roster(ctx, svc.Today())
	require.NoError(t, err)
	require.Equal(t, []string{"Alice"}, roster)
}

func TestMarkAfterExpiryClosesSession(t *testing.T) {
	svc, store, clock := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Open(ctx, teacherID, 2*time.Second))
	date := svc.Today()
	clock.Advance(3 * time.Second)

	err := svc.MarkPresent(ctx, studentID, date, "Bob")
	require.ErrorIs(t, err, attendance.ErrSessionExpired)

	sess, ok, err := store.GetSession(ctx, date)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, models.SessionClosed, sess.Status)
	require.Empty(t, sess.Students)

	cur, ok, err := store.GetCurrent(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, models.SessionClosed, cur.Status)
}

func TestCloseIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Open(ctx, teacherID, time.Minute))
	require.NoError(t, svc.Close(ctx))
	require.NoError(t, svc.Close(ctx))

	cur, ok, err := store.GetCurrent(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, models.SessionClosed, cur.Status)

	// closing with no session at all is also a no-op
	svc2, _, _ := newTestService(t, nil)
	require.NoError(t, svc2.Close(ctx))
}

func TestConcurrentMarksLoseNoUpdates(t *testing.T) {
	const n = 32

	dir := roles.StaticDirectory{teacherID: roles.Teacher}
	for i := 0; i < n; i++ {
		dir[fmt.Sprintf("auth0|student-%d", i)] = roles.Student
	}
	svc, _, _ := newTestService(t, dir)
	ctx := context.Background()

	require.NoError(t, svc.Open(ctx, teacherID, time.Minute))
	date := svc.Today()

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := fmt.Sprintf("auth0|student-%d", i)
			errs[i] = svc.MarkPresent(ctx, actor, date, fmt.Sprintf("Student %d", i))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "mark %d", i)
	}

	roster, err := svc.Roster(ctx, date)
	require.NoError(t, err)
	require.Len(t, roster, n)
	seen := make(map[string]bool, n)
	for _, name := range roster {
		require.False(t, seen[name], "duplicate roster entry %q", name)
		seen[name] = true
	}
}

func TestExpiryScenario(t *testing.T) {
	svc, store, clock := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Open(ctx, teacherID, 2*time.Second))
	date := svc.Today()

	require.NoError(t, svc.MarkPresent(ctx, studentID, date, "Alice"))
	roster, err := svc.Roster(ctx, date)
	require.NoError(t, err)
	require.Equal(t, []string{"Alice"}, roster)

	clock.Advance(3 * time.Second)

	err = svc.MarkPresent(ctx, studentID, date, "Bob")
	require.ErrorIs(t, err, attendance.ErrSessionExpired)

	sess, ok, err := store.GetSession(ctx, date)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, models.SessionClosed, sess.Status)

	// the session is closed by now, so the retry reports either outcome
	// but never double-inserts
	err = svc.MarkPresent(ctx, studentID, date, "Alice")
	require.True(t,
		errors.Is(err, attendance.ErrSessionNotOpen) || errors.Is(err, attendance.ErrAlreadyMarked),
		"unexpected error: %v", err)

	roster, err = svc.Roster(ctx, date)
	require.NoError(t, err)
	require.Equal(t, []string{"Alice"}, roster)
}

func TestOpenRequiresTeacher(t *testing.T) {
	svc, store, _ := newTestService(t, nil)
	ctx := context.Background()

	require.ErrorIs(t, svc.Open(ctx, studentID, time.Minute), attendance.ErrUnauthorized)
	require.ErrorIs(t, svc.Open(ctx, parentID, time.Minute), attendance.ErrUnauthorized)
	require.ErrorIs(t, svc.Open(ctx, "auth0|nobody", time.Minute), attendance.ErrUnauthorized)
	require.ErrorIs(t, svc.Open(ctx, "", time.Minute), attendance.ErrUnauthenticated)

	// failed opens leave no partial write behind
	_, ok, err := store.GetCurrent(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMarkRequiresStudent(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Open(ctx, teacherID, time.Minute))
	require.ErrorIs(t, svc.MarkPresent(ctx, teacherID, svc.Today(), "Alice"), attendance.ErrUnauthorized)
	require.ErrorIs(t, svc.MarkPresent(ctx, "", svc.Today(), "Alice"), attendance.ErrUnauthenticated)
}

func TestValidation(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	var verr *attendance.ValidationError
	require.ErrorAs(t, svc.Open(ctx, teacherID, 0), &verr)
	require.Equal(t, "duration", verr.Field)

	require.NoError(t, svc.Open(ctx, teacherID, time.Minute))

	require.ErrorAs(t, svc.MarkPresent(ctx, studentID, svc.Today(), "   "), &verr)
	require.Equal(t, "name", verr.Field)

	require.ErrorAs(t, svc.MarkPresent(ctx, studentID, "", "Alice"), &verr)
	require.Equal(t, "date", verr.Field)
}

func TestMarkWithoutSession(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	err := svc.MarkPresent(context.Background(), studentID, "2026-03-09", "Alice")
	require.ErrorIs(t, err, attendance.ErrSessionNotOpen)
}

func TestReopenClearsRoster(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Open(ctx, teacherID, time.Minute))
	require.NoError(t, svc.MarkPresent(ctx, studentID, svc.Today(), "Alice"))

	require.NoError(t, svc.Open(ctx, teacherID, time.Minute))
	roster, err := svc.Roster(ctx, svc.Today())
	require.NoError(t, err)
	require.Empty(t, roster)

	snap, err := svc.Status(ctx)
	require.NoError(t, err)
	require.True(t, snap.Open)
}

func TestStatusClosesExpiredSession(t *testing.T) {
	svc, store, clock := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Open(ctx, teacherID, 2*time.Second))
	date := svc.Today()
	clock.Advance(3 * time.Second)

	snap, err := svc.Status(ctx)
	require.NoError(t, err)
	require.False(t, snap.Open)
	require.Equal(t, models.SessionClosed, snap.Status)

	sess, ok, err := store.GetSession(ctx, date)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, models.SessionClosed, sess.Status)
}

func TestWatchStatusDeliversAndCancels(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	var mu sync.Mutex
	var got []attendance.Snapshot
	cancel, err := svc.WatchStatus(ctx, func(snap attendance.Snapshot) {
		mu.Lock()
		got = append(got, snap)
		mu.Unlock()
	})
	require.NoError(t, err)

	mu.Lock()
	require.Len(t, got, 1) // immediate snapshot on subscribe
	require.False(t, got[0].Open)
	mu.Unlock()

	require.NoError(t, svc.Open(ctx, teacherID, time.Minute))
	mu.Lock()
	require.Len(t, got, 2)
	require.True(t, got[1].Open)
	require.Equal(t, time.Minute, got[1].Remaining)
	mu.Unlock()

	cancel()
	require.NoError(t, svc.Close(ctx))
	mu.Lock()
	require.Len(t, got, 2) // nothing delivered after cancel
	mu.Unlock()
}

func TestWatchRosterSeesEveryMark(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Open(ctx, teacherID, time.Minute))
	date := svc.Today()

	var mu sync.Mutex
	var got [][]string
	cancel, err := svc.WatchRoster(ctx, date, func(_ string, students []string) {
		mu.Lock()
		got = append(got, students)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, svc.MarkPresent(ctx, studentID, date, "Alice"))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, got)
	require.Equal(t, []string{}, got[0]) // initial empty roster
	require.Equal(t, []string{"Alice"}, got[len(got)-1])
}

func TestRemoteFailuresAreWrapped(t *testing.T) {
	svc, store, _ := newTestService(t, nil)
	ctx := context.Background()

	store.SetError(io.ErrUnexpectedEOF)
	require.ErrorIs(t, svc.Open(ctx, teacherID, time.Minute), attendance.ErrRemoteUnavailable)

	store.SetError(nil)
	require.NoError(t, svc.Open(ctx, teacherID, time.Minute))

	store.SetError(io.ErrUnexpectedEOF)
	require.ErrorIs(t, svc.MarkPresent(ctx, studentID, svc.Today(), "Alice"), attendance.ErrRemoteUnavailable)
	_, err := svc.Status(ctx)
	require.ErrorIs(t, err, attendance.ErrRemoteUnavailable)
}
