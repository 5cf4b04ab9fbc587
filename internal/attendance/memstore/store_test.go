package memstore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ifrasafa/docree-project/internal/attendance/memstore"
	"github.com/ifrasafa/docree-project/internal/models"
)

func TestAddStudentIsUnion(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	sess := models.AttendanceSession{
		Date:    "2026-03-09",
		Status:  models.SessionOpen,
		EndTime: time.Now().Add(time.Minute),
	}
	require.NoError(t, st.PutSession(ctx, sess))

	require.NoError(t, st.AddStudent(ctx, "2026-03-09", "Alice"))
	require.NoError(t, st.AddStudent(ctx, "2026-03-09", "Alice"))
	require.NoError(t, st.AddStudent(ctx, "2026-03-09", "Bob"))

	got, ok, err := st.GetSession(ctx, "2026-03-09")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"Alice", "Bob"}, got.Students)
}

func TestConcurrentAddStudent(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	require.NoError(t, st.PutSession(ctx, models.AttendanceSession{
		Date:   "2026-03-09",
		Status: models.SessionOpen,
	}))

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = st.AddStudent(ctx, "2026-03-09", fmt.Sprintf("Student %d", i))
		}(i)
	}
	wg.Wait()

	got, _, err := st.GetSession(ctx, "2026-03-09")
	require.NoError(t, err)
	require.Len(t, got.Students, n)
}

func TestSetCurrentStatusGuardsDate(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	require.NoError(t, st.PutCurrent(ctx, models.AttendanceSession{
		Date:   "2026-03-10",
		Status: models.SessionOpen,
	}))

	// a stale close for yesterday must not touch today's pointer
	require.NoError(t, st.SetCurrentStatus(ctx, "2026-03-09", models.SessionClosed))
	cur, ok, err := st.GetCurrent(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, models.SessionOpen, cur.Status)

	require.NoError(t, st.SetCurrentStatus(ctx, "2026-03-10", models.SessionClosed))
	cur, _, err = st.GetCurrent(ctx)
	require.NoError(t, err)
	require.Equal(t, models.SessionClosed, cur.Status)
}

func TestGetReturnsCopies(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()

	require.NoError(t, st.PutSession(ctx, models.AttendanceSession{
		Date:     "2026-03-09",
		Status:   models.SessionOpen,
		Students: []string{"Alice"},
	}))

	got, _, err := st.GetSession(ctx, "2026-03-09")
	require.NoError(t, err)
	got.Students[0] = "Mallory"

	again, _, err := st.GetSession(ctx, "2026-03-09")
	require.NoError(t, err)
	require.Equal(t, []string{"Alice"}, again.Students)
}
