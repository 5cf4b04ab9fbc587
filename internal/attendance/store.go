package attendance

import (
	"context"

	"github.com/ifrasafa/docree-project/internal/models"
)

// Store is the document-store contract the session service runs against.
// Sessions are keyed by date string (YYYY-MM-DD); a singleton "current"
// pointer document mirrors the active day's session. The store must provide
// per-document last-writer-wins semantics; the student set may only be grown
// through AddStudent so that concurrent marks never overwrite each other.
type Store interface {
	GetCurrent(ctx context.Context) (models.AttendanceSession, bool, error)
	GetSession(ctx context.Context, date string) (models.AttendanceSession, bool, error)

	// PutCurrent and PutSession replace the respective document wholesale.
	PutCurrent(ctx context.Context, s models.AttendanceSession) error
	PutSession(ctx context.Context, s models.AttendanceSession) error

	// SetSessionStatus merges only the status field into the per-date
	// document. A missing document is a no-op, not an error.
	SetSessionStatus(ctx context.Context, date, status string) error

	// SetCurrentStatus merges the status field into the pointer document,
	// but only while the pointer still mirrors the given date.
	SetCurrentStatus(ctx context.Context, date, status string) error

	// AddStudent adds a name to the per-date document's student set as a
	// union write, never a read-modify-write of the whole array. Adding a
	// name that is already present is a no-op.
	AddStudent(ctx context.Context, date, name string) error
}
