// Package roles resolves an authenticated identity to its classroom role.
package roles

import "context"

type Role string

const (
	Teacher Role = "teacher"
	Student Role = "student"
	Parent  Role = "parent"
	None    Role = ""
)

// Directory looks up the role for an opaque identity handle (the JWT
// subject). Role changes take effect on the next lookup, not retroactively.
type Directory interface {
	Lookup(ctx context.Context, subject string) (Role, error)
}
