package roles

import "context"

// StaticDirectory is a fixed subject-to-role map, used in tests and local
// development without a users collection.
type StaticDirectory map[string]Role

func (d StaticDirectory) Lookup(_ context.Context, subject string) (Role, error) {
	return d[subject], nil
}
