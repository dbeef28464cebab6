package diagram

import "github.com/google/uuid"

// NewID returns a process-unique string id. Ids are opaque and freely
// regenerable; import remaps relationship endpoints through fresh ids.
func NewID() string {
	return uuid.NewString()
}
