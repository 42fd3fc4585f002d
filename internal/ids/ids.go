package ids

import (
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// New returns a time-sortable identifier for internal records.
func New() string {
	return ksuid.New().String()
}

// NewExternal returns the identifier exposed to API clients.
func NewExternal() string {
	return uuid.NewString()
}
