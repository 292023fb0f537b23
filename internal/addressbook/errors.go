package addressbook

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound means the contact or category is absent or not owned by the caller.
	// The two cases are indistinguishable on purpose.
	ErrNotFound = errors.New("record not found")

	// ErrConflict means the targeted row changed since it was read.
	ErrConflict = errors.New("record changed by another update")
)

// ValidationError carries per-field messages back to the caller for correction.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}
