package bodies

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog is returned when a catalog would hold no bodies.
var ErrEmptyCatalog = errors.New("catalog must contain at least one body")

// ErrImageNotFound is returned by image stores for unknown keys.
var ErrImageNotFound = errors.New("image not found")

// NotFoundError reports a lookup for an id the catalog does not hold.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("body %q not found", e.ID)
}
