package weighin

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyResultSet is returned when a carousel is loaded with no items.
	ErrEmptyResultSet = errors.New("carousel cannot be loaded with an empty result set")
	// ErrEmptyState is returned when the current slide is requested before any load.
	ErrEmptyState = errors.New("carousel has no results loaded")
)

// Field names a form input.
type Field string

const (
	FieldName   Field = "name"
	FieldAge    Field = "age"
	FieldWeight Field = "weight"
)

// FieldError describes why one field was rejected.
type FieldError struct {
	Field  Field  `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError batches every rejected field of a submission.
type ValidationError struct {
	Reasons []FieldError `json:"reasons"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Reasons))
	for _, r := range e.Reasons {
		parts = append(parts, r.Reason)
	}
	return "please enter all fields correctly: " + strings.Join(parts, "; ")
}

// Has reports whether the given field was rejected.
func (e *ValidationError) Has(field Field) bool {
	for _, r := range e.Reasons {
		if r.Field == field {
			return true
		}
	}
	return false
}
