package bodies

import (
	"context"
	"io"
)

// BodyRecord is one row of the metrics table.
type BodyRecord struct {
	ID             string   `json:"id"`
	GravityFactor  float64  `json:"gravityFactor"`
	YearLengthDays *float64 `json:"yearLengthDays"`
	Gravity        string   `json:"gravity"`
	Surface        string   `json:"surface"`
	Temperature    string   `json:"temperature"`
	DayLength      string   `json:"dayLength"`
	YearLength     string   `json:"yearLength"`
	FunFacts       string   `json:"funFacts"`
	ImageKey       string   `json:"imageKey"`
}

// HasYear reports whether the body has a usable orbital year.
func (b BodyRecord) HasYear() bool {
	return b.YearLengthDays != nil && *b.YearLengthDays > 0
}

// Source loads catalog rows from an external store.
type Source interface {
	LoadBodies(ctx context.Context) ([]BodyRecord, error)
}

// Image is a stored body image.
type Image struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ImageStore serves carousel imagery by object key.
type ImageStore interface {
	Get(ctx context.Context, key string) (Image, error)
}
