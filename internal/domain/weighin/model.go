package weighin

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/celestial-scale/internal/domain/bodies"
)

// ValidatedInput is a submission that passed ValidateInput.
type ValidatedInput struct {
	Name   string  `json:"name"`
	Age    float64 `json:"age"`
	Weight float64 `json:"weight"`
}

// Metric is a derived number that may be undefined for a body.
type Metric struct {
	Value      float64
	Applicable bool
}

// NotApplicable marks a metric that has no meaning for a body.
var NotApplicable = Metric{}

// Applicable wraps a defined value.
func Applicable(v float64) Metric {
	return Metric{Value: v, Applicable: true}
}

// String renders the value with two decimals, or "-" when not applicable.
func (m Metric) String() string {
	if !m.Applicable {
		return "-"
	}
	return strconv.FormatFloat(m.Value, 'f', 2, 64)
}

// MarshalJSON encodes the metric as a two-decimal number or null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Applicable {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(m.Value, 'f', 2, 64)), nil
}

// UnmarshalJSON accepts a number or null.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = NotApplicable
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Applicable(v)
	return nil
}

// DerivedResult holds the computed numbers for one body.
type DerivedResult struct {
	BodyID         string  `json:"bodyId"`
	RelativeWeight float64 `json:"relativeWeight"`
	RelativeAge    Metric  `json:"relativeAge"`
}

// WeightText renders the relative weight with two decimals.
func (r DerivedResult) WeightText() string {
	return strconv.FormatFloat(r.RelativeWeight, 'f', 2, 64)
}

// NumericText carries a number typed by the visitor. JSON clients may send
// either a number or a string.
type NumericText string

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumericText) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*n = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*n = NumericText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return err
	}
	*n = NumericText(num.String())
	return nil
}

// SubmitRequest is the raw form or API payload.
type SubmitRequest struct {
	Name   string      `json:"name" form:"name"`
	Age    NumericText `json:"age" form:"age"`
	Weight NumericText `json:"weight" form:"weight"`
}

// Slide pairs a body's descriptive record with the visitor's numbers.
type Slide struct {
	Body   bodies.BodyRecord `json:"body"`
	Result DerivedResult     `json:"result"`
}

// View is what the presentation layer renders after every transition.
type View struct {
	Name    string `json:"name"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Visible bool   `json:"visible"`
	Slide   *Slide `json:"slide,omitempty"`
}

// Preview is a stateless rendering of every slide.
type Preview struct {
	Name   string  `json:"name"`
	Slides []Slide `json:"slides"`
}

// Session is the per-visitor state held between requests.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Carousel  Carousel  `json:"carousel"`
	Visible   bool      `json:"visible"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func cleanName(name string) string {
	return strings.TrimSpace(name)
}
