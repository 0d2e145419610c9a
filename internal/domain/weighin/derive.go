package weighin

import (
	"fmt"
	"math"

	"github.com/yanqian/celestial-scale/internal/domain/bodies"
)

const daysPerYear = 365.0

// Beyond this magnitude a float64 has no fractional cents left to round.
const roundingLimit = 1e15

// Table is the read side of the metrics table.
type Table interface {
	AllBodies() []bodies.BodyRecord
}

// DeriveAll computes one result per body, in table order.
func DeriveAll(in ValidatedInput, table Table) []DerivedResult {
	all := table.AllBodies()
	out := make([]DerivedResult, 0, len(all))
	for _, body := range all {
		out = append(out, derive(in, body))
	}
	return out
}

// DeriveChecked derives like DeriveAll but rejects a submission whose numbers
// do not fit in a float64 on some body. The reasons name the first body that
// overflowed for each field.
func DeriveChecked(in ValidatedInput, table Table) ([]DerivedResult, error) {
	results := DeriveAll(in, table)
	verr := &ValidationError{}
	for _, res := range results {
		if !finite(res.RelativeWeight) && !verr.Has(FieldWeight) {
			verr.Reasons = append(verr.Reasons, FieldError{
				Field:  FieldWeight,
				Reason: fmt.Sprintf("weight is too large to compute on %s", res.BodyID),
			})
		}
		if res.RelativeAge.Applicable && !finite(res.RelativeAge.Value) && !verr.Has(FieldAge) {
			verr.Reasons = append(verr.Reasons, FieldError{
				Field:  FieldAge,
				Reason: fmt.Sprintf("age is too large to compute on %s", res.BodyID),
			})
		}
	}
	if len(verr.Reasons) > 0 {
		return nil, verr
	}
	return results, nil
}

func derive(in ValidatedInput, body bodies.BodyRecord) DerivedResult {
	res := DerivedResult{
		BodyID:         body.ID,
		RelativeWeight: round2(in.Weight * body.GravityFactor),
		RelativeAge:    NotApplicable,
	}
	if body.YearLengthDays != nil {
		days := *body.YearLengthDays
		if days > 0 && !math.IsInf(days, 0) && !math.IsNaN(days) {
			res.RelativeAge = Applicable(round2(in.Age * daysPerYear / days))
		}
	}
	return res
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.Abs(v) >= roundingLimit {
		return v
	}
	return math.Round(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
