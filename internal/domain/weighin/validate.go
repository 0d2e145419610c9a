package weighin

import (
	"math"
	"strconv"
	"strings"
)

// MaxAge is the oldest accepted age in years.
const MaxAge = 120.0

const (
	reasonName        = "name is required"
	reasonAgeNumeric  = "age must be a number"
	reasonAgeRange    = "age must be greater than 0 and at most 120"
	reasonWeightNum   = "weight must be a number"
	reasonWeightRange = "weight must be greater than 0"
)

// ParseInput converts form text to numbers and validates the result.
// Text that is not a finite number is reported as non-numeric.
func ParseInput(name, ageText, weightText string) (ValidatedInput, error) {
	return ValidateInput(name, parseNumber(ageText), parseNumber(weightText))
}

// ValidateInput checks an already-numeric submission.
func ValidateInput(name string, age, weight float64) (ValidatedInput, error) {
	verr := &ValidationError{}
	if cleanName(name) == "" {
		verr.Reasons = append(verr.Reasons, FieldError{Field: FieldName, Reason: reasonName})
	}
	if math.IsNaN(age) || math.IsInf(age, 0) {
		verr.Reasons = append(verr.Reasons, FieldError{Field: FieldAge, Reason: reasonAgeNumeric})
	} else if !validAge(age) {
		verr.Reasons = append(verr.Reasons, FieldError{Field: FieldAge, Reason: reasonAgeRange})
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		verr.Reasons = append(verr.Reasons, FieldError{Field: FieldWeight, Reason: reasonWeightNum})
	} else if !validWeight(weight) {
		verr.Reasons = append(verr.Reasons, FieldError{Field: FieldWeight, Reason: reasonWeightRange})
	}
	if len(verr.Reasons) > 0 {
		return ValidatedInput{}, verr
	}
	return ValidatedInput{Name: cleanName(name), Age: age, Weight: weight}, nil
}

func parseNumber(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func validAge(age float64) bool {
	return age > 0 && age <= MaxAge
}

func validWeight(weight float64) bool {
	return weight > 0
}
