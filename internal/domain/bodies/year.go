package bodies

import (
	"math"
	"strconv"
	"strings"
)

const daysPerEarthYear = 365.0

// ParseYearLength converts descriptive year text into a length in Earth days.
// Text marked "not applicable" or without a leading positive number yields nil.
func ParseYearLength(text string) *float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.Contains(strings.ToLower(trimmed), "not applicable") {
		return nil
	}
	fields := strings.Fields(trimmed)
	value, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", ""), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return nil
	}
	unit := ""
	if len(fields) > 1 {
		unit = strings.ToLower(fields[len(fields)-1])
	}
	if strings.HasPrefix(unit, "year") {
		value *= daysPerEarthYear
	}
	return &value
}

// Days is a helper for building literal tables.
func Days(v float64) *float64 {
	return &v
}
