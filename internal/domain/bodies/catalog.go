package bodies

import (
	"fmt"
	"math"
	"strings"
)

// Catalog is the immutable, ordered metrics table.
type Catalog struct {
	records []BodyRecord
	index   map[string]int
}

// NewCatalog validates records and freezes them in the given order.
func NewCatalog(records []BodyRecord) (*Catalog, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		records: make([]BodyRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for i, rec := range records {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			return nil, fmt.Errorf("body at position %d has an empty id", i)
		}
		if _, dup := c.index[id]; dup {
			return nil, fmt.Errorf("duplicate body id %q", id)
		}
		if !(rec.GravityFactor > 0) || math.IsInf(rec.GravityFactor, 0) {
			return nil, fmt.Errorf("body %q: gravity factor must be a positive number, got %v", id, rec.GravityFactor)
		}
		rec.ID = id
		rec.YearLengthDays = sanitizeYear(rec.YearLengthDays)
		c.index[id] = len(c.records)
		c.records = append(c.records, rec)
	}
	return c, nil
}

// AllBodies returns the table rows in their fixed order.
func (c *Catalog) AllBodies() []BodyRecord {
	out := make([]BodyRecord, len(c.records))
	for i, rec := range c.records {
		out[i] = cloneRecord(rec)
	}
	return out
}

// Lookup finds a body by id.
func (c *Catalog) Lookup(id string) (BodyRecord, error) {
	pos, ok := c.index[strings.TrimSpace(id)]
	if !ok {
		return BodyRecord{}, &NotFoundError{ID: id}
	}
	return cloneRecord(c.records[pos]), nil
}

// Len returns the number of bodies.
func (c *Catalog) Len() int {
	return len(c.records)
}

// sanitizeYear drops year lengths that are not positive finite numbers.
func sanitizeYear(days *float64) *float64 {
	if days == nil {
		return nil
	}
	v := *days
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return nil
	}
	return &v
}

func cloneRecord(rec BodyRecord) BodyRecord {
	if rec.YearLengthDays != nil {
		v := *rec.YearLengthDays
		rec.YearLengthDays = &v
	}
	return rec
}
