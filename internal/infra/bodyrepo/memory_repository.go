package bodyrepo

import (
	"context"

	"github.com/yanqian/celestial-scale/internal/domain/bodies"
)

// MemoryRepository serves a fixed set of records, the built-in table by default.
type MemoryRepository struct {
	records []bodies.BodyRecord
}

// NewMemoryRepository constructs a repo over the given records. With no
// records it serves bodies.DefaultRecords.
func NewMemoryRepository(records ...bodies.BodyRecord) *MemoryRepository {
	if len(records) == 0 {
		records = bodies.DefaultRecords()
	}
	return &MemoryRepository{records: append([]bodies.BodyRecord(nil), records...)}
}

// LoadBodies implements bodies.Source.
func (r *MemoryRepository) LoadBodies(_ context.Context) ([]bodies.BodyRecord, error) {
	return append([]bodies.BodyRecord(nil), r.records...), nil
}

var _ bodies.Source = (*MemoryRepository)(nil)
