package ingestion

import (
	"github.com/flowlogic/ingest/internal/domain"
	"github.com/flowlogic/ingest/internal/schema"
)

// Mapper rewrites raw record keys into canonical field names using the
// mapping registry. It is pure: no I/O, no shared state.
type Mapper struct {
	registry *schema.Registry
}

// NewMapper builds a mapper over the given registry.
func NewMapper(registry *schema.Registry) *Mapper {
	return &Mapper{registry: registry}
}

// Map resolves the column mapping for (sourceSystem, dataType) — falling
// back to the generic mapping, then to pure pass-through — and applies it to
// every record. Columns that are not mapping keys are retained under their
// original names in the Extra side of the record, so no column is ever
// dropped.
func (m *Mapper) Map(records []domain.RawRecord, sourceSystem string, dataType domain.DataType) []domain.CanonicalRecord {
	mapping := m.registry.Mapping(sourceSystem, dataType)

	canonical := make([]domain.CanonicalRecord, 0, len(records))
	for _, record := range records {
		mapped := domain.CanonicalRecord{
			Row:    record.Row,
			Fields: make(map[string]any),
			Extra:  make(map[string]string),
		}

		// Mapped assignments first, in mapping order, so they always win
		// over pass-through columns with colliding names.
		for _, entry := range mapping {
			if value, ok := record.Values[entry.Source]; ok {
				if _, taken := mapped.Fields[entry.Target]; taken {
					continue
				}
				mapped.Fields[entry.Target] = value
			}
		}

		for _, column := range record.Columns {
			if mapping.HasSource(column) {
				continue
			}
			mapped.Extra[column] = record.Values[column]
		}

		canonical = append(canonical, mapped)
	}

	return canonical
}
