package ingestion

import (
	"testing"

	"github.com/flowlogic/ingest/internal/domain"
	"github.com/flowlogic/ingest/internal/schema"
)

func rawRecord(row int, pairs ...string) domain.RawRecord {
	record := domain.RawRecord{Row: row, Values: map[string]string{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		record.Columns = append(record.Columns, pairs[i])
		record.Values[pairs[i]] = pairs[i+1]
	}
	return record
}

func TestMapperManhattanInventory(t *testing.T) {
	mapper := NewMapper(schema.NewRegistry())

	records := mapper.Map(
		[]domain.RawRecord{rawRecord(1, "SKU", "287561", "Location ID", "SA1474A", "On Hand Qty", "48")},
		"manhattan",
		domain.DataTypeInventorySnapshot,
	)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.Fields["sku"] != "287561" {
		t.Fatalf("expected sku 287561, got %v", got.Fields["sku"])
	}
	if got.Fields["locationCode"] != "SA1474A" {
		t.Fatalf("expected locationCode SA1474A, got %v", got.Fields["locationCode"])
	}
	if got.Fields["quantityOnHand"] != "48" {
		t.Fatalf("expected quantityOnHand 48, got %v", got.Fields["quantityOnHand"])
	}
	if len(got.Extra) != 0 {
		t.Fatalf("expected no pass-through columns, got %v", got.Extra)
	}
}

func TestMapperRetainsUnmappedColumns(t *testing.T) {
	mapper := NewMapper(schema.NewRegistry())

	records := mapper.Map(
		[]domain.RawRecord{rawRecord(1, "SKU", "287561", "Location ID", "SA1474A", "On Hand Qty", "48", "Warehouse Zone", "EAST")},
		"manhattan",
		domain.DataTypeInventorySnapshot,
	)

	got := records[0]
	if got.Extra["Warehouse Zone"] != "EAST" {
		t.Fatalf("expected unmapped column carried forward, got %v", got.Extra)
	}

	// Mapping completeness: every source column survives under its mapped
	// or original name.
	payload := got.Payload()
	for _, field := range []string{"sku", "locationCode", "quantityOnHand", "Warehouse Zone"} {
		if _, ok := payload[field]; !ok {
			t.Fatalf("column %s dropped from payload: %v", field, payload)
		}
	}
}

func TestMapperUnknownSourceFallsBackToGeneric(t *testing.T) {
	mapper := NewMapper(schema.NewRegistry())

	records := mapper.Map(
		[]domain.RawRecord{rawRecord(1, "sku", "A1", "location", "B-02", "quantity", "7")},
		"oracle-wms",
		domain.DataTypeInventorySnapshot,
	)

	got := records[0]
	if got.Fields["locationCode"] != "B-02" {
		t.Fatalf("expected generic mapping applied, got %+v", got.Fields)
	}
	if got.Fields["quantityOnHand"] != "7" {
		t.Fatalf("expected quantity mapped to quantityOnHand, got %+v", got.Fields)
	}
}

func TestMapperNoMappingIsPassThrough(t *testing.T) {
	mapper := NewMapper(schema.NewRegistry())

	records := mapper.Map(
		[]domain.RawRecord{rawRecord(1, "locationCode", "B-02", "zone", "EAST")},
		"oracle-wms",
		domain.DataTypeLocationMaster,
	)

	got := records[0]
	if len(got.Fields) != 0 {
		t.Fatalf("expected no mapped fields, got %v", got.Fields)
	}
	if got.Extra["locationCode"] != "B-02" || got.Extra["zone"] != "EAST" {
		t.Fatalf("expected pure pass-through, got %v", got.Extra)
	}
}

func TestMapperMappedFieldWinsCollision(t *testing.T) {
	registry := schema.NewRegistry()
	mapper := NewMapper(registry)

	// "quantity" maps onto quantityOnHand; the file also carries a literal
	// "quantityOnHand" column that is not a mapping key.
	records := mapper.Map(
		[]domain.RawRecord{rawRecord(1, "sku", "A1", "location", "B-02", "quantity", "7", "quantityOnHand", "999")},
		domain.SourceSystemGeneric,
		domain.DataTypeInventorySnapshot,
	)

	got := records[0]
	if got.Fields["quantityOnHand"] != "7" {
		t.Fatalf("expected mapped assignment to win, got %v", got.Fields["quantityOnHand"])
	}
	if got.Extra["quantityOnHand"] != "999" {
		t.Fatalf("expected colliding column retained in extras, got %v", got.Extra)
	}
	if got.Payload()["quantityOnHand"] != "7" {
		t.Fatalf("expected mapped value to win in payload")
	}
}
