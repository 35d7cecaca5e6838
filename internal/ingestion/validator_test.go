package ingestion

import (
	"strings"
	"testing"

	"github.com/flowlogic/ingest/internal/domain"
	"github.com/flowlogic/ingest/internal/schema"
)

func canonicalRecord(row int, fields map[string]any) domain.CanonicalRecord {
	if fields == nil {
		fields = map[string]any{}
	}
	return domain.CanonicalRecord{Row: row, Fields: fields, Extra: map[string]string{}}
}

func TestValidateRejectsMissingRequiredFields(t *testing.T) {
	validator := NewValidator(schema.NewRegistry())

	records := []domain.CanonicalRecord{
		canonicalRecord(1, map[string]any{"sku": "A1", "locationCode": "B-02", "quantityOnHand": "5"}),
		canonicalRecord(2, map[string]any{"locationCode": "B-03", "quantityOnHand": "7"}),
		canonicalRecord(3, map[string]any{"sku": "A3", "locationCode": "B-04", "quantityOnHand": "9"}),
	}

	valid, errs := validator.Validate(records, domain.DataTypeInventorySnapshot)
	if len(valid) != 2 {
		t.Fatalf("expected 2 valid records, got %d", len(valid))
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 validation error, got %d", len(errs))
	}
	if errs[0].Row != 2 {
		t.Fatalf("expected error to keep original row number 2, got %d", errs[0].Row)
	}
	if !strings.Contains(errs[0].Message, "sku") {
		t.Fatalf("expected message to name the missing field, got %q", errs[0].Message)
	}
}

func TestValidateMessageListsAllMissingFields(t *testing.T) {
	validator := NewValidator(schema.NewRegistry())

	_, errs := validator.Validate(
		[]domain.CanonicalRecord{canonicalRecord(1, nil)},
		domain.DataTypeInventorySnapshot,
	)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Message != "Missing required fields: sku, locationCode, quantityOnHand" {
		t.Fatalf("unexpected message: %q", errs[0].Message)
	}
}

func TestValidateCoercesNumericFields(t *testing.T) {
	validator := NewValidator(schema.NewRegistry())

	valid, errs := validator.Validate(
		[]domain.CanonicalRecord{
			canonicalRecord(1, map[string]any{"sku": "A1", "locationCode": "B-02", "quantityOnHand": "48", "quantityAllocated": "8"}),
		},
		domain.DataTypeInventorySnapshot,
	)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if valid[0].Fields["quantityOnHand"] != 48.0 {
		t.Fatalf("expected quantityOnHand coerced to 48, got %v", valid[0].Fields["quantityOnHand"])
	}
	if valid[0].Fields["quantityAllocated"] != 8.0 {
		t.Fatalf("expected quantityAllocated coerced to 8, got %v", valid[0].Fields["quantityAllocated"])
	}
}

func TestValidateMalformedNumberBecomesZero(t *testing.T) {
	validator := NewValidator(schema.NewRegistry())

	valid, errs := validator.Validate(
		[]domain.CanonicalRecord{
			canonicalRecord(1, map[string]any{"sku": "A1", "locationCode": "B-02", "quantityOnHand": "abc"}),
		},
		domain.DataTypeInventorySnapshot,
	)
	if len(errs) != 0 {
		t.Fatalf("malformed number must not reject the record, got %v", errs)
	}
	if valid[0].Fields["quantityOnHand"] != 0.0 {
		t.Fatalf("expected silent zero, got %v", valid[0].Fields["quantityOnHand"])
	}
}

func TestValidateCoercesNumericPassThroughColumns(t *testing.T) {
	validator := NewValidator(schema.NewRegistry())

	record := canonicalRecord(1, map[string]any{"sku": "A1", "locationCode": "B-02", "countedQty": "90"})
	record.Extra["systemQty"] = "100"

	valid, errs := validator.Validate([]domain.CanonicalRecord{record}, domain.DataTypeCycleCountResults)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if valid[0].Fields["systemQty"] != 100.0 {
		t.Fatalf("expected pass-through numeric coerced into fields, got %v", valid[0].Fields)
	}
	if _, ok := valid[0].Extra["systemQty"]; ok {
		t.Fatalf("expected coerced column removed from extras")
	}
}

func TestValidateUnmodeledTypeHasNoRequiredFields(t *testing.T) {
	validator := NewValidator(schema.NewRegistry())

	valid, errs := validator.Validate(
		[]domain.CanonicalRecord{canonicalRecord(1, map[string]any{"anything": "goes"})},
		domain.DataTypeOrderHistory,
	)
	if len(errs) != 0 || len(valid) != 1 {
		t.Fatalf("expected order history records accepted as-is, got valid=%d errs=%d", len(valid), len(errs))
	}
}
