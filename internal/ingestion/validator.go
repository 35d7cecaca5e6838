package ingestion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flowlogic/ingest/internal/domain"
	"github.com/flowlogic/ingest/internal/schema"
)

// numericFields are coerced from string to float64 when present on a record.
// A failed or empty parse becomes 0 rather than a rejection: quantity
// columns from WMS exports are routinely blank or garbled and zeroing them
// is the documented leniency policy, distinct from required-field rejection.
var numericFields = []string{
	"quantityOnHand",
	"quantityAllocated",
	"quantityAvailable",
	"quantity",
	"countedQty",
	"systemQty",
	"adjustmentQty",
}

// Validator checks required fields per data type and normalizes numeric
// values in place.
type Validator struct {
	registry *schema.Registry
}

// NewValidator builds a validator over the given registry.
func NewValidator(registry *schema.Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate splits records into valid and rejected. Records missing any
// required field are excluded and produce one ValidationError carrying the
// record's original 1-based row number; surviving records get their numeric
// fields coerced.
func (v *Validator) Validate(records []domain.CanonicalRecord, dataType domain.DataType) ([]domain.CanonicalRecord, []domain.ValidationError) {
	required := v.registry.RequiredFields(dataType)

	valid := make([]domain.CanonicalRecord, 0, len(records))
	var errs []domain.ValidationError

	for _, record := range records {
		var missing []string
		for _, field := range required {
			if strings.TrimSpace(record.GetString(field)) == "" {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			errs = append(errs, domain.ValidationError{
				Row:     record.Row,
				Message: fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
			})
			continue
		}

		coerceNumericFields(record)
		valid = append(valid, record)
	}

	return valid, errs
}

func coerceNumericFields(record domain.CanonicalRecord) {
	for _, field := range numericFields {
		raw, ok := record.Fields[field]
		fromExtra := false
		if !ok {
			var extraVal string
			if extraVal, ok = record.Extra[field]; ok {
				raw = extraVal
				fromExtra = true
			}
		}
		if !ok {
			continue
		}

		text, isString := raw.(string)
		if !isString {
			continue
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			value = 0
		}

		if fromExtra {
			delete(record.Extra, field)
		}
		record.Fields[field] = value
	}
}
