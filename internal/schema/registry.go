// Package schema holds the static configuration consulted by the mapper and
// validator: the required canonical fields per data type and the column
// rename tables per source system. Registries carry no runtime state.
package schema

import "github.com/flowlogic/ingest/internal/domain"

// Registry resolves required field sets and column mappings. It is built
// once at startup and injected into the pipeline, so deployments can layer
// their own mappings on top of the built-in WMS templates.
type Registry struct {
	required map[domain.DataType][]string
	mappings map[string]map[domain.DataType]domain.ColumnMapping
}

// NewRegistry returns a registry preloaded with the built-in required field
// sets and the Manhattan/SAP/generic mapping templates.
func NewRegistry() *Registry {
	return &Registry{
		required: defaultRequiredFields(),
		mappings: defaultColumnMappings(),
	}
}

// RequiredFields returns the canonical fields that must be non-empty for a
// record of the given type to be valid. Types without a modeled schema
// (order history, labor log) have none.
func (r *Registry) RequiredFields(dataType domain.DataType) []string {
	return r.required[dataType]
}

// Mapping resolves the column mapping for (sourceSystem, dataType). Unknown
// sources fall back to the generic mapping for the data type; when that is
// missing too the result is nil, which the mapper treats as a pure
// pass-through.
func (r *Registry) Mapping(sourceSystem string, dataType domain.DataType) domain.ColumnMapping {
	if bySource, ok := r.mappings[sourceSystem]; ok {
		if mapping, ok := bySource[dataType]; ok {
			return mapping
		}
	}
	if sourceSystem != domain.SourceSystemGeneric {
		return r.Mapping(domain.SourceSystemGeneric, dataType)
	}
	return nil
}

// RegisterMapping installs or replaces the mapping for one
// (sourceSystem, dataType) pair. Used for per-deployment overrides.
func (r *Registry) RegisterMapping(sourceSystem string, dataType domain.DataType, mapping domain.ColumnMapping) {
	bySource, ok := r.mappings[sourceSystem]
	if !ok {
		bySource = make(map[domain.DataType]domain.ColumnMapping)
		r.mappings[sourceSystem] = bySource
	}
	bySource[dataType] = mapping
}

// Mappings exposes the full rename table for the introspection endpoint.
func (r *Registry) Mappings() map[string]map[domain.DataType]domain.ColumnMapping {
	return r.mappings
}

func defaultRequiredFields() map[domain.DataType][]string {
	return map[domain.DataType][]string{
		domain.DataTypeInventorySnapshot:  {"sku", "locationCode", "quantityOnHand"},
		domain.DataTypeTransactionHistory: {"type", "sku", "quantity", "transactionDate"},
		domain.DataTypeAdjustmentLog:      {"sku", "locationCode", "adjustmentQty", "reason"},
		domain.DataTypeCycleCountResults:  {"sku", "locationCode", "countedQty", "systemQty"},
		domain.DataTypeLocationMaster:     {"locationCode", "zone"},
		domain.DataTypeSKUMaster:          {"sku", "description"},
	}
}

// defaultColumnMappings holds the rename templates for common WMS exports.
// Lookups are exact-match and case-sensitive.
func defaultColumnMappings() map[string]map[domain.DataType]domain.ColumnMapping {
	return map[string]map[domain.DataType]domain.ColumnMapping{
		"manhattan": {
			domain.DataTypeInventorySnapshot: {
				{Source: "SKU", Target: "sku"},
				{Source: "Location ID", Target: "locationCode"},
				{Source: "On Hand Qty", Target: "quantityOnHand"},
				{Source: "Allocated Qty", Target: "quantityAllocated"},
				{Source: "Available Qty", Target: "quantityAvailable"},
				{Source: "Lot Number", Target: "lotNumber"},
				{Source: "Expiration Date", Target: "expirationDate"},
			},
			domain.DataTypeTransactionHistory: {
				{Source: "Transaction ID", Target: "transactionId"},
				{Source: "Transaction Type", Target: "type"},
				{Source: "SKU", Target: "sku"},
				{Source: "From Location", Target: "fromLocation"},
				{Source: "To Location", Target: "toLocation"},
				{Source: "Quantity", Target: "quantity"},
				{Source: "User ID", Target: "userId"},
				{Source: "Transaction Date", Target: "transactionDate"},
			},
		},
		"sap": {
			domain.DataTypeInventorySnapshot: {
				{Source: "MATNR", Target: "sku"},
				{Source: "LGPLA", Target: "locationCode"},
				{Source: "VERME", Target: "quantityOnHand"},
				{Source: "EINME", Target: "quantityAllocated"},
				{Source: "CHARG", Target: "lotNumber"},
				{Source: "VFDAT", Target: "expirationDate"},
			},
		},
		domain.SourceSystemGeneric: {
			domain.DataTypeInventorySnapshot: {
				{Source: "sku", Target: "sku"},
				{Source: "location", Target: "locationCode"},
				{Source: "quantity", Target: "quantityOnHand"},
				{Source: "allocated", Target: "quantityAllocated"},
				{Source: "available", Target: "quantityAvailable"},
				{Source: "lot", Target: "lotNumber"},
			},
		},
	}
}
