package domain

// DataType tags which canonical schema a payload is mapped into.
type DataType string

const (
	DataTypeInventorySnapshot  DataType = "inventory_snapshot"
	DataTypeTransactionHistory DataType = "transaction_history"
	DataTypeAdjustmentLog      DataType = "adjustment_log"
	DataTypeCycleCountResults  DataType = "cycle_count_results"
	DataTypeLocationMaster     DataType = "location_master"
	DataTypeSKUMaster          DataType = "sku_master"
	DataTypeOrderHistory       DataType = "order_history"
	DataTypeLaborLog           DataType = "labor_log"
)

// AllDataTypes lists every supported data type in declaration order.
func AllDataTypes() []DataType {
	return []DataType{
		DataTypeInventorySnapshot,
		DataTypeTransactionHistory,
		DataTypeAdjustmentLog,
		DataTypeCycleCountResults,
		DataTypeLocationMaster,
		DataTypeSKUMaster,
		DataTypeOrderHistory,
		DataTypeLaborLog,
	}
}

// ParseDataType returns the DataType for raw, or false when raw is not a
// known type.
func ParseDataType(raw string) (DataType, bool) {
	for _, dt := range AllDataTypes() {
		if string(dt) == raw {
			return dt, true
		}
	}
	return "", false
}

// SourceSystemGeneric is the mapping fallback for unrecognized source systems.
const SourceSystemGeneric = "generic"

// ColumnRename maps one source column onto a canonical field.
type ColumnRename struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// ColumnMapping is an ordered rename table scoped to one
// (source system, data type) pair. Order matters: earlier entries win when
// two sources map onto the same target.
type ColumnMapping []ColumnRename

// Target resolves the canonical field for a source column.
func (m ColumnMapping) Target(source string) (string, bool) {
	for _, entry := range m {
		if entry.Source == source {
			return entry.Target, true
		}
	}
	return "", false
}

// HasSource reports whether the column is a key of the mapping.
func (m ColumnMapping) HasSource(source string) bool {
	_, ok := m.Target(source)
	return ok
}
