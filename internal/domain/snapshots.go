package domain

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot rows are the typed destinations of the batch persister. Every row
// keeps the full canonical record (mapped and pass-through fields) in
// RawData so handlers that model only a subset of fields lose nothing.

// InventorySnapshot is one stocked SKU/location pair from an inventory
// export.
type InventorySnapshot struct {
	IngestionID       uuid.UUID
	SKU               string
	LocationCode      string
	QuantityOnHand    float64
	QuantityAllocated float64
	QuantityAvailable float64
	LotNumber         *string
	ExpirationDate    *time.Time
	SnapshotDate      time.Time
	RawData           map[string]any
}

// TransactionSnapshot is one WMS transaction from a history export.
type TransactionSnapshot struct {
	IngestionID           uuid.UUID
	ExternalTransactionID *string
	Type                  string
	SKU                   string
	FromLocation          *string
	ToLocation            *string
	Quantity              float64
	UserID                *string
	TransactionDate       time.Time
	RawData               map[string]any
}

// AdjustmentSnapshot is one inventory adjustment with its stated reason.
type AdjustmentSnapshot struct {
	IngestionID    uuid.UUID
	SKU            string
	LocationCode   string
	AdjustmentQty  float64
	Reason         string
	ReasonCode     *string
	UserID         *string
	AdjustmentDate time.Time
	RawData        map[string]any
}

// CycleCountSnapshot is one counted location with its variance against the
// system quantity.
type CycleCountSnapshot struct {
	IngestionID     uuid.UUID
	SKU             string
	LocationCode    string
	SystemQty       float64
	CountedQty      float64
	Variance        float64
	VariancePercent float64
	CounterID       *string
	CountDate       time.Time
	RawData         map[string]any
}
