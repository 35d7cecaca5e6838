package ingestion

import (
	"context"
	"strings"
	"time"

	"github.com/flowlogic/ingest/internal/domain"
	"github.com/flowlogic/ingest/internal/repository"

	"github.com/google/uuid"
)

// DefaultBatchSize is how many records each chunked write carries.
const DefaultBatchSize = 1000

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
}

type batchHandler func(ctx context.Context, batch []domain.CanonicalRecord, ingestionID uuid.UUID) (int, error)

// Persister writes valid records to the destination store in fixed-size
// batches. Handlers are registered per data type; data types without a
// handler are accepted as a no-op pass-through so unmodeled types remain
// forward compatible.
type Persister struct {
	snapshots repository.SnapshotRepository
	batchSize int
	now       func() time.Time
	handlers  map[domain.DataType]batchHandler
}

// NewPersister builds a persister over the snapshot repository. batchSize
// <= 0 selects DefaultBatchSize.
func NewPersister(snapshots repository.SnapshotRepository, batchSize int) *Persister {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	p := &Persister{
		snapshots: snapshots,
		batchSize: batchSize,
		now:       time.Now,
	}
	p.handlers = map[domain.DataType]batchHandler{
		domain.DataTypeInventorySnapshot:  p.persistInventoryBatch,
		domain.DataTypeTransactionHistory: p.persistTransactionBatch,
		domain.DataTypeAdjustmentLog:      p.persistAdjustmentBatch,
		domain.DataTypeCycleCountResults:  p.persistCycleCountBatch,
	}
	return p
}

// Persist writes records batch by batch and returns the count of rows newly
// written. Rows skipped by the store's duplicate constraint are excluded
// from the count, which makes re-ingesting the same file idempotent. A
// failed batch aborts the remainder; batches already written stay committed.
func (p *Persister) Persist(ctx context.Context, records []domain.CanonicalRecord, dataType domain.DataType, ingestionID uuid.UUID) (int, error) {
	handler, ok := p.handlers[dataType]
	if !ok {
		return len(records), nil
	}

	processed := 0
	batchNumber := 0
	for start := 0; start < len(records); start += p.batchSize {
		end := start + p.batchSize
		if end > len(records) {
			end = len(records)
		}
		batchNumber++

		written, err := handler(ctx, records[start:end], ingestionID)
		if err != nil {
			return processed, &PersistenceError{
				DataType:  dataType,
				Batch:     batchNumber,
				Processed: processed,
				Err:       err,
			}
		}
		processed += written
	}

	return processed, nil
}

func (p *Persister) persistInventoryBatch(ctx context.Context, batch []domain.CanonicalRecord, ingestionID uuid.UUID) (int, error) {
	rows := make([]domain.InventorySnapshot, 0, len(batch))
	for _, record := range batch {
		onHand := record.Number("quantityOnHand")
		allocated := record.Number("quantityAllocated")
		available := record.Number("quantityAvailable")
		if available == 0 {
			available = onHand - allocated
		}

		rows = append(rows, domain.InventorySnapshot{
			IngestionID:       ingestionID,
			SKU:               record.GetString("sku"),
			LocationCode:      record.GetString("locationCode"),
			QuantityOnHand:    onHand,
			QuantityAllocated: allocated,
			QuantityAvailable: available,
			LotNumber:         optionalString(record.GetString("lotNumber")),
			ExpirationDate:    optionalTimestamp(record.GetString("expirationDate")),
			SnapshotDate:      p.timestampOrNow(record.GetString("snapshotDate")),
			RawData:           record.Payload(),
		})
	}
	return p.snapshots.InsertInventorySnapshots(ctx, rows)
}

func (p *Persister) persistTransactionBatch(ctx context.Context, batch []domain.CanonicalRecord, ingestionID uuid.UUID) (int, error) {
	rows := make([]domain.TransactionSnapshot, 0, len(batch))
	for _, record := range batch {
		rows = append(rows, domain.TransactionSnapshot{
			IngestionID:           ingestionID,
			ExternalTransactionID: optionalString(record.GetString("transactionId")),
			Type:                  record.GetString("type"),
			SKU:                   record.GetString("sku"),
			FromLocation:          optionalString(record.GetString("fromLocation")),
			ToLocation:            optionalString(record.GetString("toLocation")),
			Quantity:              record.Number("quantity"),
			UserID:                optionalString(record.GetString("userId")),
			TransactionDate:       p.timestampOrNow(record.GetString("transactionDate")),
			RawData:               record.Payload(),
		})
	}
	return p.snapshots.InsertTransactionSnapshots(ctx, rows)
}

func (p *Persister) persistAdjustmentBatch(ctx context.Context, batch []domain.CanonicalRecord, ingestionID uuid.UUID) (int, error) {
	rows := make([]domain.AdjustmentSnapshot, 0, len(batch))
	for _, record := range batch {
		rows = append(rows, domain.AdjustmentSnapshot{
			IngestionID:    ingestionID,
			SKU:            record.GetString("sku"),
			LocationCode:   record.GetString("locationCode"),
			AdjustmentQty:  record.Number("adjustmentQty"),
			Reason:         record.GetString("reason"),
			ReasonCode:     optionalString(record.GetString("reasonCode")),
			UserID:         optionalString(record.GetString("userId")),
			AdjustmentDate: p.timestampOrNow(record.GetString("adjustmentDate")),
			RawData:        record.Payload(),
		})
	}
	return p.snapshots.InsertAdjustmentSnapshots(ctx, rows)
}

func (p *Persister) persistCycleCountBatch(ctx context.Context, batch []domain.CanonicalRecord, ingestionID uuid.UUID) (int, error) {
	rows := make([]domain.CycleCountSnapshot, 0, len(batch))
	for _, record := range batch {
		systemQty := record.Number("systemQty")
		countedQty := record.Number("countedQty")
		variance := countedQty - systemQty

		// Guard the percent against a zero system quantity; a location the
		// system believes is empty reports 0, never Inf or NaN.
		variancePercent := 0.0
		if systemQty != 0 {
			variancePercent = (variance / systemQty) * 100
		}

		counter := record.GetString("counterId")
		if counter == "" {
			counter = record.GetString("userId")
		}

		rows = append(rows, domain.CycleCountSnapshot{
			IngestionID:     ingestionID,
			SKU:             record.GetString("sku"),
			LocationCode:    record.GetString("locationCode"),
			SystemQty:       systemQty,
			CountedQty:      countedQty,
			Variance:        variance,
			VariancePercent: variancePercent,
			CounterID:       optionalString(counter),
			CountDate:       p.timestampOrNow(record.GetString("countDate")),
			RawData:         record.Payload(),
		})
	}
	return p.snapshots.InsertCycleCountSnapshots(ctx, rows)
}

func (p *Persister) timestampOrNow(raw string) time.Time {
	if ts, ok := parseTimestamp(raw); ok {
		return ts
	}
	return p.now()
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func optionalTimestamp(raw string) *time.Time {
	if ts, ok := parseTimestamp(raw); ok {
		return &ts
	}
	return nil
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
