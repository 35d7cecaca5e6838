package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flowlogic/ingest/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type snapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository wires a repository backed by pgxpool. All inserts
// use ON CONFLICT DO NOTHING against each table's natural key, so repeated
// ingestion of the same file writes no duplicate rows; the returned count
// is rows actually inserted.
func NewSnapshotRepository(pool *pgxpool.Pool) SnapshotRepository {
	return &snapshotRepository{pool: pool}
}

func (r *snapshotRepository) InsertInventorySnapshots(ctx context.Context, rows []domain.InventorySnapshot) (int, error) {
	columns := []string{
		"ingestion_id", "sku", "location_code",
		"quantity_on_hand", "quantity_allocated", "quantity_available",
		"lot_number", "expiration_date", "snapshot_date", "raw_data",
	}
	args := make([]any, 0, len(rows)*len(columns))
	for _, row := range rows {
		rawData, err := json.Marshal(row.RawData)
		if err != nil {
			return 0, fmt.Errorf("failed to encode raw data: %w", err)
		}
		args = append(args,
			row.IngestionID, row.SKU, row.LocationCode,
			row.QuantityOnHand, row.QuantityAllocated, row.QuantityAvailable,
			row.LotNumber, row.ExpirationDate, row.SnapshotDate, rawData,
		)
	}
	return r.insertBatch(ctx, "inventory_snapshots", columns, len(rows), args)
}

func (r *snapshotRepository) InsertTransactionSnapshots(ctx context.Context, rows []domain.TransactionSnapshot) (int, error) {
	columns := []string{
		"ingestion_id", "external_transaction_id", "type", "sku",
		"from_location", "to_location", "quantity", "user_id",
		"transaction_date", "raw_data",
	}
	args := make([]any, 0, len(rows)*len(columns))
	for _, row := range rows {
		rawData, err := json.Marshal(row.RawData)
		if err != nil {
			return 0, fmt.Errorf("failed to encode raw data: %w", err)
		}
		args = append(args,
			row.IngestionID, row.ExternalTransactionID, row.Type, row.SKU,
			row.FromLocation, row.ToLocation, row.Quantity, row.UserID,
			row.TransactionDate, rawData,
		)
	}
	return r.insertBatch(ctx, "transaction_snapshots", columns, len(rows), args)
}

func (r *snapshotRepository) InsertAdjustmentSnapshots(ctx context.Context, rows []domain.AdjustmentSnapshot) (int, error) {
	columns := []string{
		"ingestion_id", "sku", "location_code", "adjustment_qty",
		"reason", "reason_code", "user_id", "adjustment_date", "raw_data",
	}
	args := make([]any, 0, len(rows)*len(columns))
	for _, row := range rows {
		rawData, err := json.Marshal(row.RawData)
		if err != nil {
			return 0, fmt.Errorf("failed to encode raw data: %w", err)
		}
		args = append(args,
			row.IngestionID, row.SKU, row.LocationCode, row.AdjustmentQty,
			row.Reason, row.ReasonCode, row.UserID, row.AdjustmentDate, rawData,
		)
	}
	return r.insertBatch(ctx, "adjustment_snapshots", columns, len(rows), args)
}

func (r *snapshotRepository) InsertCycleCountSnapshots(ctx context.Context, rows []domain.CycleCountSnapshot) (int, error) {
	columns := []string{
		"ingestion_id", "sku", "location_code", "system_qty", "counted_qty",
		"variance", "variance_percent", "counter_id", "count_date", "raw_data",
	}
	args := make([]any, 0, len(rows)*len(columns))
	for _, row := range rows {
		rawData, err := json.Marshal(row.RawData)
		if err != nil {
			return 0, fmt.Errorf("failed to encode raw data: %w", err)
		}
		args = append(args,
			row.IngestionID, row.SKU, row.LocationCode, row.SystemQty, row.CountedQty,
			row.Variance, row.VariancePercent, row.CounterID, row.CountDate, rawData,
		)
	}
	return r.insertBatch(ctx, "cycle_count_snapshots", columns, len(rows), args)
}

func (r *snapshotRepository) insertBatch(ctx context.Context, table string, columns []string, rowCount int, args []any) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("snapshot repository not initialized")
	}
	if rowCount == 0 {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx, buildBatchInsert(table, columns, rowCount), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	return int(tag.RowsAffected()), nil
}

// buildBatchInsert renders a multi-row VALUES insert with ON CONFLICT DO
// NOTHING. One statement per batch keeps the write atomic within the batch
// while staying far below the placeholder limit at the 1000-row batch size.
func buildBatchInsert(table string, columns []string, rowCount int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES ")

	placeholder := 1
	for row := 0; row < rowCount; row++ {
		if row > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for col := range columns {
			if col > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", placeholder)
			placeholder++
		}
		sb.WriteString(")")
	}

	sb.WriteString(" ON CONFLICT DO NOTHING")
	return sb.String()
}
