package repository

import (
	"context"

	"github.com/flowlogic/ingest/internal/domain"

	"github.com/google/uuid"
)

// IngestionRunFilter narrows a history query. Zero limit means the default
// page size.
type IngestionRunFilter struct {
	DataType *domain.DataType
	Status   *domain.IngestionStatus
	Limit    int
	Offset   int
}

// IngestionRunRepository owns the audit trail. Runs are written once and
// never mutated.
type IngestionRunRepository interface {
	Create(ctx context.Context, run domain.IngestionRun) (domain.IngestionRun, error)
	List(ctx context.Context, filter IngestionRunFilter) ([]domain.IngestionRun, error)
}

// ScheduledIngestionRepository stores recurring pull definitions for the
// external scheduler.
type ScheduledIngestionRepository interface {
	Create(ctx context.Context, job domain.ScheduledIngestion) (domain.ScheduledIngestion, error)
	List(ctx context.Context) ([]domain.ScheduledIngestion, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// SnapshotRepository performs the chunked writes for the typed data types.
// Each insert skips rows conflicting with the table's natural uniqueness
// constraint and returns the count of rows newly written.
type SnapshotRepository interface {
	InsertInventorySnapshots(ctx context.Context, rows []domain.InventorySnapshot) (int, error)
	InsertTransactionSnapshots(ctx context.Context, rows []domain.TransactionSnapshot) (int, error)
	InsertAdjustmentSnapshots(ctx context.Context, rows []domain.AdjustmentSnapshot) (int, error)
	InsertCycleCountSnapshots(ctx context.Context, rows []domain.CycleCountSnapshot) (int, error)
}
