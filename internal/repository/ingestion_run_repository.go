package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowlogic/ingest/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ingestionRunRepository struct {
	pool *pgxpool.Pool
}

// NewIngestionRunRepository wires a repository backed by pgxpool.
func NewIngestionRunRepository(pool *pgxpool.Pool) IngestionRunRepository {
	return &ingestionRunRepository{pool: pool}
}

func (r *ingestionRunRepository) Create(ctx context.Context, run domain.IngestionRun) (domain.IngestionRun, error) {
	if r.pool == nil {
		return domain.IngestionRun{}, fmt.Errorf("ingestion run repository not initialized")
	}

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	metadata, err := json.Marshal(run.Metadata)
	if err != nil {
		return domain.IngestionRun{}, fmt.Errorf("failed to encode run metadata: %w", err)
	}

	var createdAt pgtype.Timestamptz
	err = r.pool.QueryRow(
		ctx,
		`INSERT INTO ingestion_runs (id, filename, file_path, data_type, source, mapping_type, record_count, error_count, status, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		run.ID,
		run.Filename,
		run.FilePath,
		string(run.DataType),
		run.Source,
		run.MappingType,
		run.RecordCount,
		run.ErrorCount,
		string(run.Status),
		metadata,
	).Scan(&createdAt)
	if err != nil {
		return domain.IngestionRun{}, fmt.Errorf("failed to create ingestion run: %w", err)
	}

	if createdAt.Valid {
		run.CreatedAt = createdAt.Time
	}
	return run, nil
}

func (r *ingestionRunRepository) List(ctx context.Context, filter IngestionRunFilter) ([]domain.IngestionRun, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("ingestion run repository not initialized")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, filename, file_path, data_type, source, mapping_type, record_count, error_count, status, metadata, created_at
	 FROM ingestion_runs`
	args := []any{}
	conditions := ""
	if filter.DataType != nil {
		args = append(args, string(*filter.DataType))
		conditions = fmt.Sprintf(" WHERE data_type = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		if conditions == "" {
			conditions = fmt.Sprintf(" WHERE status = $%d", len(args))
		} else {
			conditions += fmt.Sprintf(" AND status = $%d", len(args))
		}
	}
	args = append(args, limit, offset)
	query += conditions + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingestion runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.IngestionRun{}
	for rows.Next() {
		var (
			run       domain.IngestionRun
			dataType  string
			status    string
			metadata  []byte
			createdAt pgtype.Timestamptz
		)
		if scanErr := rows.Scan(
			&run.ID,
			&run.Filename,
			&run.FilePath,
			&dataType,
			&run.Source,
			&run.MappingType,
			&run.RecordCount,
			&run.ErrorCount,
			&status,
			&metadata,
			&createdAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan ingestion run: %w", scanErr)
		}

		run.DataType = domain.DataType(dataType)
		run.Status = domain.IngestionStatus(status)
		if len(metadata) > 0 {
			if decodeErr := json.Unmarshal(metadata, &run.Metadata); decodeErr != nil {
				return nil, fmt.Errorf("failed to decode run metadata: %w", decodeErr)
			}
		}
		if createdAt.Valid {
			run.CreatedAt = createdAt.Time
		}

		runs = append(runs, run)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate ingestion runs: %w", rowsErr)
	}

	return runs, nil
}
