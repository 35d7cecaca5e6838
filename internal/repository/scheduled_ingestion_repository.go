package repository

import (
	"context"
	"fmt"

	"github.com/flowlogic/ingest/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type scheduledIngestionRepository struct {
	pool *pgxpool.Pool
}

// NewScheduledIngestionRepository wires a repository backed by pgxpool.
func NewScheduledIngestionRepository(pool *pgxpool.Pool) ScheduledIngestionRepository {
	return &scheduledIngestionRepository{pool: pool}
}

func (r *scheduledIngestionRepository) Create(ctx context.Context, job domain.ScheduledIngestion) (domain.ScheduledIngestion, error) {
	if r.pool == nil {
		return domain.ScheduledIngestion{}, fmt.Errorf("scheduled ingestion repository not initialized")
	}

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	var createdAt pgtype.Timestamptz
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO scheduled_ingestions (id, name, source, connection_config, schedule, data_type, mapping_type, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		job.ID,
		job.Name,
		job.Source,
		job.ConnectionConfig,
		job.Schedule,
		string(job.DataType),
		job.MappingType,
		job.IsActive,
	).Scan(&createdAt)
	if err != nil {
		return domain.ScheduledIngestion{}, fmt.Errorf("failed to create scheduled ingestion: %w", err)
	}

	if createdAt.Valid {
		job.CreatedAt = createdAt.Time
	}
	return job, nil
}

func (r *scheduledIngestionRepository) List(ctx context.Context) ([]domain.ScheduledIngestion, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("scheduled ingestion repository not initialized")
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, source, connection_config, schedule, data_type, mapping_type, is_active, created_at
		 FROM scheduled_ingestions
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled ingestions: %w", err)
	}
	defer rows.Close()

	jobs := []domain.ScheduledIngestion{}
	for rows.Next() {
		var (
			job       domain.ScheduledIngestion
			dataType  string
			createdAt pgtype.Timestamptz
		)
		if scanErr := rows.Scan(
			&job.ID,
			&job.Name,
			&job.Source,
			&job.ConnectionConfig,
			&job.Schedule,
			&dataType,
			&job.MappingType,
			&job.IsActive,
			&createdAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan scheduled ingestion: %w", scanErr)
		}

		job.DataType = domain.DataType(dataType)
		if createdAt.Valid {
			job.CreatedAt = createdAt.Time
		}

		jobs = append(jobs, job)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate scheduled ingestions: %w", rowsErr)
	}

	return jobs, nil
}

func (r *scheduledIngestionRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if r.pool == nil {
		return fmt.Errorf("scheduled ingestion repository not initialized")
	}

	tag, err := r.pool.Exec(
		ctx,
		`UPDATE scheduled_ingestions SET is_active = $2 WHERE id = $1`,
		id,
		active,
	)
	if err != nil {
		return fmt.Errorf("failed to update scheduled ingestion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scheduled ingestion %s not found", id)
	}

	return nil
}
