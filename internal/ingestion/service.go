// Package ingestion normalizes inventory and transaction exports from
// heterogeneous warehouse management systems into canonical records and
// persists them in duplicate-safe batches with a per-run audit trail.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/flowlogic/ingest/internal/domain"
	"github.com/flowlogic/ingest/internal/repository"
	"github.com/flowlogic/ingest/internal/schema"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// maxStoredErrors caps the validation errors kept on the audit row.
	maxStoredErrors = 100
	// maxReturnedErrors caps the validation errors echoed to the caller.
	maxReturnedErrors = 20
)

// Service runs the ingestion pipeline: parse, map, validate, persist,
// record. One call is one single-threaded run.
type Service struct {
	registry  *schema.Registry
	mapper    *Mapper
	validator *Validator
	persister *Persister
	runs      repository.IngestionRunRepository
	scheduled repository.ScheduledIngestionRepository
	logger    *zap.Logger
}

// NewService wires the pipeline over the given registry and repositories.
func NewService(
	registry *schema.Registry,
	persister *Persister,
	runs repository.IngestionRunRepository,
	scheduled repository.ScheduledIngestionRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		registry:  registry,
		mapper:    NewMapper(registry),
		validator: NewValidator(registry),
		persister: persister,
		runs:      runs,
		scheduled: scheduled,
		logger:    logger,
	}
}

// Request describes one uploaded file.
type Request struct {
	FileName     string
	StoragePath  string
	ContentType  string
	Size         int64
	DataType     domain.DataType
	SourceSystem string
	Source       string
	Data         io.Reader
}

// Result is the success payload for an ingestion run.
type Result struct {
	Success           bool                     `json:"success"`
	IngestionID       string                   `json:"ingestionId"`
	RecordsProcessed  int                      `json:"recordsProcessed"`
	RecordsWithErrors int                      `json:"recordsWithErrors"`
	Errors            []domain.ValidationError `json:"errors"`
}

// Ingest runs the full pipeline for one file. Validation failures never
// abort the run; parse and persistence failures do, and no audit row is
// recorded for them.
func (s *Service) Ingest(ctx context.Context, req Request) (Result, error) {
	result := Result{Errors: []domain.ValidationError{}}

	if req.Data == nil {
		return result, &ConfigurationError{Reason: "data reader is required"}
	}
	if req.DataType == "" {
		req.DataType = domain.DataTypeInventorySnapshot
	}
	if _, ok := domain.ParseDataType(string(req.DataType)); !ok {
		return result, &ConfigurationError{Reason: fmt.Sprintf("unknown data type %q", req.DataType)}
	}
	if req.SourceSystem == "" {
		req.SourceSystem = domain.SourceSystemGeneric
	}
	if req.Source == "" {
		req.Source = "manual"
	}

	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return result, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return result, &ConfigurationError{Reason: "file is empty"}
	}

	rawRecords, err := Parse(req.FileName, payload)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return result, &ConfigurationError{Reason: err.Error()}
		}
		return result, err
	}

	canonical := s.mapper.Map(rawRecords, req.SourceSystem, req.DataType)
	valid, validationErrs := s.validator.Validate(canonical, req.DataType)

	// The run ID is minted up front so persisted rows can reference it, but
	// the audit row itself is only written once the run has succeeded.
	run := domain.IngestionRun{
		ID:          uuid.New(),
		Filename:    req.FileName,
		FilePath:    req.StoragePath,
		DataType:    req.DataType,
		Source:      req.Source,
		MappingType: req.SourceSystem,
		RecordCount: len(valid),
		ErrorCount:  len(validationErrs),
		Status:      domain.StatusForErrorCount(len(validationErrs)),
		Metadata: domain.RunMetadata{
			FileSize: req.Size,
			MimeType: req.ContentType,
			Errors:   truncateErrors(validationErrs, maxStoredErrors),
		},
	}

	processed, err := s.persister.Persist(ctx, valid, req.DataType, run.ID)
	if err != nil {
		s.logger.Error("batch persistence failed",
			zap.String("file", req.FileName),
			zap.String("dataType", string(req.DataType)),
			zap.Error(err))
		return result, err
	}

	stored, err := s.runs.Create(ctx, run)
	if err != nil {
		return result, fmt.Errorf("failed to record ingestion run: %w", err)
	}

	s.logger.Info("ingestion completed",
		zap.String("ingestionId", stored.ID.String()),
		zap.String("file", req.FileName),
		zap.String("dataType", string(req.DataType)),
		zap.String("sourceSystem", req.SourceSystem),
		zap.Int("recordsProcessed", processed),
		zap.Int("recordsWithErrors", len(validationErrs)))

	result.Success = true
	result.IngestionID = stored.ID.String()
	result.RecordsProcessed = processed
	result.RecordsWithErrors = len(validationErrs)
	result.Errors = truncateErrors(validationErrs, maxReturnedErrors)
	return result, nil
}

// History returns stored runs, newest first.
func (s *Service) History(ctx context.Context, filter repository.IngestionRunFilter) ([]domain.IngestionRun, error) {
	return s.runs.List(ctx, filter)
}

// Schedule persists a recurring pull definition with its connection config
// stored opaque. The cron-like schedule expression is interpreted only by
// the external scheduler.
func (s *Service) Schedule(ctx context.Context, job domain.ScheduledIngestion) (domain.ScheduledIngestion, error) {
	if strings.TrimSpace(job.Name) == "" {
		return domain.ScheduledIngestion{}, &ConfigurationError{Reason: "name is required"}
	}
	if _, ok := domain.ParseDataType(string(job.DataType)); !ok {
		return domain.ScheduledIngestion{}, &ConfigurationError{Reason: fmt.Sprintf("unknown data type %q", job.DataType)}
	}
	if job.MappingType == "" {
		job.MappingType = domain.SourceSystemGeneric
	}
	job.IsActive = true
	return s.scheduled.Create(ctx, job)
}

// Registry exposes the mapping configuration for introspection.
func (s *Service) Registry() *schema.Registry {
	return s.registry
}

func truncateErrors(errs []domain.ValidationError, max int) []domain.ValidationError {
	if len(errs) <= max {
		out := make([]domain.ValidationError, len(errs))
		copy(out, errs)
		return out
	}
	out := make([]domain.ValidationError, max)
	copy(out, errs[:max])
	return out
}
