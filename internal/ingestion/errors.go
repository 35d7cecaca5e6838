package ingestion

import (
	"errors"
	"fmt"

	"github.com/flowlogic/ingest/internal/domain"
)

// ErrUnsupportedFormat is returned when an uploaded file is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ParseError means the input file is malformed. It is fatal to the run and
// no audit row is recorded, since record counts cannot be established.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigurationError rejects a request before any parsing begins: missing
// file, unsupported extension, oversize upload, unknown data type.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return e.Reason }

// PersistenceError means a batch write failed. Batches already committed are
// not rolled back; Processed carries the count written before the failure.
type PersistenceError struct {
	DataType  domain.DataType
	Batch     int
	Processed int
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s batch %d failed after %d rows: %v", e.DataType, e.Batch, e.Processed, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
