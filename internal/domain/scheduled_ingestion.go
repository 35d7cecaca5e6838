package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledIngestion is a recurring pull definition. Execution belongs to an
// external scheduler; ConnectionConfig and Schedule are opaque to this
// service and stored as given.
type ScheduledIngestion struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Source           string    `json:"source"`
	ConnectionConfig string    `json:"connectionConfig"`
	Schedule         string    `json:"schedule"`
	DataType         DataType  `json:"dataType"`
	MappingType      string    `json:"mappingType"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
}
