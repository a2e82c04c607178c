package events

import (
	"context"
	"encoding/json"
	"time"
)

const ImportCompletedType = "transactions.import.completed"

type ImportCompleted struct {
	Type         string    `json:"type"`
	OwnerID      string    `json:"owner_id"`
	TotalRows    int       `json:"total_rows"`
	SuccessCount int       `json:"success_count"`
	ErrorCount   int       `json:"error_count"`
	CompletedAt  time.Time `json:"completed_at"`
}

func NewImportCompleted(ownerID string, totalRows, successCount, errorCount int, at time.Time) ImportCompleted {
	return ImportCompleted{
		Type:         ImportCompletedType,
		OwnerID:      ownerID,
		TotalRows:    totalRows,
		SuccessCount: successCount,
		ErrorCount:   errorCount,
		CompletedAt:  at.UTC(),
	}
}

func (e ImportCompleted) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	PublishImportCompleted(ctx context.Context, event ImportCompleted) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishImportCompleted(ctx context.Context, event ImportCompleted) error {
	return nil
}
