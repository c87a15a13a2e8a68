package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/enums"
)

// CodeDTO is the transport shape for an inventory code.
type CodeDTO struct {
	ID         uuid.UUID        `json:"id"`
	CodeID     string           `json:"code_id"`
	ImagePath  string           `json:"image_path"`
	Status     enums.CodeStatus `json:"status"`
	PetID      *uuid.UUID       `json:"pet_id,omitempty"`
	BatchID    string           `json:"batch_id"`
	AssignedAt *time.Time       `json:"assigned_at,omitempty"`
	PrintedAt  *time.Time       `json:"printed_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

func FromModel(c *models.InventoryCode) *CodeDTO {
	if c == nil {
		return nil
	}
	return &CodeDTO{
		ID:         c.ID,
		CodeID:     c.CodeID,
		ImagePath:  c.ImagePath,
		Status:     c.Status,
		PetID:      c.PetID,
		BatchID:    c.BatchID,
		AssignedAt: c.AssignedAt,
		PrintedAt:  c.PrintedAt,
		CreatedAt:  c.CreatedAt,
	}
}

// BulkGenerateRequest is the admin payload for minting a batch of codes.
type BulkGenerateRequest struct {
	Quantity int    `json:"quantity" validate:"required,min=1,max=1000"`
	BatchID  string `json:"batch_id,omitempty"`
}

// BulkGenerateResult reports what a batch run produced. A partially failed
// run still returns every code that was persisted.
type BulkGenerateResult struct {
	BatchID   string    `json:"batch_id"`
	Requested int       `json:"requested"`
	Created   []CodeDTO `json:"created"`
	Failed    int       `json:"failed"`
	Errors    []string  `json:"errors,omitempty"`
}

// VerifyResult is the public answer for a code lookup.
type VerifyResult struct {
	CodeID     string           `json:"code_id"`
	IsAssigned bool             `json:"is_assigned"`
	Status     enums.CodeStatus `json:"status"`
}

// ListFilter narrows inventory listings.
type ListFilter struct {
	Status  *enums.CodeStatus
	BatchID *string
}

// BatchStats aggregates one batch's counts.
type BatchStats struct {
	BatchID   string `json:"batch_id"`
	Count     int64  `json:"count"`
	Available int64  `json:"available"`
	Assigned  int64  `json:"assigned"`
}

// Stats summarizes the entire inventory.
type Stats struct {
	Total    int64                      `json:"total"`
	ByStatus map[enums.CodeStatus]int64 `json:"by_status"`
	Batches  []BatchStats               `json:"batches"`
}

// DeleteBatchResult reports how many available rows a batch purge removed.
type DeleteBatchResult struct {
	BatchID      string `json:"batch_id"`
	DeletedCount int64  `json:"deleted_count"`
}
