package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shakytails/shakytails-backend/pkg/enums"
)

// InventoryCode is a pre-generated scannable code awaiting assignment.
// PetID is set exactly once, together with AssignedAt, when the code moves
// out of the available status; a code never rebinds to a different pet.
type InventoryCode struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CodeID     string           `gorm:"column:code_id;type:text;not null;uniqueIndex"`
	ImagePath  string           `gorm:"column:image_path;not null"`
	Status     enums.CodeStatus `gorm:"column:status;type:text;not null;default:'available';index"`
	PetID      *uuid.UUID       `gorm:"column:pet_id;type:uuid"`
	BatchID    string           `gorm:"column:batch_id;not null;index"`
	AssignedAt *time.Time       `gorm:"column:assigned_at"`
	PrintedAt  *time.Time       `gorm:"column:printed_at"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
