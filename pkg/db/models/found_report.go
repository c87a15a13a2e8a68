package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shakytails/shakytails-backend/pkg/enums"
)

// FoundReport records a finder's submission against a pet's code. Immutable
// after creation except for the status field.
type FoundReport struct {
	ID          uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PetID       uuid.UUID               `gorm:"column:pet_id;type:uuid;not null;index"`
	FinderName  *string                 `gorm:"column:finder_name"`
	FinderEmail *string                 `gorm:"column:finder_email"`
	FinderPhone string                  `gorm:"column:finder_phone;not null"`
	Location    string                  `gorm:"column:location;not null"`
	Message     string                  `gorm:"column:message;not null;default:''"`
	Status      enums.FoundReportStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
