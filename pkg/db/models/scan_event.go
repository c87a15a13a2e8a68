package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanEvent is one resolution of a pet's code by any viewer. Rows are
// append-only; nothing updates or deletes them.
type ScanEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PetID      uuid.UUID `gorm:"column:pet_id;type:uuid;not null;index"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null;default:now()"`
	IPAddress  string    `gorm:"column:ip_address;not null;default:''"`
	Location   string    `gorm:"column:location;not null;default:''"`
}
