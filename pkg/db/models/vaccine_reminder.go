package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shakytails/shakytails-backend/pkg/enums"
)

// VaccineReminder schedules an owner notification ahead of a due vaccination.
type VaccineReminder struct {
	ID             uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PetID          uuid.UUID            `gorm:"column:pet_id;type:uuid;not null;index"`
	OwnerID        uuid.UUID            `gorm:"column:owner_id;type:uuid;not null;index"`
	VaccineName    string               `gorm:"column:vaccine_name;not null"`
	DueDate        time.Time            `gorm:"column:due_date;not null;index"`
	ReminderSent   bool                 `gorm:"column:reminder_sent;not null;default:false"`
	ReminderSentAt *time.Time           `gorm:"column:reminder_sent_at"`
	Status         enums.ReminderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
