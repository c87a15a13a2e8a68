package reminders

import (
	"time"

	"github.com/google/uuid"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/enums"
)

// CreateReminderDTO holds the data required to schedule a reminder.
type CreateReminderDTO struct {
	PetID       uuid.UUID
	OwnerID     uuid.UUID
	VaccineName string
	DueDate     time.Time
}

// ReminderDTO is the transport shape for a vaccine reminder.
type ReminderDTO struct {
	ID             uuid.UUID            `json:"id"`
	PetID          uuid.UUID            `json:"pet_id"`
	OwnerID        uuid.UUID            `json:"owner_id"`
	VaccineName    string               `json:"vaccine_name"`
	DueDate        time.Time            `json:"due_date"`
	ReminderSent   bool                 `json:"reminder_sent"`
	ReminderSentAt *time.Time           `json:"reminder_sent_at,omitempty"`
	Status         enums.ReminderStatus `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func FromModel(r *models.VaccineReminder) *ReminderDTO {
	if r == nil {
		return nil
	}
	return &ReminderDTO{
		ID:             r.ID,
		PetID:          r.PetID,
		OwnerID:        r.OwnerID,
		VaccineName:    r.VaccineName,
		DueDate:        r.DueDate,
		ReminderSent:   r.ReminderSent,
		ReminderSentAt: r.ReminderSentAt,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
