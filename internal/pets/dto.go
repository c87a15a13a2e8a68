package pets

import (
	"time"

	"github.com/google/uuid"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/enums"
	"github.com/shakytails/shakytails-backend/pkg/types"
)

// CreatePetRequest is the owner payload for registering a pet. Supplying
// CodeID binds the pet to a pre-generated inventory code; omitting it mints
// a fresh standalone code.
type CreatePetRequest struct {
	PetName            string                   `json:"pet_name" validate:"required"`
	Type               enums.PetType            `json:"type" validate:"required"`
	Breed              *string                  `json:"breed,omitempty"`
	Age                *int                     `json:"age,omitempty" validate:"omitempty,min=0"`
	Gender             *enums.PetGender         `json:"gender,omitempty"`
	Color              *string                  `json:"color,omitempty"`
	CodeID             string                   `json:"code_id,omitempty"`
	ProfileImageURL    *string                  `json:"profile_image_url,omitempty"`
	MedicalHistory     string                   `json:"medical_history,omitempty"`
	Allergies          string                   `json:"allergies,omitempty"`
	VaccinationRecords types.VaccinationRecords `json:"vaccination_records,omitempty"`
	EmergencyContacts  types.EmergencyContacts  `json:"emergency_contacts,omitempty"`
}

// UpdatePetRequest carries mutable profile fields; code binding and ownership
// never change after creation, so neither appears here.
type UpdatePetRequest struct {
	PetName           *string                  `json:"pet_name,omitempty" validate:"omitempty,min=1"`
	Breed             *string                  `json:"breed,omitempty"`
	Age               *int                     `json:"age,omitempty" validate:"omitempty,min=0"`
	Gender            *enums.PetGender         `json:"gender,omitempty"`
	Color             *string                  `json:"color,omitempty"`
	ProfileImageURL   *string                  `json:"profile_image_url,omitempty"`
	MedicalHistory    *string                  `json:"medical_history,omitempty"`
	Allergies         *string                  `json:"allergies,omitempty"`
	EmergencyContacts *types.EmergencyContacts `json:"emergency_contacts,omitempty"`
}

// MarkLostRequest toggles a pet's lost flag with optional context for finders.
type MarkLostRequest struct {
	IsLost            bool   `json:"is_lost"`
	LastKnownLocation string `json:"last_known_location,omitempty"`
	RewardNote        string `json:"reward_note,omitempty"`
}

// AddVaccinationRequest appends one vaccination entry to the pet's log.
type AddVaccinationRequest struct {
	VaccineName  string     `json:"vaccine_name" validate:"required"`
	Date         time.Time  `json:"date" validate:"required"`
	NextDueDate  *time.Time `json:"next_due_date,omitempty"`
	Veterinarian string     `json:"veterinarian,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// PetDTO is the owner-facing transport shape.
type PetDTO struct {
	ID                 uuid.UUID                `json:"id"`
	OwnerID            uuid.UUID                `json:"owner_id"`
	PetName            string                   `json:"pet_name"`
	Type               enums.PetType            `json:"type"`
	Breed              *string                  `json:"breed,omitempty"`
	Age                *int                     `json:"age,omitempty"`
	Gender             *enums.PetGender         `json:"gender,omitempty"`
	Color              *string                  `json:"color,omitempty"`
	CodeID             string                   `json:"code_id"`
	CodeImagePath      string                   `json:"code_image_path"`
	ProfileImageURL    *string                  `json:"profile_image_url,omitempty"`
	MedicalHistory     string                   `json:"medical_history"`
	Allergies          string                   `json:"allergies"`
	VaccinationRecords types.VaccinationRecords `json:"vaccination_records"`
	EmergencyContacts  types.EmergencyContacts  `json:"emergency_contacts"`
	IsLost             bool                     `json:"is_lost"`
	LastKnownLocation  string                   `json:"last_known_location,omitempty"`
	RewardNote         string                   `json:"reward_note,omitempty"`
	ScanCount          int64                    `json:"scan_count"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

func FromModel(p *models.Pet) *PetDTO {
	if p == nil {
		return nil
	}
	return &PetDTO{
		ID:                 p.ID,
		OwnerID:            p.OwnerID,
		PetName:            p.PetName,
		Type:               p.Type,
		Breed:              p.Breed,
		Age:                p.Age,
		Gender:             p.Gender,
		Color:              p.Color,
		CodeID:             p.CodeID,
		CodeImagePath:      p.CodeImagePath,
		ProfileImageURL:    p.ProfileImageURL,
		MedicalHistory:     p.MedicalHistory,
		Allergies:          p.Allergies,
		VaccinationRecords: p.VaccinationRecords,
		EmergencyContacts:  p.EmergencyContacts,
		IsLost:             p.IsLost,
		LastKnownLocation:  p.LastKnownLocation,
		RewardNote:         p.RewardNote,
		ScanCount:          p.ScanCount,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// OwnerContact is the contact card shown to finders.
type OwnerContact struct {
	Name    string  `json:"name"`
	Phone   *string `json:"phone,omitempty"`
	Email   string  `json:"email"`
	Address *string `json:"address,omitempty"`
}

// PublicPetDTO is the finder-facing profile returned by a code scan. It
// carries identity and medical context plus owner contact, never credentials
// or scan history.
type PublicPetDTO struct {
	PetName            string                   `json:"pet_name"`
	Type               enums.PetType            `json:"type"`
	Breed              *string                  `json:"breed,omitempty"`
	Age                *int                     `json:"age,omitempty"`
	Gender             *enums.PetGender         `json:"gender,omitempty"`
	Color              *string                  `json:"color,omitempty"`
	ProfileImageURL    *string                  `json:"profile_image_url,omitempty"`
	MedicalHistory     string                   `json:"medical_history"`
	Allergies          string                   `json:"allergies"`
	VaccinationRecords types.VaccinationRecords `json:"vaccination_records"`
	EmergencyContacts  types.EmergencyContacts  `json:"emergency_contacts"`
	IsLost             bool                     `json:"is_lost"`
	LastKnownLocation  string                   `json:"last_known_location,omitempty"`
	RewardNote         string                   `json:"reward_note,omitempty"`
	Owner              OwnerContact             `json:"owner"`
}

// ScanOrigin captures where a public resolution came from.
type ScanOrigin struct {
	IPAddress string
	Location  string
}

// ScanSummary is one scan event in a pet's recent history.
type ScanSummary struct {
	OccurredAt time.Time `json:"occurred_at"`
	IPAddress  string    `json:"ip_address,omitempty"`
	Location   string    `json:"location,omitempty"`
}

// PetStatsDTO summarizes a single pet's activity for its owner.
type PetStatsDTO struct {
	PetID            uuid.UUID     `json:"pet_id"`
	ScanCount        int64         `json:"scan_count"`
	RecentScans      []ScanSummary `json:"recent_scans"`
	VaccinationCount int           `json:"vaccination_count"`
	IsLost           bool          `json:"is_lost"`
}

// RegenerateResult reports the refreshed artifact location.
type RegenerateResult struct {
	CodeID        string `json:"code_id"`
	CodeImagePath string `json:"code_image_path"`
}

// DataURLResult wraps the inline rendering of a pet's code.
type DataURLResult struct {
	CodeID  string `json:"code_id"`
	DataURL string `json:"data_url"`
}
