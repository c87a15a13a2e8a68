package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shakytails/shakytails-backend/pkg/enums"
	"github.com/shakytails/shakytails-backend/pkg/types"
)

// Pet is a registered animal profile bound 1:1 to a scannable code.
// OwnerID and CodeID are immutable after creation.
type Pet struct {
	ID                 uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID            uuid.UUID                `gorm:"column:owner_id;type:uuid;not null;index"`
	PetName            string                   `gorm:"column:pet_name;not null"`
	Type               enums.PetType            `gorm:"column:type;type:text;not null"`
	Breed              *string                  `gorm:"column:breed"`
	Age                *int                     `gorm:"column:age"`
	Gender             *enums.PetGender         `gorm:"column:gender;type:text"`
	Color              *string                  `gorm:"column:color"`
	CodeID             string                   `gorm:"column:code_id;type:text;not null;uniqueIndex"`
	CodeImagePath      string                   `gorm:"column:code_image_path;not null"`
	ProfileImageURL    *string                  `gorm:"column:profile_image_url"`
	MedicalHistory     string                   `gorm:"column:medical_history;type:text;not null;default:''"`
	Allergies          string                   `gorm:"column:allergies;type:text;not null;default:''"`
	VaccinationRecords types.VaccinationRecords `gorm:"column:vaccination_records;type:jsonb;not null;default:'[]'"`
	EmergencyContacts  types.EmergencyContacts  `gorm:"column:emergency_contacts;type:jsonb;not null;default:'[]'"`
	IsLost             bool                     `gorm:"column:is_lost;not null;default:false"`
	LastKnownLocation  string                   `gorm:"column:last_known_location;not null;default:''"`
	RewardNote         string                   `gorm:"column:reward_note;not null;default:''"`
	ScanCount          int64                    `gorm:"column:scan_count;not null;default:0"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
