package foundreports

import (
	"time"

	"github.com/google/uuid"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/enums"
)

// SubmitReportRequest is the public finder submission for a scanned code.
// The finder's phone and where the pet was seen are the only hard
// requirements; name, email, and a free-form message are optional.
type SubmitReportRequest struct {
	FinderName  *string `json:"finder_name" validate:"omitempty,max=120"`
	FinderEmail *string `json:"finder_email" validate:"omitempty,email"`
	FinderPhone string  `json:"finder_phone" validate:"required,max=40"`
	Location    string  `json:"location" validate:"required,max=255"`
	Message     string  `json:"message" validate:"max=2000"`
}

// AdvanceStatusRequest moves a report along its lifecycle.
type AdvanceStatusRequest struct {
	Status enums.FoundReportStatus `json:"status" validate:"required"`
}

// ReportDTO is the owner-facing view of a finder report.
type ReportDTO struct {
	ID          uuid.UUID               `json:"id"`
	PetID       uuid.UUID               `json:"pet_id"`
	PetName     string                  `json:"pet_name,omitempty"`
	FinderName  *string                 `json:"finder_name,omitempty"`
	FinderEmail *string                 `json:"finder_email,omitempty"`
	FinderPhone string                  `json:"finder_phone"`
	Location    string                  `json:"location"`
	Message     string                  `json:"message,omitempty"`
	Status      enums.FoundReportStatus `json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
}

// ReportListDTO is a paginated page of reports.
type ReportListDTO struct {
	Reports  []ReportDTO `json:"reports"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// FromModel maps a stored report to its DTO.
func FromModel(report *models.FoundReport) *ReportDTO {
	return &ReportDTO{
		ID:          report.ID,
		PetID:       report.PetID,
		FinderName:  report.FinderName,
		FinderEmail: report.FinderEmail,
		FinderPhone: report.FinderPhone,
		Location:    report.Location,
		Message:     report.Message,
		Status:      report.Status,
		CreatedAt:   report.CreatedAt,
	}
}
