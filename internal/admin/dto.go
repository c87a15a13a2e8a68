package admin

import (
	"github.com/shakytails/shakytails-backend/internal/pets"
	"github.com/shakytails/shakytails-backend/internal/users"
)

// DashboardDTO is the operator overview: headline counts across the fleet.
type DashboardDTO struct {
	TotalUsers int64 `json:"total_users"`
	TotalPets  int64 `json:"total_pets"`
	LostPets   int64 `json:"lost_pets"`
	TotalScans int64 `json:"total_scans"`
}

// UserSummaryDTO is one row of the admin user listing.
type UserSummaryDTO struct {
	users.UserDTO
	PetCount int64 `json:"pet_count"`
}

// UserListDTO is a paginated page of users.
type UserListDTO struct {
	Users    []UserSummaryDTO `json:"users"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// UserDetailDTO is one user together with every pet they own.
type UserDetailDTO struct {
	users.UserDTO
	Pets []pets.PetDTO `json:"pets"`
}

// PetListDTO is a paginated page of pets across all owners.
type PetListDTO struct {
	Pets     []pets.PetDTO `json:"pets"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
