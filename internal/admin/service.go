package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shakytails/shakytails-backend/internal/pets"
	"github.com/shakytails/shakytails-backend/internal/users"
	"github.com/shakytails/shakytails-backend/pkg/db/models"
	pkgerrors "github.com/shakytails/shakytails-backend/pkg/errors"
	"github.com/shakytails/shakytails-backend/pkg/logger"
	"github.com/shakytails/shakytails-backend/pkg/pagination"
)

// Service defines the operator-only operations behind the admin surface.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardDTO, error)
	ListUsers(ctx context.Context, page pagination.Params) (*UserListDTO, error)
	UserDetail(ctx context.Context, userID uuid.UUID) (*UserDetailDTO, error)
	SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	ListPets(ctx context.Context, page pagination.Params) (*PetListDTO, error)
	DeletePet(ctx context.Context, petID uuid.UUID) error
}

type userDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, page pagination.Params) ([]models.User, int64, error)
	Count(ctx context.Context) (int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type petCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error)
	List(ctx context.Context, page pagination.Params) ([]models.Pet, int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pet, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountLost(ctx context.Context) (int64, error)
	TotalScans(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	users userDirectory
	pets  petCatalog
	logg  *logger.Logger
}

// ServiceParams bundles the dependencies required to build an admin service.
type ServiceParams struct {
	UserRepo userDirectory
	PetRepo  petCatalog
	Logger   *logger.Logger
}

// NewService constructs an admin service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.PetRepo == nil {
		return nil, fmt.Errorf("pet repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		users: params.UserRepo,
		pets:  params.PetRepo,
		logg:  params.Logger,
	}, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardDTO, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	petCount, err := s.pets.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count pets")
	}
	lostCount, err := s.pets.CountLost(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count lost pets")
	}
	totalScans, err := s.pets.TotalScans(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum scans")
	}

	return &DashboardDTO{
		TotalUsers: userCount,
		TotalPets:  petCount,
		LostPets:   lostCount,
		TotalScans: totalScans,
	}, nil
}

func (s *service) ListUsers(ctx context.Context, page pagination.Params) (*UserListDTO, error) {
	page = page.Normalize()
	rows, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	dtos := make([]UserSummaryDTO, 0, len(rows))
	for i := range rows {
		petCount, err := s.pets.CountByOwner(ctx, rows[i].ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count user pets")
		}
		dtos = append(dtos, UserSummaryDTO{
			UserDTO:  *users.FromModel(&rows[i]),
			PetCount: petCount,
		})
	}

	return &UserListDTO{
		Users:    dtos,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

func (s *service) UserDetail(ctx context.Context, userID uuid.UUID) (*UserDetailDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pets.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user pets")
	}

	petDTOs := make([]pets.PetDTO, 0, len(rows))
	for i := range rows {
		petDTOs = append(petDTOs, *pets.FromModel(&rows[i]))
	}
	return &UserDetailDTO{
		UserDTO: *users.FromModel(user),
		Pets:    petDTOs,
	}, nil
}

func (s *service) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.SetActive(ctx, user.ID, active); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set user active")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"user_id": user.ID.String(), "active": active})
	s.logg.Info(ctx, "user active flag changed")
	return nil
}

// DeleteUser removes the account. Pets cascade, and each pet's inventory
// code stays assigned as a tombstone of the binding.
func (s *service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user deleted")
	return nil
}

func (s *service) ListPets(ctx context.Context, page pagination.Params) (*PetListDTO, error) {
	page = page.Normalize()
	rows, total, err := s.pets.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pets")
	}
	dtos := make([]pets.PetDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *pets.FromModel(&rows[i]))
	}
	return &PetListDTO{
		Pets:     dtos,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

func (s *service) DeletePet(ctx context.Context, petID uuid.UUID) error {
	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup pet")
	}
	if err := s.pets.Delete(ctx, pet.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete pet")
	}
	s.logg.Info(s.logg.WithPetID(ctx, pet.ID.String()), "pet deleted")
	return nil
}

func (s *service) findUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}
