package pets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shakytails/shakytails-backend/internal/inventory"
	"github.com/shakytails/shakytails-backend/pkg/db"
	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/enums"
	pkgerrors "github.com/shakytails/shakytails-backend/pkg/errors"
)

// Store runs the multi-record writes that must commit or fail together.
type Store struct {
	client *db.Client
}

// NewStore wraps the database client for transactional pet creation.
func NewStore(client *db.Client) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &Store{client: client}, nil
}

// CreateWithInventoryCode inserts the pet and flips its inventory code from
// available to assigned inside one transaction. The flip is a conditional
// UPDATE guarded by the available status; zero rows affected means another
// caller won the code, and the whole transaction rolls back with Conflict.
func (s *Store) CreateWithInventoryCode(ctx context.Context, pet *models.Pet, codeID string) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		petRepo := NewRepository(tx)
		codeRepo := inventory.NewRepository(tx)

		code, err := codeRepo.FindByCodeID(ctx, codeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "code not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup code")
		}
		if code.Status != enums.CodeStatusAvailable {
			return pkgerrors.New(pkgerrors.CodeConflict, "code already assigned")
		}
		pet.CodeID = code.CodeID
		pet.CodeImagePath = code.ImagePath

		if err := petRepo.Create(ctx, pet); err != nil {
			if db.IsUniqueViolation(err, "idx_pets_code_id") {
				return pkgerrors.New(pkgerrors.CodeConflict, "code already assigned")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create pet")
		}

		affected, err := codeRepo.Assign(ctx, codeID, pet.ID, time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign code")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "code already assigned")
		}
		return nil
	})
}

// CreateStandalone inserts a pet whose code was minted outside the inventory.
func (s *Store) CreateStandalone(ctx context.Context, pet *models.Pet) error {
	if err := NewRepository(s.client.DB()).Create(ctx, pet); err != nil {
		if db.IsUniqueViolation(err, "idx_pets_code_id") {
			return pkgerrors.New(pkgerrors.CodeConflict, "code already assigned")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create pet")
	}
	return nil
}
