package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/enums"
	pkgerrors "github.com/shakytails/shakytails-backend/pkg/errors"
	"github.com/shakytails/shakytails-backend/pkg/logger"
	"github.com/shakytails/shakytails-backend/pkg/pagination"
	"github.com/shakytails/shakytails-backend/pkg/qr"
)

const maxBulkQuantity = 1000

// Service defines the inventory operations exposed to controllers.
type Service interface {
	BulkGenerate(ctx context.Context, req BulkGenerateRequest) (*BulkGenerateResult, error)
	Verify(ctx context.Context, codeID string) (*VerifyResult, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]CodeDTO, int64, error)
	Stats(ctx context.Context) (*Stats, error)
	DeleteBatch(ctx context.Context, batchID string) (*DeleteBatchResult, error)
}

type codeRepository interface {
	Create(ctx context.Context, code *models.InventoryCode) error
	FindByCodeID(ctx context.Context, codeID string) (*models.InventoryCode, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.InventoryCode, int64, error)
	StatusCounts(ctx context.Context) (map[enums.CodeStatus]int64, error)
	BatchStats(ctx context.Context) ([]BatchStats, error)
	DeleteAvailableByBatch(ctx context.Context, batchID string) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type codeRenderer interface {
	Render(codeID string) (string, error)
	Remove(codeID string) error
}

type service struct {
	codes codeRepository
	qr    codeRenderer
	logg  *logger.Logger
}

// ServiceParams bundles the dependencies required to build an inventory service.
type ServiceParams struct {
	CodeRepo codeRepository
	Renderer codeRenderer
	Logger   *logger.Logger
}

// NewService constructs an inventory service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CodeRepo == nil {
		return nil, fmt.Errorf("code repository is required")
	}
	if params.Renderer == nil {
		return nil, fmt.Errorf("code renderer is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		codes: params.CodeRepo,
		qr:    params.Renderer,
		logg:  params.Logger,
	}, nil
}

// BulkGenerate mints up to maxBulkQuantity codes under one batch tag. A
// mid-batch failure does not roll back already-persisted codes; the result
// carries every success plus the aggregated failure detail.
func (s *service) BulkGenerate(ctx context.Context, req BulkGenerateRequest) (*BulkGenerateResult, error) {
	if req.Quantity <= 0 || req.Quantity > maxBulkQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quantity must be between 1 and %d", maxBulkQuantity))
	}

	batchID := strings.TrimSpace(req.BatchID)
	if batchID == "" {
		batchID = "batch-" + time.Now().UTC().Format("20060102-150405")
	}

	result := &BulkGenerateResult{
		BatchID:   batchID,
		Requested: req.Quantity,
		Created:   make([]CodeDTO, 0, req.Quantity),
	}

	var errs error
	for i := 0; i < req.Quantity; i++ {
		codeID := qr.NewCodeID()

		imagePath, err := s.qr.Render(codeID)
		if err != nil {
			s.logg.Warn(s.logg.WithCodeID(ctx, codeID), "render failed during bulk generate")
			errs = multierr.Append(errs, fmt.Errorf("render %s: %w", codeID, err))
			continue
		}

		code := &models.InventoryCode{
			CodeID:    codeID,
			ImagePath: imagePath,
			Status:    enums.CodeStatusAvailable,
			BatchID:   batchID,
		}
		if err := s.codes.Create(ctx, code); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("persist %s: %w", codeID, err))
			continue
		}
		result.Created = append(result.Created, *FromModel(code))
	}

	for _, err := range multierr.Errors(errs) {
		result.Errors = append(result.Errors, err.Error())
	}
	result.Failed = len(result.Errors)

	if result.Failed > 0 {
		s.logg.Warn(ctx, fmt.Sprintf("bulk generate completed with %d failures (batch %s)", result.Failed, batchID))
	}
	if len(result.Created) == 0 && result.Failed > 0 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, errs, "bulk generate produced no codes")
	}
	return result, nil
}

func (s *service) Verify(ctx context.Context, codeID string) (*VerifyResult, error) {
	code, err := s.findCode(ctx, codeID)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		CodeID:     code.CodeID,
		IsAssigned: code.Status.Bound(),
		Status:     code.Status,
	}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]CodeDTO, int64, error) {
	rows, total, err := s.codes.List(ctx, filter, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory")
	}
	dtos := make([]CodeDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, total, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.codes.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count inventory")
	}
	byStatus, err := s.codes.StatusCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "status counts")
	}
	batches, err := s.codes.BatchStats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "batch stats")
	}
	return &Stats{
		Total:    total,
		ByStatus: byStatus,
		Batches:  batches,
	}, nil
}

func (s *service) DeleteBatch(ctx context.Context, batchID string) (*DeleteBatchResult, error) {
	batchID = strings.TrimSpace(batchID)
	if batchID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch id is required")
	}
	codeIDs, err := s.codes.DeleteAvailableByBatch(ctx, batchID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete batch")
	}

	// Artifact cleanup is best effort; the rows are already gone.
	for _, codeID := range codeIDs {
		if err := s.qr.Remove(codeID); err != nil {
			s.logg.Warn(s.logg.WithCodeID(ctx, codeID), "artifact cleanup failed during batch delete")
		}
	}
	return &DeleteBatchResult{BatchID: batchID, DeletedCount: int64(len(codeIDs))}, nil
}

func (s *service) findCode(ctx context.Context, codeID string) (*models.InventoryCode, error) {
	codeID = strings.TrimSpace(codeID)
	if codeID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code id is required")
	}
	code, err := s.codes.FindByCodeID(ctx, codeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup code")
	}
	return code, nil
}
