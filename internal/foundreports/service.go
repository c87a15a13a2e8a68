package foundreports

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/enums"
	pkgerrors "github.com/shakytails/shakytails-backend/pkg/errors"
	"github.com/shakytails/shakytails-backend/pkg/logger"
	"github.com/shakytails/shakytails-backend/pkg/mailer"
	"github.com/shakytails/shakytails-backend/pkg/pagination"
)

// Service defines the found-report operations exposed to controllers.
type Service interface {
	Submit(ctx context.Context, codeID string, req SubmitReportRequest) (*ReportDTO, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID, page pagination.Params) (*ReportListDTO, error)
	ListForPet(ctx context.Context, petID, requesterID uuid.UUID) ([]ReportDTO, error)
	AdvanceStatus(ctx context.Context, reportID, requesterID uuid.UUID, req AdvanceStatusRequest) (*ReportDTO, error)
}

type reportRepository interface {
	Create(ctx context.Context, report *models.FoundReport) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoundReport, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page pagination.Params) ([]models.FoundReport, int64, error)
	ListByPet(ctx context.Context, petID uuid.UUID) ([]models.FoundReport, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type petResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error)
	FindByCodeID(ctx context.Context, codeID string) (*models.Pet, error)
}

type ownerGetter interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	reports reportRepository
	pets    petResolver
	owners  ownerGetter
	mail    mailer.Sender
	logg    *logger.Logger
}

// ServiceParams bundles the dependencies required to build a found-reports
// service.
type ServiceParams struct {
	ReportRepo reportRepository
	PetRepo    petResolver
	OwnerRepo  ownerGetter
	Mailer     mailer.Sender
	Logger     *logger.Logger
}

// NewService constructs a found-reports service with the provided
// dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ReportRepo == nil {
		return nil, fmt.Errorf("report repository is required")
	}
	if params.PetRepo == nil {
		return nil, fmt.Errorf("pet repository is required")
	}
	if params.OwnerRepo == nil {
		return nil, fmt.Errorf("owner repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	mail := params.Mailer
	if mail == nil {
		mail = mailer.NoopSender{}
	}
	return &service{
		reports: params.ReportRepo,
		pets:    params.PetRepo,
		owners:  params.OwnerRepo,
		mail:    mail,
		logg:    params.Logger,
	}, nil
}

// Submit files a finder report against the pet behind the scanned code and
// notifies the owner by email. The report lands in pending; delivering the
// email is best effort and never fails the submission.
func (s *service) Submit(ctx context.Context, codeID string, req SubmitReportRequest) (*ReportDTO, error) {
	codeID = strings.TrimSpace(codeID)
	if codeID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code id is required")
	}
	if strings.TrimSpace(req.FinderPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "finder phone is required")
	}
	if strings.TrimSpace(req.Location) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}

	pet, err := s.pets.FindByCodeID(ctx, codeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup pet")
	}

	report := &models.FoundReport{
		PetID:       pet.ID,
		FinderName:  req.FinderName,
		FinderEmail: req.FinderEmail,
		FinderPhone: strings.TrimSpace(req.FinderPhone),
		Location:    strings.TrimSpace(req.Location),
		Message:     strings.TrimSpace(req.Message),
		Status:      enums.FoundReportStatusPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store report")
	}

	s.notifyOwner(ctx, pet, report)

	dto := FromModel(report)
	dto.PetName = pet.PetName
	return dto, nil
}

func (s *service) ListForOwner(ctx context.Context, ownerID uuid.UUID, page pagination.Params) (*ReportListDTO, error) {
	page = page.Normalize()
	rows, total, err := s.reports.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reports")
	}

	names := map[uuid.UUID]string{}
	dtos := make([]ReportDTO, 0, len(rows))
	for i := range rows {
		dto := FromModel(&rows[i])
		name, ok := names[rows[i].PetID]
		if !ok {
			if pet, err := s.pets.FindByID(ctx, rows[i].PetID); err == nil {
				name = pet.PetName
			}
			names[rows[i].PetID] = name
		}
		dto.PetName = name
		dtos = append(dtos, *dto)
	}

	return &ReportListDTO{
		Reports:  dtos,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

func (s *service) ListForPet(ctx context.Context, petID, requesterID uuid.UUID) ([]ReportDTO, error) {
	pet, err := s.ownedPet(ctx, petID, requesterID)
	if err != nil {
		return nil, err
	}
	rows, err := s.reports.ListByPet(ctx, pet.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reports")
	}
	dtos := make([]ReportDTO, 0, len(rows))
	for i := range rows {
		dto := FromModel(&rows[i])
		dto.PetName = pet.PetName
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}

// AdvanceStatus moves a report forward through pending -> contacted ->
// resolved. Backward moves and repeats read as state conflicts.
func (s *service) AdvanceStatus(ctx context.Context, reportID, requesterID uuid.UUID, req AdvanceStatusRequest) (*ReportDTO, error) {
	if !req.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid report status")
	}

	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "report not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup report")
	}

	pet, err := s.pets.FindByID(ctx, report.PetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup pet")
	}
	if pet.OwnerID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "report not found")
	}

	if !report.Status.CanAdvanceTo(req.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move report from %s to %s", report.Status, req.Status))
	}
	if err := s.reports.UpdateStatus(ctx, report.ID, req.Status.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update report status")
	}

	report.Status = req.Status
	dto := FromModel(report)
	dto.PetName = pet.PetName
	return dto, nil
}

func (s *service) ownedPet(ctx context.Context, petID, requesterID uuid.UUID) (*models.Pet, error) {
	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup pet")
	}
	if pet.OwnerID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
	}
	return pet, nil
}

func (s *service) notifyOwner(ctx context.Context, pet *models.Pet, report *models.FoundReport) {
	owner, err := s.owners.FindByID(ctx, pet.OwnerID)
	if err != nil {
		s.logg.Error(ctx, "lookup owner for found notice", err)
		return
	}

	finderName := ""
	if report.FinderName != nil {
		finderName = *report.FinderName
	}
	finderEmail := ""
	if report.FinderEmail != nil {
		finderEmail = *report.FinderEmail
	}
	msg, err := mailer.PetFound(owner.Email, mailer.PetFoundParams{
		PetName:     pet.PetName,
		FinderName:  finderName,
		FinderPhone: report.FinderPhone,
		FinderEmail: finderEmail,
		Location:    report.Location,
		Message:     report.Message,
		ReportedAt:  report.CreatedAt,
	})
	if err != nil {
		s.logg.Error(ctx, "render found notice", err)
		return
	}
	if err := s.mail.Send(msg); err != nil {
		s.logg.Error(ctx, "send found notice", err)
	}
}
