package pets

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shakytails/shakytails-backend/internal/reminders"
	"github.com/shakytails/shakytails-backend/pkg/db/models"
	pkgerrors "github.com/shakytails/shakytails-backend/pkg/errors"
	"github.com/shakytails/shakytails-backend/pkg/logger"
	"github.com/shakytails/shakytails-backend/pkg/mailer"
	"github.com/shakytails/shakytails-backend/pkg/qr"
	"github.com/shakytails/shakytails-backend/pkg/types"
)

const recentScansLimit = 10

// Service defines the pet operations exposed to controllers.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, req CreatePetRequest) (*PetDTO, error)
	Update(ctx context.Context, petID, requesterID uuid.UUID, req UpdatePetRequest) (*PetDTO, error)
	Delete(ctx context.Context, petID, requesterID uuid.UUID) error
	Mine(ctx context.Context, ownerID uuid.UUID) ([]PetDTO, error)
	Get(ctx context.Context, petID, requesterID uuid.UUID) (*PetDTO, error)
	Resolve(ctx context.Context, codeID string, origin ScanOrigin) (*PublicPetDTO, error)
	MarkLost(ctx context.Context, petID, requesterID uuid.UUID, req MarkLostRequest) (*PetDTO, error)
	AddVaccination(ctx context.Context, petID, requesterID uuid.UUID, req AddVaccinationRequest) (*PetDTO, error)
	Stats(ctx context.Context, petID, requesterID uuid.UUID) (*PetStatsDTO, error)
	Regenerate(ctx context.Context, petID, requesterID uuid.UUID) (*RegenerateResult, error)
	DataURL(ctx context.Context, petID, requesterID uuid.UUID) (*DataURLResult, error)
}

type petRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error)
	FindByCodeID(ctx context.Context, codeID string) (*models.Pet, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pet, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateVaccinations(ctx context.Context, id uuid.UUID, records types.VaccinationRecords) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementScanCount(ctx context.Context, id uuid.UUID) error
	CreateScanEvent(ctx context.Context, event *models.ScanEvent) error
	RecentScans(ctx context.Context, petID uuid.UUID, limit int) ([]models.ScanEvent, error)
}

type ownerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type reminderWriter interface {
	Create(ctx context.Context, dto reminders.CreateReminderDTO) (*models.VaccineReminder, error)
}

type petCreator interface {
	CreateWithInventoryCode(ctx context.Context, pet *models.Pet, codeID string) error
	CreateStandalone(ctx context.Context, pet *models.Pet) error
}

type codeArtist interface {
	Render(codeID string) (string, error)
	DataURL(codeID string) (string, error)
}

type service struct {
	pets      petRepository
	owners    ownerRepository
	reminders reminderWriter
	store     petCreator
	qr        codeArtist
	mail      mailer.Sender
	logg      *logger.Logger
}

// ServiceParams bundles the dependencies required to build a pets service.
type ServiceParams struct {
	PetRepo      petRepository
	OwnerRepo    ownerRepository
	ReminderRepo reminderWriter
	Store        petCreator
	Renderer     codeArtist
	Mailer       mailer.Sender
	Logger       *logger.Logger
}

// NewService constructs a pets service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.PetRepo == nil {
		return nil, fmt.Errorf("pet repository is required")
	}
	if params.OwnerRepo == nil {
		return nil, fmt.Errorf("owner repository is required")
	}
	if params.ReminderRepo == nil {
		return nil, fmt.Errorf("reminder repository is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("pet store is required")
	}
	if params.Renderer == nil {
		return nil, fmt.Errorf("code renderer is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	mail := params.Mailer
	if mail == nil {
		mail = mailer.NoopSender{}
	}
	return &service{
		pets:      params.PetRepo,
		owners:    params.OwnerRepo,
		reminders: params.ReminderRepo,
		store:     params.Store,
		qr:        params.Renderer,
		mail:      mail,
		logg:      params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req CreatePetRequest) (*PetDTO, error) {
	if !req.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pet type")
	}
	if req.Gender != nil && !req.Gender.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pet gender")
	}

	pet := &models.Pet{
		OwnerID:            ownerID,
		PetName:            strings.TrimSpace(req.PetName),
		Type:               req.Type,
		Breed:              req.Breed,
		Age:                req.Age,
		Gender:             req.Gender,
		Color:              req.Color,
		ProfileImageURL:    req.ProfileImageURL,
		MedicalHistory:     req.MedicalHistory,
		Allergies:          req.Allergies,
		VaccinationRecords: req.VaccinationRecords,
		EmergencyContacts:  req.EmergencyContacts,
	}

	codeID := strings.TrimSpace(req.CodeID)
	if codeID != "" {
		if err := s.store.CreateWithInventoryCode(ctx, pet, codeID); err != nil {
			return nil, err
		}
		return FromModel(pet), nil
	}

	// no pre-printed tag: mint a standalone code for this pet
	freshCode := qr.NewCodeID()
	imagePath, err := s.qr.Render(freshCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render code")
	}
	pet.CodeID = freshCode
	pet.CodeImagePath = imagePath

	if err := s.store.CreateStandalone(ctx, pet); err != nil {
		return nil, err
	}
	return FromModel(pet), nil
}

func (s *service) Update(ctx context.Context, petID, requesterID uuid.UUID, req UpdatePetRequest) (*PetDTO, error) {
	pet, err := s.ownedPet(ctx, petID, requesterID)
	if err != nil {
		return nil, err
	}
	if req.Gender != nil && !req.Gender.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pet gender")
	}

	updates := map[string]any{}
	if req.PetName != nil {
		updates["pet_name"] = strings.TrimSpace(*req.PetName)
	}
	if req.Breed != nil {
		updates["breed"] = *req.Breed
	}
	if req.Age != nil {
		updates["age"] = *req.Age
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.ProfileImageURL != nil {
		updates["profile_image_url"] = *req.ProfileImageURL
	}
	if req.MedicalHistory != nil {
		updates["medical_history"] = *req.MedicalHistory
	}
	if req.Allergies != nil {
		updates["allergies"] = *req.Allergies
	}
	if req.EmergencyContacts != nil {
		updates["emergency_contacts"] = *req.EmergencyContacts
	}

	if err := s.pets.Update(ctx, pet.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update pet")
	}
	return s.Get(ctx, petID, requesterID)
}

func (s *service) Delete(ctx context.Context, petID, requesterID uuid.UUID) error {
	pet, err := s.ownedPet(ctx, petID, requesterID)
	if err != nil {
		return err
	}
	if err := s.pets.Delete(ctx, pet.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete pet")
	}
	return nil
}

func (s *service) Mine(ctx context.Context, ownerID uuid.UUID) ([]PetDTO, error) {
	rows, err := s.pets.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pets")
	}
	dtos := make([]PetDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, petID, requesterID uuid.UUID) (*PetDTO, error) {
	pet, err := s.ownedPet(ctx, petID, requesterID)
	if err != nil {
		return nil, err
	}
	return FromModel(pet), nil
}

// Resolve returns the public profile for a scanned code and records the
// scan: an atomic counter bump plus one append-only event. The scan side
// effects are deliberately not idempotent; every resolution counts.
func (s *service) Resolve(ctx context.Context, codeID string, origin ScanOrigin) (*PublicPetDTO, error) {
	codeID = strings.TrimSpace(codeID)
	if codeID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code id is required")
	}

	pet, err := s.pets.FindByCodeID(ctx, codeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup pet")
	}

	owner, err := s.owners.FindByID(ctx, pet.OwnerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup owner")
	}

	if err := s.pets.IncrementScanCount(ctx, pet.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record scan")
	}
	event := &models.ScanEvent{
		PetID:      pet.ID,
		OccurredAt: time.Now().UTC(),
		IPAddress:  origin.IPAddress,
		Location:   origin.Location,
	}
	if err := s.pets.CreateScanEvent(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record scan event")
	}

	return &PublicPetDTO{
		PetName:            pet.PetName,
		Type:               pet.Type,
		Breed:              pet.Breed,
		Age:                pet.Age,
		Gender:             pet.Gender,
		Color:              pet.Color,
		ProfileImageURL:    pet.ProfileImageURL,
		MedicalHistory:     pet.MedicalHistory,
		Allergies:          pet.Allergies,
		VaccinationRecords: pet.VaccinationRecords,
		EmergencyContacts:  pet.EmergencyContacts,
		IsLost:             pet.IsLost,
		LastKnownLocation:  pet.LastKnownLocation,
		RewardNote:         pet.RewardNote,
		Owner: OwnerContact{
			Name:    owner.Name,
			Phone:   owner.Phone,
			Email:   owner.Email,
			Address: owner.Address,
		},
	}, nil
}

func (s *service) MarkLost(ctx context.Context, petID, requesterID uuid.UUID, req MarkLostRequest) (*PetDTO, error) {
	pet, err := s.ownedPet(ctx, petID, requesterID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"is_lost":             req.IsLost,
		"last_known_location": strings.TrimSpace(req.LastKnownLocation),
		"reward_note":         strings.TrimSpace(req.RewardNote),
	}
	if err := s.pets.Update(ctx, pet.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark lost")
	}

	if req.IsLost {
		s.sendLostNotice(ctx, pet, req)
	}

	return s.Get(ctx, petID, requesterID)
}

func (s *service) AddVaccination(ctx context.Context, petID, requesterID uuid.UUID, req AddVaccinationRequest) (*PetDTO, error) {
	pet, err := s.ownedPet(ctx, petID, requesterID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.VaccineName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vaccine name is required")
	}

	records := append(pet.VaccinationRecords, types.VaccinationRecord{
		VaccineName:  strings.TrimSpace(req.VaccineName),
		Date:         req.Date,
		NextDueDate:  req.NextDueDate,
		Veterinarian: req.Veterinarian,
		Notes:        req.Notes,
	})
	if err := s.pets.UpdateVaccinations(ctx, pet.ID, records); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store vaccination")
	}

	if req.NextDueDate != nil {
		_, err := s.reminders.Create(ctx, reminders.CreateReminderDTO{
			PetID:       pet.ID,
			OwnerID:     pet.OwnerID,
			VaccineName: strings.TrimSpace(req.VaccineName),
			DueDate:     *req.NextDueDate,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "schedule reminder")
		}
	}

	return s.Get(ctx, petID, requesterID)
}

func (s *service) Stats(ctx context.Context, petID, requesterID uuid.UUID) (*PetStatsDTO, error) {
	pet, err := s.ownedPet(ctx, petID, requesterID)
	if err != nil {
		return nil, err
	}

	events, err := s.pets.RecentScans(ctx, pet.ID, recentScansLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load scan history")
	}
	scans := make([]ScanSummary, 0, len(events))
	for _, e := range events {
		scans = append(scans, ScanSummary{
			OccurredAt: e.OccurredAt,
			IPAddress:  e.IPAddress,
			Location:   e.Location,
		})
	}

	return &PetStatsDTO{
		PetID:            pet.ID,
		ScanCount:        pet.ScanCount,
		RecentScans:      scans,
		VaccinationCount: len(pet.VaccinationRecords),
		IsLost:           pet.IsLost,
	}, nil
}

func (s *service) Regenerate(ctx context.Context, petID, requesterID uuid.UUID) (*RegenerateResult, error) {
	pet, err := s.ownedPet(ctx, petID, requesterID)
	if err != nil {
		return nil, err
	}

	imagePath, err := s.qr.Render(pet.CodeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render code")
	}
	if err := s.pets.Update(ctx, pet.ID, map[string]any{"code_image_path": imagePath}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store image path")
	}

	return &RegenerateResult{CodeID: pet.CodeID, CodeImagePath: imagePath}, nil
}

func (s *service) DataURL(ctx context.Context, petID, requesterID uuid.UUID) (*DataURLResult, error) {
	pet, err := s.ownedPet(ctx, petID, requesterID)
	if err != nil {
		return nil, err
	}
	dataURL, err := s.qr.DataURL(pet.CodeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode code")
	}
	return &DataURLResult{CodeID: pet.CodeID, DataURL: dataURL}, nil
}

// ownedPet loads the pet and enforces that the requester owns it. A foreign
// pet reads as NotFound so the endpoint does not leak existence.
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

func (s *service) sendLostNotice(ctx context.Context, pet *models.Pet, req MarkLostRequest) {
	owner, err := s.owners.FindByID(ctx, pet.OwnerID)
	if err != nil {
		s.logg.Error(ctx, "lookup owner for lost notice", err)
		return
	}
	dataURL, err := s.qr.DataURL(pet.CodeID)
	if err != nil {
		s.logg.Error(ctx, "render code for lost notice", err)
		dataURL = ""
	}
	msg, err := mailer.PetLost(owner.Email, mailer.PetLostParams{
		PetName:           pet.PetName,
		LastKnownLocation: strings.TrimSpace(req.LastKnownLocation),
		QRDataURL:         template.URL(dataURL),
	})
	if err != nil {
		s.logg.Error(ctx, "render lost notice", err)
		return
	}
	if err := s.mail.Send(msg); err != nil {
		s.logg.Error(ctx, "send lost notice", err)
	}
}
