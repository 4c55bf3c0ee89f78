package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"devtracker/internal/domain"
	"devtracker/internal/repository"
	"devtracker/pkg/validator"
)

type PatientServiceImpl struct {
	repo          repository.PatientRepository
	defaultRegion string
	logger        *zap.Logger
}

func NewPatientService(repo repository.PatientRepository, defaultRegion string, logger *zap.Logger) *PatientServiceImpl {
	return &PatientServiceImpl{
		repo:          repo,
		defaultRegion: defaultRegion,
		logger:        logger,
	}
}

func (s *PatientServiceImpl) List(ctx context.Context, userID string) ([]domain.Patient, error) {
	patients, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list patients", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

func (s *PatientServiceImpl) GetByID(ctx context.Context, userID string, id int64) (*domain.Patient, error) {
	patient, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	return patient, nil
}

func (s *PatientServiceImpl) Create(ctx context.Context, userID string, dto domain.CreatePatientDTO) (int64, error) {
	patient := domain.Patient{
		UserID:    userID,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Phone:     dto.Phone,
		Email:     dto.Email,
	}

	if err := s.normalize(&patient); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, patient)
	if err != nil {
		s.logger.Error("failed to create patient", zap.String("user_id", userID), zap.Error(err))
		return 0, fmt.Errorf("create patient: %w", err)
	}

	return id, nil
}

func (s *PatientServiceImpl) Update(ctx context.Context, userID string, id int64, dto domain.UpdatePatientDTO) error {
	patient, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return s.lookupError(id, err)
	}

	if dto.FirstName != nil {
		patient.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		patient.LastName = *dto.LastName
	}
	if dto.Phone != nil {
		patient.Phone = *dto.Phone
	}
	if dto.Email != nil {
		patient.Email = dto.Email
	}

	if err := s.normalize(patient); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, *patient, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to update patient", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("update patient: %w", err)
	}

	return nil
}

func (s *PatientServiceImpl) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete patient", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("delete patient: %w", err)
	}
	return nil
}

func (s *PatientServiceImpl) lookupError(id int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	s.logger.Error("failed to get patient", zap.Int64("id", id), zap.Error(err))
	return fmt.Errorf("get patient: %w", err)
}

// normalize validates names, phone and email in place. Phones are stored in E.164
// and an empty email is stored as NULL.
func (s *PatientServiceImpl) normalize(p *domain.Patient) error {
	if !validator.ValidateNamePart(p.FirstName) || !validator.ValidateNamePart(p.LastName) {
		return domain.NewValidationError("first_name and last_name may contain only letters, spaces, hyphens and apostrophes")
	}
	p.FirstName = validator.FormatName(p.FirstName)
	p.LastName = validator.FormatName(p.LastName)

	phone, ok := validator.NormalizePhone(p.Phone, s.defaultRegion)
	if !ok {
		return domain.NewValidationError("invalid phone number")
	}
	p.Phone = phone

	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if email == "" {
			p.Email = nil
			return nil
		}
		if !validator.ValidateEmail(email) {
			return domain.NewValidationError("invalid email address")
		}
		p.Email = &email
	}

	return nil
}
