package school

import (
	"context"
	"errors"
	"fmt"

	schoolRepo "chronoboard/database/repository/school"
	"chronoboard/models"
	"chronoboard/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// mapRepoErr translates repository sentinels into service sentinels.
func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, schoolRepo.ErrNotFound):
		return ErrSchoolNotFound
	case errors.Is(err, schoolRepo.ErrAlreadyExists):
		return ErrSchoolExists
	default:
		return err
	}
}

func (s *DefaultSchoolService) CreateSchool(ctx context.Context, req models.CreateSchoolRequest) (*models.School, error) {
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	school := &models.School{
		ID:                req.ID,
		Name:              req.Name,
		Timezone:          req.Timezone,
		Locale:            req.Locale,
		Design:            models.DefaultDesign,
		Schedule:          []models.ScheduleItem{},
		Bell:              models.DefaultBell,
		InfoBoard:         models.InfoBoard{Items: []models.BoardItem{}},
		RefreshInterval:   req.RefreshInterval,
		AdminPasswordHash: string(hash),
	}
	if school.ID == "" {
		school.ID = uuid.New().String()
	}
	if school.Timezone == "" {
		school.Timezone = s.Opts.DefaultTimezone
	}
	if school.Locale == "" {
		school.Locale = "ka"
	}
	if school.RefreshInterval == 0 {
		school.RefreshInterval = 10
	}

	if err := s.Repo.Create(ctx, school); err != nil {
		return nil, mapRepoErr(err)
	}
	utils.GetLogger().Info("School created", zap.String("schoolId", school.ID), zap.String("name", school.Name))
	s.RecordAudit(ctx, school.ID, models.ActionSchoolCreated, models.RoleSuperAdmin, school.Name)
	if s.Publisher != nil {
		if err := s.Publisher.Track(ctx, school.ID); err != nil {
			utils.GetLogger().Warn("Board tracking of new school failed", zap.String("schoolId", school.ID), zap.Error(err))
		}
	}
	return school, nil
}

func (s *DefaultSchoolService) ListSchools(ctx context.Context) ([]models.School, error) {
	schools, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range schools {
		schools[i].AdminPasswordHash = ""
	}
	return schools, nil
}

func (s *DefaultSchoolService) GetSchool(ctx context.Context, schoolID string) (*models.School, error) {
	school, err := s.Repo.GetByID(ctx, schoolID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return school, nil
}

// GetPublicSchool returns the record shown on the unauthenticated board.
func (s *DefaultSchoolService) GetPublicSchool(ctx context.Context, schoolID string) (*models.School, error) {
	school, err := s.GetSchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	school.AdminPasswordHash = ""
	return school, nil
}

func (s *DefaultSchoolService) DeleteSchool(ctx context.Context, schoolID string) error {
	if err := s.Repo.Delete(ctx, schoolID); err != nil {
		return mapRepoErr(err)
	}
	if s.Publisher != nil {
		s.Publisher.Forget(schoolID)
	}
	if err := s.Sessions.DeleteAll(ctx, schoolID); err != nil {
		utils.GetLogger().Warn("Failed to revoke sessions of deleted school", zap.String("schoolId", schoolID), zap.Error(err))
	}
	// audit history outlives the school
	s.RecordAudit(ctx, schoolID, models.ActionSchoolDeleted, models.RoleSuperAdmin, "")
	utils.GetLogger().Info("School deleted", zap.String("schoolId", schoolID))
	return nil
}
