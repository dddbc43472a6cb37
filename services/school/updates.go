package school

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chronoboard/models"
	"chronoboard/services/color"
	"chronoboard/services/schedule"
	"chronoboard/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// apply runs mutate through the repository, then audits and publishes.
func (s *DefaultSchoolService) apply(ctx context.Context, schoolID, action, actor, details string, mutate func(*models.School) error) (*models.School, error) {
	school, err := s.Repo.Update(ctx, schoolID, mutate)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.RecordAudit(ctx, schoolID, action, actor, details)
	s.publish(ctx, schoolID)
	school.AdminPasswordHash = ""
	return school, nil
}

func (s *DefaultSchoolService) publish(ctx context.Context, schoolID string) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Reload(ctx, schoolID); err != nil {
		utils.GetLogger().Warn("Board reload after edit failed", zap.String("schoolId", schoolID), zap.Error(err))
	}
}

// ReplaceSchedule swaps the whole schedule. Items are validated, normalized,
// classified and sorted before anything is stored; a rejected schedule
// leaves the previous one untouched.
func (s *DefaultSchoolService) ReplaceSchedule(ctx context.Context, schoolID string, items []models.ScheduleItem, actor string) (*models.School, error) {
	prepared, err := schedule.Prepare(items)
	if err != nil {
		return nil, err
	}
	details := fmt.Sprintf("%d items", len(prepared))
	return s.apply(ctx, schoolID, models.ActionScheduleUpdated, actor, details, func(school *models.School) error {
		school.Schedule = prepared
		return nil
	})
}

func (s *DefaultSchoolService) UpdateDesign(ctx context.Context, schoolID string, req models.DesignUpdate, actor string) (*models.School, error) {
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}
	design, err := normalizeDesign(req)
	if err != nil {
		return nil, err
	}
	details := fmt.Sprintf("primary=%s background=%s accent=%s", design.PrimaryColor, design.BackgroundColor, design.AccentColor)
	return s.apply(ctx, schoolID, models.ActionDesignUpdated, actor, details, func(school *models.School) error {
		school.Design = design
		return nil
	})
}

func normalizeDesign(req models.DesignUpdate) (models.Design, error) {
	var out models.Design
	fields := []struct {
		name string
		in   string
		out  *string
	}{
		{"primaryColor", req.PrimaryColor, &out.PrimaryColor},
		{"backgroundColor", req.BackgroundColor, &out.BackgroundColor},
		{"accentColor", req.AccentColor, &out.AccentColor},
	}
	for _, f := range fields {
		v, err := color.Normalize(f.in)
		if err != nil {
			return out, &ValidationError{Fields: map[string]string{f.name: err.Error()}}
		}
		*f.out = v
	}
	return out, nil
}

func (s *DefaultSchoolService) ResetDesign(ctx context.Context, schoolID string, actor string) (*models.School, error) {
	return s.apply(ctx, schoolID, models.ActionDesignReset, actor, "", func(school *models.School) error {
		school.Design = models.DefaultDesign
		return nil
	})
}

func (s *DefaultSchoolService) UpdateBell(ctx context.Context, schoolID string, req models.BellUpdate, actor string) (*models.School, error) {
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}
	settings := models.BellSettings{
		SoundEnabled: req.SoundEnabled,
		Preset:       strings.ToLower(strings.TrimSpace(req.Preset)),
		Volume:       req.Volume,
		SoundURL:     req.SoundURL,
	}
	details := fmt.Sprintf("enabled=%t preset=%s volume=%d", settings.SoundEnabled, settings.Preset, settings.Volume)
	return s.apply(ctx, schoolID, models.ActionBellUpdated, actor, details, func(school *models.School) error {
		school.Bell = settings
		return nil
	})
}

func (s *DefaultSchoolService) UpdateContent(ctx context.Context, schoolID string, req models.ContentUpdate, actor string) (*models.School, error) {
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}
	items := make([]models.BoardItem, len(req.Items))
	for i, item := range req.Items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		items[i] = item
	}
	board := models.InfoBoard{Content: req.Content, Items: items}
	details := fmt.Sprintf("%d items", len(items))
	return s.apply(ctx, schoolID, models.ActionContentUpdated, actor, details, func(school *models.School) error {
		school.InfoBoard = board
		return nil
	})
}

func (s *DefaultSchoolService) UpdateProfile(ctx context.Context, schoolID string, req models.ProfileUpdate, actor string) (*models.School, error) {
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}
	return s.apply(ctx, schoolID, models.ActionProfileUpdated, actor, req.Name, func(school *models.School) error {
		school.Name = req.Name
		school.LogoURL = req.LogoURL
		if req.Timezone != "" {
			school.Timezone = req.Timezone
		}
		if req.Locale != "" {
			school.Locale = req.Locale
		}
		school.RefreshInterval = req.RefreshInterval
		return nil
	})
}

// SetLogo stores an uploaded logo URL.
func (s *DefaultSchoolService) SetLogo(ctx context.Context, schoolID, logoURL, actor string) (*models.School, error) {
	return s.apply(ctx, schoolID, models.ActionImageUploaded, actor, "logo "+logoURL, func(school *models.School) error {
		school.LogoURL = logoURL
		return nil
	})
}

// ChangeAdminPassword verifies the current password, stores the new hash,
// revokes every session of the school and returns a fresh token.
func (s *DefaultSchoolService) ChangeAdminPassword(ctx context.Context, schoolID string, req models.PasswordChange, actor string) (*models.AuthResponse, error) {
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = s.Repo.Update(ctx, schoolID, func(school *models.School) error {
		// super admins may reset without knowing the current password
		if actor != models.RoleSuperAdmin {
			if err := bcrypt.CompareHashAndPassword([]byte(school.AdminPasswordHash), []byte(req.CurrentPassword)); err != nil {
				return ErrInvalidCredentials
			}
		}
		school.AdminPasswordHash = string(hash)
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.RecordAudit(ctx, schoolID, models.ActionPasswordChanged, actor, "")

	if err := s.Sessions.DeleteAll(ctx, schoolID); err != nil {
		utils.GetLogger().Warn("Failed to revoke sessions after password change", zap.String("schoolId", schoolID), zap.Error(err))
	}
	return s.issueToken(ctx, schoolID, models.RoleSchoolAdmin, "", time.Now())
}
