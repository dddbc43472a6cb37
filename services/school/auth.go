package school

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chronoboard/models"
	"chronoboard/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthenticateAdmin logs a school admin in with the school's password.
// Unknown schools and wrong passwords are indistinguishable to the caller.
func (s *DefaultSchoolService) AuthenticateAdmin(ctx context.Context, schoolID, password, ip string) (*models.AuthResponse, error) {
	school, err := s.Repo.GetByID(ctx, schoolID)
	if err != nil {
		if errors.Is(mapRepoErr(err), ErrSchoolNotFound) {
			return nil, ErrInvalidCredentials
		}
		utils.GetLogger().Error("AuthenticateAdmin: failed to fetch school", zap.String("schoolId", schoolID), zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again: %w", err)
	}
	if school.AdminPasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(school.AdminPasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	resp, err := s.issueToken(ctx, schoolID, models.RoleSchoolAdmin, ip, time.Now())
	if err != nil {
		return nil, err
	}
	s.RecordAudit(ctx, schoolID, models.ActionAdminLogin, models.RoleSchoolAdmin, ip)
	return resp, nil
}

// AuthenticateSuperAdmin compares password with SUPER_ADMIN_PASSWORD_HASH.
func (s *DefaultSchoolService) AuthenticateSuperAdmin(ctx context.Context, password, ip string) (*models.AuthResponse, error) {
	if s.Opts.SuperAdminPasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.Opts.SuperAdminPasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	utils.GetLogger().Info("Super admin login", zap.String("ip", ip))
	return s.issueToken(ctx, models.SuperAdminSubject, models.RoleSuperAdmin, ip, time.Now())
}

func (s *DefaultSchoolService) issueToken(ctx context.Context, subject, role, ip string, now time.Time) (*models.AuthResponse, error) {
	token, expiresAt, err := utils.GenerateToken(subject, role, s.Opts.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	session := utils.AdminSession{
		Subject:   subject,
		Role:      role,
		IP:        ip,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.Sessions.Save(ctx, utils.HashToken(token), session); err != nil {
		return nil, fmt.Errorf("failed to create admin session: %w", err)
	}

	resp := &models.AuthResponse{Token: token, Role: role, ExpiresAt: expiresAt.Unix()}
	if role == models.RoleSchoolAdmin {
		resp.SchoolID = subject
	}
	return resp, nil
}

// ValidateSession checks the token signature and that its session is still live.
func (s *DefaultSchoolService) ValidateSession(ctx context.Context, token string) (*utils.TokenClaims, error) {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	session, err := s.Sessions.Get(ctx, claims.Subject, utils.HashToken(token))
	if errors.Is(err, utils.ErrSessionNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load admin session: %w", err)
	}
	if session.Role != claims.Role {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// Logout revokes the session behind token.
func (s *DefaultSchoolService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return ErrUnauthorized
	}
	return s.Sessions.Delete(ctx, claims.Subject, utils.HashToken(token))
}
