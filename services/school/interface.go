// Package school is the tenant service: school CRUD, whole-document edits
// from the admin panel, admin authentication and the audit trail.
package school

import (
	"context"
	"time"

	auditlogRepo "chronoboard/database/repository/auditlog"
	schoolRepo "chronoboard/database/repository/school"
	"chronoboard/models"
	"chronoboard/utils"
)

// SchoolService defines the tenant operations exposed over HTTP.
type SchoolService interface {
	// Super admin
	CreateSchool(ctx context.Context, req models.CreateSchoolRequest) (*models.School, error)
	ListSchools(ctx context.Context) ([]models.School, error)
	DeleteSchool(ctx context.Context, schoolID string) error

	// Reads
	GetSchool(ctx context.Context, schoolID string) (*models.School, error)
	GetPublicSchool(ctx context.Context, schoolID string) (*models.School, error)

	// School admin edits
	ReplaceSchedule(ctx context.Context, schoolID string, items []models.ScheduleItem, actor string) (*models.School, error)
	UpdateDesign(ctx context.Context, schoolID string, req models.DesignUpdate, actor string) (*models.School, error)
	ResetDesign(ctx context.Context, schoolID string, actor string) (*models.School, error)
	UpdateBell(ctx context.Context, schoolID string, req models.BellUpdate, actor string) (*models.School, error)
	UpdateContent(ctx context.Context, schoolID string, req models.ContentUpdate, actor string) (*models.School, error)
	UpdateProfile(ctx context.Context, schoolID string, req models.ProfileUpdate, actor string) (*models.School, error)
	SetLogo(ctx context.Context, schoolID, logoURL, actor string) (*models.School, error)
	ChangeAdminPassword(ctx context.Context, schoolID string, req models.PasswordChange, actor string) (*models.AuthResponse, error)

	// Auth
	AuthenticateAdmin(ctx context.Context, schoolID, password, ip string) (*models.AuthResponse, error)
	AuthenticateSuperAdmin(ctx context.Context, password, ip string) (*models.AuthResponse, error)
	ValidateSession(ctx context.Context, token string) (*utils.TokenClaims, error)
	Logout(ctx context.Context, token string) error

	// Audit
	RecordAudit(ctx context.Context, schoolID, action, actor, details string)
	ListAuditLogs(ctx context.Context, schoolID string, limit int) ([]models.AuditLog, error)
	ClearAuditLogs(ctx context.Context, schoolID string) (int64, error)
}

// Publisher is told about every stored change so connected boards pick it up.
type Publisher interface {
	// Track starts evaluating a newly created school.
	Track(ctx context.Context, schoolID string) error
	Reload(ctx context.Context, schoolID string) error
	Forget(schoolID string)
}

// Options carries the configuration the service depends on.
type Options struct {
	DefaultTimezone        string
	SessionTTL             time.Duration
	SuperAdminPasswordHash string
}

// DefaultSchoolService is the production implementation.
type DefaultSchoolService struct {
	Repo      schoolRepo.SchoolRepository
	AuditRepo auditlogRepo.AuditLogRepository
	Sessions  utils.SessionStore
	Publisher Publisher
	Validator *Validator
	Opts      Options
}

// NewDefaultSchoolService wires a service; a nil publisher is allowed.
func NewDefaultSchoolService(
	repo schoolRepo.SchoolRepository,
	auditRepo auditlogRepo.AuditLogRepository,
	sessions utils.SessionStore,
	publisher Publisher,
	opts Options,
) *DefaultSchoolService {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = utils.DefaultSessionTTL
	}
	if opts.DefaultTimezone == "" {
		opts.DefaultTimezone = "UTC"
	}
	return &DefaultSchoolService{
		Repo:      repo,
		AuditRepo: auditRepo,
		Sessions:  sessions,
		Publisher: publisher,
		Validator: NewValidator(),
		Opts:      opts,
	}
}
