package school

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chronoboard/config"
	auditlogRepo "chronoboard/database/repository/auditlog"
	schoolRepo "chronoboard/database/repository/school"
	"chronoboard/models"
	"chronoboard/services/schedule"
	"chronoboard/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakePublisher struct {
	mu       sync.Mutex
	tracked  []string
	reloaded []string
	forgot   []string
	err      error
}

func (p *fakePublisher) Track(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tracked = append(p.tracked, id)
	return p.err
}

func (p *fakePublisher) Reload(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reloaded = append(p.reloaded, id)
	return p.err
}

func (p *fakePublisher) Forget(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forgot = append(p.forgot, id)
}

type fixture struct {
	svc       *DefaultSchoolService
	repo      *schoolRepo.MemorySchoolRepo
	audit     *auditlogRepo.MemoryAuditLogRepo
	sessions  *utils.MemorySessionStore
	publisher *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	config.AppConfig.JWTSecret = "school-test-secret"
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })

	rootHash, err := bcrypt.GenerateFromPassword([]byte("root-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	f := &fixture{
		repo:      schoolRepo.NewMemorySchoolRepo(),
		audit:     auditlogRepo.NewMemoryAuditLogRepo(),
		sessions:  utils.NewMemorySessionStore(),
		publisher: &fakePublisher{},
	}
	f.svc = NewDefaultSchoolService(f.repo, f.audit, f.sessions, f.publisher, Options{
		DefaultTimezone:        "Asia/Tbilisi",
		SessionTTL:             time.Hour,
		SuperAdminPasswordHash: string(rootHash),
	})
	return f
}

func (f *fixture) createSchool(t *testing.T, id string) *models.School {
	t.Helper()
	s, err := f.svc.CreateSchool(context.Background(), models.CreateSchoolRequest{
		ID:            id,
		Name:          "School " + id,
		AdminPassword: "secret-1",
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) actions(t *testing.T, schoolID string) []string {
	t.Helper()
	logs, err := f.audit.ListBySchool(context.Background(), schoolID, 0)
	require.NoError(t, err)
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = l.Action
	}
	return out
}

func TestCreateSchoolAppliesDefaults(t *testing.T) {
	f := newFixture(t)
	s := f.createSchool(t, "school-1")

	assert.Equal(t, "Asia/Tbilisi", s.Timezone)
	assert.Equal(t, "ka", s.Locale)
	assert.Equal(t, 10, s.RefreshInterval)
	assert.Equal(t, models.DefaultDesign, s.Design)
	assert.Equal(t, models.DefaultBell, s.Bell)
	assert.NotEqual(t, "secret-1", s.AdminPasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(s.AdminPasswordHash), []byte("secret-1")))
	assert.Equal(t, []string{models.ActionSchoolCreated}, f.actions(t, "school-1"))

	_, err := f.svc.CreateSchool(context.Background(), models.CreateSchoolRequest{ID: "school-1", Name: "Dup", AdminPassword: "secret-1"})
	assert.ErrorIs(t, err, ErrSchoolExists)
}

func TestCreateSchoolGeneratesID(t *testing.T) {
	f := newFixture(t)
	s, err := f.svc.CreateSchool(context.Background(), models.CreateSchoolRequest{Name: "No id", AdminPassword: "secret-1", Locale: "en", RefreshInterval: 5})
	require.NoError(t, err)
	assert.Len(t, s.ID, 36)
	assert.Equal(t, "en", s.Locale)
	assert.Equal(t, 5, s.RefreshInterval)
}

func TestCreateSchoolValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateSchool(context.Background(), models.CreateSchoolRequest{
		ID:              "Bad Id",
		AdminPassword:   "abc",
		Locale:          "fr",
		RefreshInterval: 7,
		Timezone:        "Nowhere/City",
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "id")
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "adminPassword")
	assert.Contains(t, verr.Fields, "locale")
	assert.Contains(t, verr.Fields, "refreshInterval")
	assert.Contains(t, verr.Fields, "timezone")
	assert.Equal(t, "name is required", verr.Fields["name"])
}

func TestListAndGetStripPasswordHash(t *testing.T) {
	f := newFixture(t)
	f.createSchool(t, "a")
	f.createSchool(t, "b")

	list, err := f.svc.ListSchools(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, s := range list {
		assert.Empty(t, s.AdminPasswordHash)
	}

	public, err := f.svc.GetPublicSchool(context.Background(), "a")
	require.NoError(t, err)
	assert.Empty(t, public.AdminPasswordHash)

	private, err := f.svc.GetSchool(context.Background(), "a")
	require.NoError(t, err)
	assert.NotEmpty(t, private.AdminPasswordHash)

	_, err = f.svc.GetPublicSchool(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSchoolNotFound)
}

func TestReplaceScheduleNormalizesAndPublishes(t *testing.T) {
	f := newFixture(t)
	f.createSchool(t, "a")

	s, err := f.svc.ReplaceSchedule(context.Background(), "a", []models.ScheduleItem{
		{Name: "Period 2", StartTime: "9:00", EndTime: "09:45"},
		{Name: "Big Break", StartTime: "08:45", EndTime: "09:00"},
		{ID: "p1", Name: "Period 1", StartTime: "08:00", EndTime: "08:45"},
	}, models.RoleSchoolAdmin)
	require.NoError(t, err)

	require.Len(t, s.Schedule, 3)
	assert.Equal(t, "p1", s.Schedule[0].ID)
	assert.Equal(t, models.KindBreak, s.Schedule[1].Kind)
	assert.Equal(t, "09:00", s.Schedule[2].StartTime)
	assert.Equal(t, models.KindLesson, s.Schedule[2].Kind)
	assert.NotEmpty(t, s.Schedule[2].ID)
	assert.Empty(t, s.AdminPasswordHash)

	assert.Equal(t, []string{"a"}, f.publisher.reloaded)
	assert.Equal(t, models.ActionScheduleUpdated, f.actions(t, "a")[0])
}

func TestReplaceScheduleRejectsInvalidAndKeepsPrevious(t *testing.T) {
	f := newFixture(t)
	f.createSchool(t, "a")
	_, err := f.svc.ReplaceSchedule(context.Background(), "a", []models.ScheduleItem{
		{ID: "p1", Name: "Period 1", StartTime: "08:00", EndTime: "08:45"},
	}, models.RoleSchoolAdmin)
	require.NoError(t, err)

	_, err = f.svc.ReplaceSchedule(context.Background(), "a", []models.ScheduleItem{
		{ID: "p1", Name: "Period 1", StartTime: "08:00", EndTime: "08:45"},
		{ID: "p2", Name: "Period 2", StartTime: "25:00", EndTime: "26:00"},
	}, models.RoleSchoolAdmin)
	require.ErrorIs(t, err, schedule.ErrInvalidSchedule)
	var serr *schedule.InvalidScheduleError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 1, serr.Index)

	stored, err := f.svc.GetSchool(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, stored.Schedule, 1)
	assert.Len(t, f.publisher.reloaded, 1)

	_, err = f.svc.ReplaceSchedule(context.Background(), "missing", nil, models.RoleSchoolAdmin)
	assert.ErrorIs(t, err, ErrSchoolNotFound)
}

func TestReplaceScheduleWithEmptyList(t *testing.T) {
	f := newFixture(t)
	f.createSchool(t, "a")
	s, err := f.svc.ReplaceSchedule(context.Background(), "a", []models.ScheduleItem{}, models.RoleSchoolAdmin)
	require.NoError(t, err)
	assert.Empty(t, s.Schedule)
}

func TestUpdateDesignNormalizesColors(t *testing.T) {
	f := newFixture(t)
	f.createSchool(t, "a")

	s, err := f.svc.UpdateDesign(context.Background(), "a", models.DesignUpdate{
		PrimaryColor:    "#ff0000",
		BackgroundColor: "hsl(240, 67%, 94.1%)",
		AccentColor:     "276 100% 50%",
	}, models.RoleSchoolAdmin)
	require.NoError(t, err)
	assert.Equal(t, "0 100% 50%", s.Design.PrimaryColor)
	assert.Equal(t, "240 67% 94.1%", s.Design.BackgroundColor)
	assert.Equal(t, "276 100% 50%", s.Design.AccentColor)

	_, err = f.svc.UpdateDesign(context.Background(), "a", models.DesignUpdate{
		PrimaryColor:    "blue",
		BackgroundColor: "#fff",
		AccentColor:     "#000",
	}, models.RoleSchoolAdmin)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "primaryColor")

	s, err = f.svc.ResetDesign(context.Background(), "a", models.RoleSchoolAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDesign, s.Design)
	assert.Equal(t, []string{models.ActionDesignReset, models.ActionDesignUpdated, models.ActionSchoolCreated}, f.actions(t, "a"))
}

func TestUpdateBellRejectsUnknownPreset(t *testing.T) {
	f := newFixture(t)
	f.createSchool(t, "a")

	_, err := f.svc.UpdateBell(context.Background(), "a", models.BellUpdate{Preset: "gong", Volume: 50}, models.RoleSchoolAdmin)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "preset")

	_, err = f.svc.UpdateBell(context.Background(), "a", models.BellUpdate{Preset: "ding", Volume: 101}, models.RoleSchoolAdmin)
	require.ErrorIs(t, err, ErrInvalidInput)

	s, err := f.svc.UpdateBell(context.Background(), "a", models.BellUpdate{SoundEnabled: true, Preset: "Ascending", Volume: 0}, models.RoleSchoolAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.BellSettings{SoundEnabled: true, Preset: "ascending", Volume: 0}, s.Bell)
}

func TestUpdateContentAssignsItemIDs(t *testing.T) {
	f := newFixture(t)
	f.createSchool(t, "a")

	s, err := f.svc.UpdateContent(context.Background(), "a", models.ContentUpdate{
		Content: "Welcome back",
		Items: []models.BoardItem{
			{Title: "Science fair", Description: "Friday", ImageURL: "https://img.example/fair.png"},
			{ID: "keep", Title: "Sports day"},
		},
	}, models.RoleSchoolAdmin)
	require.NoError(t, err)
	require.Len(t, s.InfoBoard.Items, 2)
	assert.NotEmpty(t, s.InfoBoard.Items[0].ID)
	assert.Equal(t, "keep", s.InfoBoard.Items[1].ID)

	_, err = f.svc.UpdateContent(context.Background(), "a", models.ContentUpdate{
		Items: []models.BoardItem{{Title: "", ImageURL: "not a url"}},
	}, models.RoleSchoolAdmin)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "items[0].title")
	assert.Contains(t, verr.Fields, "items[0].imageUrl")
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	f.createSchool(t, "a")

	s, err := f.svc.UpdateProfile(context.Background(), "a", models.ProfileUpdate{
		Name:            "Renamed",
		Timezone:        "Europe/Berlin",
		Locale:          "en",
		RefreshInterval: 20,
	}, models.RoleSchoolAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", s.Name)
	assert.Equal(t, "Europe/Berlin", s.Timezone)
	assert.Equal(t, 20, s.RefreshInterval)

	_, err = f.svc.UpdateProfile(context.Background(), "a", models.ProfileUpdate{Name: "x", RefreshInterval: 15}, models.RoleSchoolAdmin)
	assert.ErrorIs(t, err, ErrInvalidInput)

	s, err = f.svc.SetLogo(context.Background(), "a", "https://res.example/logo.png", models.RoleSchoolAdmin)
	require.NoError(t, err)
	assert.Equal(t, "https://res.example/logo.png", s.LogoURL)
}

func TestPublishFailureDoesNotFailEdit(t *testing.T) {
	f := newFixture(t)
	f.createSchool(t, "a")
	f.publisher.err = errors.New("hub gone")

	_, err := f.svc.ResetDesign(context.Background(), "a", models.RoleSchoolAdmin)
	assert.NoError(t, err)
}

func TestAdminLoginLogoutAndSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createSchool(t, "a")

	_, err := f.svc.AuthenticateAdmin(ctx, "a", "wrong", "10.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.AuthenticateAdmin(ctx, "missing", "secret-1", "10.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := f.svc.AuthenticateAdmin(ctx, "a", "secret-1", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSchoolAdmin, resp.Role)
	assert.Equal(t, "a", resp.SchoolID)

	claims, err := f.svc.ValidateSession(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "a", claims.Subject)
	assert.Equal(t, models.ActionAdminLogin, f.actions(t, "a")[0])

	require.NoError(t, f.svc.Logout(ctx, resp.Token))
	_, err = f.svc.ValidateSession(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.ValidateSession(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSuperAdminLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.AuthenticateSuperAdmin(ctx, "nope", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := f.svc.AuthenticateSuperAdmin(ctx, "root-pass", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, resp.Role)
	assert.Empty(t, resp.SchoolID)

	claims, err := f.svc.ValidateSession(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.SuperAdminSubject, claims.Subject)

	f.svc.Opts.SuperAdminPasswordHash = ""
	_, err = f.svc.AuthenticateSuperAdmin(ctx, "root-pass", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangeAdminPasswordRevokesSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createSchool(t, "a")

	old, err := f.svc.AuthenticateAdmin(ctx, "a", "secret-1", "")
	require.NoError(t, err)

	_, err = f.svc.ChangeAdminPassword(ctx, "a", models.PasswordChange{CurrentPassword: "wrong", NewPassword: "secret-2"}, models.RoleSchoolAdmin)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// tokens minted within the same second are identical
	time.Sleep(1100 * time.Millisecond)
	fresh, err := f.svc.ChangeAdminPassword(ctx, "a", models.PasswordChange{CurrentPassword: "secret-1", NewPassword: "secret-2"}, models.RoleSchoolAdmin)
	require.NoError(t, err)

	_, err = f.svc.ValidateSession(ctx, old.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.svc.ValidateSession(ctx, fresh.Token)
	assert.NoError(t, err)

	_, err = f.svc.AuthenticateAdmin(ctx, "a", "secret-1", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.AuthenticateAdmin(ctx, "a", "secret-2", "")
	assert.NoError(t, err)

	// super admins reset without the current password
	_, err = f.svc.ChangeAdminPassword(ctx, "a", models.PasswordChange{NewPassword: "secret-3"}, models.RoleSuperAdmin)
	require.NoError(t, err)
}

func TestDeleteSchool(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createSchool(t, "a")
	resp, err := f.svc.AuthenticateAdmin(ctx, "a", "secret-1", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSchool(ctx, "a"))
	assert.Equal(t, []string{"a"}, f.publisher.forgot)
	_, err = f.svc.ValidateSession(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, models.ActionSchoolDeleted, f.actions(t, "a")[0])

	assert.ErrorIs(t, f.svc.DeleteSchool(ctx, "a"), ErrSchoolNotFound)
}

func TestSchoolNamedLikeSuperAdminKeepsRootSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	root, err := f.svc.AuthenticateSuperAdmin(ctx, "root-pass", "")
	require.NoError(t, err)

	f.createSchool(t, "super-admin")
	_, err = f.svc.ChangeAdminPassword(ctx, "super-admin", models.PasswordChange{NewPassword: "secret-2"}, models.RoleSuperAdmin)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteSchool(ctx, "super-admin"))

	claims, err := f.svc.ValidateSession(ctx, root.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, claims.Role)

	_, err = f.svc.CreateSchool(ctx, models.CreateSchoolRequest{ID: models.SuperAdminSubject, Name: "Root", AdminPassword: "secret-1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuditLogs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createSchool(t, "a")
	_, err := f.svc.ResetDesign(ctx, "a", models.RoleSchoolAdmin)
	require.NoError(t, err)

	logs, err := f.svc.ListAuditLogs(ctx, "a", 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionDesignReset, logs[0].Action)
	assert.Equal(t, models.RoleSchoolAdmin, logs[0].Actor)

	n, err := f.svc.ClearAuditLogs(ctx, "a")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = f.svc.ListAuditLogs(ctx, "missing", 10)
	assert.ErrorIs(t, err, ErrSchoolNotFound)
}
