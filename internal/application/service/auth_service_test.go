package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
	"github.com/sangkips/pos-backoffice/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *utils.JWTManager, entity.User) {
	t.Helper()
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	admin := entity.User{ID: uuid.New(), TenantID: testTenant, Name: "Admin", Email: "admin@example.com", Password: hash, Role: enum.RoleAdmin, IsActive: true}
	users := newFakeUserRepo(admin)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(users, newFakeTenantRepo(), jwtManager), users, jwtManager, admin
}

func TestLogin(t *testing.T) {
	svc, users, jwtManager, admin := newAuthFixture(t)
	ctx := t.Context()

	out, err := svc.Login(ctx, &LoginInput{Email: "admin@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, out.User.ID)
	assert.Equal(t, "Corner Cafe", out.Tenant.Name)
	assert.Equal(t, int64(3600), out.ExpiresIn)
	assert.Equal(t, 1, users.touched)

	claims, err := jwtManager.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testTenant, claims.TenantID)
	assert.True(t, claims.HasPermission(enum.PermViewReports))

	_, err = svc.Login(ctx, &LoginInput{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginInput{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	users.users[admin.ID].IsActive = false
	_, err = svc.Login(ctx, &LoginInput{Email: "admin@example.com", Password: "s3cret-pass"})
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)
}

func TestRefreshToken(t *testing.T) {
	svc, users, jwtManager, admin := newAuthFixture(t)
	ctx := t.Context()

	refresh, err := jwtManager.GenerateRefreshToken(admin.ID)
	require.NoError(t, err)

	out, err := svc.RefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)

	_, err = svc.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	access, err := jwtManager.GenerateAccessToken(admin.ID, testTenant, admin.Email, string(admin.Role), nil)
	require.NoError(t, err)
	_, err = svc.RefreshToken(ctx, access)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken, "an access token is not a refresh token")

	users.users[admin.ID].IsActive = false
	_, err = svc.RefreshToken(ctx, refresh)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	svc, users, _, admin := newAuthFixture(t)
	ctx := t.Context()

	err := svc.ChangePassword(ctx, &ChangePasswordInput{UserID: admin.ID, CurrentPassword: "nope", NewPassword: "next-pass-1"})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	require.NoError(t, svc.ChangePassword(ctx, &ChangePasswordInput{UserID: admin.ID, CurrentPassword: "s3cret-pass", NewPassword: "next-pass-1"}))
	assert.True(t, utils.CheckPasswordHash("next-pass-1", users.users[admin.ID].Password))
}

func TestUserService(t *testing.T) {
	_, users, _, admin := newAuthFixture(t)
	svc := NewUserService(users)
	ctx := tenantCtx()

	cashier, err := svc.CreateUser(ctx, &CreateUserInput{Name: "Till One", Email: "till@example.com", Password: "till-pass-1", Role: enum.RoleCashier})
	require.NoError(t, err)
	assert.Equal(t, testTenant, cashier.TenantID)
	assert.NotEqual(t, "till-pass-1", cashier.Password)

	_, err = svc.CreateUser(ctx, &CreateUserInput{Name: "Dup", Email: "till@example.com", Password: "till-pass-1", Role: enum.RoleCashier})
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	_, err = svc.CreateUser(ctx, &CreateUserInput{Name: "Boss", Email: "boss@example.com", Password: "boss-pass-1", Role: "owner"})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	manager := enum.RoleManager
	updated, err := svc.UpdateUser(ctx, &UpdateUserInput{ID: cashier.ID, ActorID: admin.ID, Role: &manager})
	require.NoError(t, err)
	assert.Equal(t, enum.RoleManager, updated.Role)

	_, err = svc.UpdateUser(ctx, &UpdateUserInput{ID: admin.ID, ActorID: admin.ID, IsActive: boolPtr(false)})
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	page, err := svc.ListUsers(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)
}
