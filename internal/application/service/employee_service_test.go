package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestCreateEmployee_Codes(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo(), &fakeAttendanceRepo{})
	ctx := tenantCtx()

	e, err := svc.CreateEmployee(ctx, &EmployeeInput{Name: strPtr("Wanjiru"), Code: strPtr(" w-01 ")})
	require.NoError(t, err)
	assert.Equal(t, "W-01", e.Code)
	assert.True(t, e.IsActive)

	generated, err := svc.CreateEmployee(ctx, &EmployeeInput{Name: strPtr("Otieno")})
	require.NoError(t, err)
	assert.Regexp(t, `^EMP-[0-9A-F]{6}$`, generated.Code)

	_, err = svc.CreateEmployee(ctx, &EmployeeInput{Name: strPtr("Someone"), Code: strPtr("W-01")})
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	_, err = svc.CreateEmployee(ctx, &EmployeeInput{Name: strPtr("  ")})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}

func TestAttendance_CheckInAndOut(t *testing.T) {
	active := entity.Employee{ID: uuid.New(), Name: "Wanjiru", Code: "W-01", IsActive: true}
	inactive := entity.Employee{ID: uuid.New(), Name: "Kamau", Code: "K-01"}
	attendance := &fakeAttendanceRepo{}
	svc := NewEmployeeService(newFakeEmployeeRepo(active, inactive), attendance)
	clock := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	ctx := tenantCtx()

	_, err := svc.CheckOut(ctx, active.ID, nil)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	rec, err := svc.CheckIn(ctx, active.ID, strPtr("morning"))
	require.NoError(t, err)
	assert.Equal(t, clock, rec.CheckIn)
	assert.Nil(t, rec.CheckOut)
	assert.Equal(t, "morning", *rec.Note)

	_, err = svc.CheckIn(ctx, active.ID, nil)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	_, err = svc.CheckIn(ctx, inactive.ID, nil)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = svc.CheckIn(ctx, uuid.New(), nil)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	clock = clock.Add(8 * time.Hour)
	out, err := svc.CheckOut(ctx, active.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, out.CheckOut)
	assert.Equal(t, 8*time.Hour, out.CheckOut.Sub(out.CheckIn))
	assert.Equal(t, "morning", *out.Note)

	_, err = svc.CheckOut(ctx, active.ID, nil)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	page, err := svc.ListAttendance(ctx, repository.AttendanceFilter{EmployeeID: &active.ID})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Pagination.Total)
}

func TestUpdateEmployee_Deactivate(t *testing.T) {
	e := entity.Employee{ID: uuid.New(), Name: "Wanjiru", Code: "W-01", IsActive: true}
	svc := NewEmployeeService(newFakeEmployeeRepo(e), &fakeAttendanceRepo{})

	updated, err := svc.UpdateEmployee(tenantCtx(), e.ID, &EmployeeInput{IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Wanjiru", updated.Name)
}
