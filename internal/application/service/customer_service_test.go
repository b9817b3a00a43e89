package service

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomer(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo())
	ctx := tenantCtx()

	_, err := svc.CreateCustomer(ctx, &CustomerInput{Name: strPtr("  ")})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	c, err := svc.CreateCustomer(ctx, &CustomerInput{Name: strPtr(" Achieng "), Phone: strPtr(" 0700 000000 "), Email: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Achieng", c.Name)
	require.NotNil(t, c.Phone)
	assert.Equal(t, "0700 000000", *c.Phone)
	assert.Nil(t, c.Email)
	assert.Equal(t, testTenant, c.TenantID)
}

func TestUpdateCustomer(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo())
	ctx := tenantCtx()

	c, err := svc.CreateCustomer(ctx, &CustomerInput{Name: strPtr("Achieng"), Phone: strPtr("0700")})
	require.NoError(t, err)

	updated, err := svc.UpdateCustomer(ctx, c.ID, &CustomerInput{Address: strPtr("Moi Avenue")})
	require.NoError(t, err)
	assert.Equal(t, "Achieng", updated.Name)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "Moi Avenue", *updated.Address)
	require.NotNil(t, updated.Phone)

	_, err = svc.UpdateCustomer(ctx, c.ID, &CustomerInput{Name: strPtr("")})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	_, err = svc.UpdateCustomer(ctx, uuid.New(), &CustomerInput{Name: strPtr("Ghost")})
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	require.NoError(t, svc.DeleteCustomer(ctx, c.ID))
	_, err = svc.GetCustomer(ctx, c.ID)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}
