package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaxType(t *testing.T) {
	for in, want := range map[string]TaxType{
		"Inclusive": TaxTypeInclusive,
		"1":         TaxTypeInclusive,
		"exclusive": TaxTypeExclusive,
		"0":         TaxTypeExclusive,
		"":          TaxTypeExclusive,
	} {
		got, err := ParseTaxType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseTaxType("vat")
	assert.Error(t, err)
}

func TestTaxType_JSON(t *testing.T) {
	var tt TaxType
	require.NoError(t, json.Unmarshal([]byte(`1`), &tt))
	assert.Equal(t, TaxTypeInclusive, tt)
	require.NoError(t, json.Unmarshal([]byte(`"exclusive"`), &tt))
	assert.Equal(t, TaxTypeExclusive, tt)

	b, err := json.Marshal(TaxTypeInclusive)
	require.NoError(t, err)
	assert.JSONEq(t, `"Inclusive"`, string(b))
}

func TestOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus("complete")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusComplete, s)
	assert.Equal(t, "Pending", OrderStatus(9).String())
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleCashier.Valid())
	assert.False(t, Role("owner").Valid())
	assert.Contains(t, RoleAdmin.Permissions(), PermManageSettings)
	assert.NotContains(t, RoleManager.Permissions(), PermManageSettings)
	assert.NotContains(t, RoleCashier.Permissions(), PermViewReports)

	p := RoleAdmin.Permissions()
	p[0] = "tampered"
	assert.NotEqual(t, "tampered", RoleAdmin.Permissions()[0])
}
