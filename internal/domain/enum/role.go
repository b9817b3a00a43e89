package enum

// Role of a back office account.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

// Permission names checked by the HTTP layer.
const (
	PermManageProducts   = "manage-products"
	PermManageCategories = "manage-categories"
	PermManageOrders     = "manage-orders"
	PermManageCustomers  = "manage-customers"
	PermManageEmployees  = "manage-employees"
	PermManageSettings   = "manage-settings"
	PermManagePrinters   = "manage-printers"
	PermViewReports      = "view-reports"
)

var rolePermissions = map[Role][]string{
	RoleAdmin: {
		PermManageProducts, PermManageCategories, PermManageOrders, PermManageCustomers,
		PermManageEmployees, PermManageSettings, PermManagePrinters, PermViewReports,
	},
	RoleManager: {
		PermManageProducts, PermManageCategories, PermManageOrders, PermManageCustomers,
		PermManageEmployees, PermManagePrinters, PermViewReports,
	},
	RoleCashier: {
		PermManageOrders, PermManageCustomers,
	},
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permissions returns a copy of the permissions granted to r.
func (r Role) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
