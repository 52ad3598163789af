package models

// Role is the closed set of user roles. Permission checks go through
// capability sets rather than comparing role names at call sites.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleWorker   Role = "worker"
	RoleChef     Role = "chef"
	RoleWaiter   Role = "waiter"
	RoleCashier  Role = "cashier"
	RoleButcher  Role = "butcher"
)

// Capability is a named permission a role can hold
type Capability string

const (
	CapManageProducts  Capability = "manage_products"
	CapManageOrders    Capability = "manage_orders"
	CapPhysicalSales   Capability = "physical_sales"
	CapAdjustStock     Capability = "adjust_stock"
	CapViewActivity    Capability = "view_activity"
	CapManagePayroll   Capability = "manage_payroll"
	CapModerateReviews Capability = "moderate_reviews"
	CapManageContacts  Capability = "manage_contacts"
	CapDeleteRecords   Capability = "delete_records"
)

// roleCapabilities is the single lookup table for role permissions.
// Owners hold every capability; workers hold everything except payroll
// and deletes; kitchen and floor roles hold their slice of the work.
var roleCapabilities = map[Role]map[Capability]bool{
	RoleOwner: {
		CapManageProducts:  true,
		CapManageOrders:    true,
		CapPhysicalSales:   true,
		CapAdjustStock:     true,
		CapViewActivity:    true,
		CapManagePayroll:   true,
		CapModerateReviews: true,
		CapManageContacts:  true,
		CapDeleteRecords:   true,
	},
	RoleWorker: {
		CapManageProducts:  true,
		CapManageOrders:    true,
		CapPhysicalSales:   true,
		CapAdjustStock:     true,
		CapViewActivity:    true,
		CapModerateReviews: true,
		CapManageContacts:  true,
	},
	RoleChef: {
		CapManageProducts: true,
		CapManageOrders:   true,
		CapAdjustStock:    true,
	},
	RoleButcher: {
		CapManageProducts: true,
		CapAdjustStock:    true,
	},
	RoleWaiter: {
		CapManageOrders:  true,
		CapPhysicalSales: true,
	},
	RoleCashier: {
		CapManageOrders:  true,
		CapPhysicalSales: true,
	},
	RoleCustomer: {},
}

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// IsStaff reports whether the role is any staff role
func (r Role) IsStaff() bool {
	return r.IsValid() && r != RoleCustomer
}

// Can reports whether the role holds the given capability
func (r Role) Can(cap Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	return caps[cap]
}
