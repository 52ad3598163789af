package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleIsValid(t *testing.T) {
	valid := []Role{RoleCustomer, RoleOwner, RoleWorker, RoleChef, RoleWaiter, RoleCashier, RoleButcher}
	for _, r := range valid {
		assert.True(t, r.IsValid(), "role %s should be valid", r)
	}

	assert.False(t, Role("manager").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestRoleIsStaff(t *testing.T) {
	assert.False(t, RoleCustomer.IsStaff())
	assert.False(t, Role("manager").IsStaff())

	staff := []Role{RoleOwner, RoleWorker, RoleChef, RoleWaiter, RoleCashier, RoleButcher}
	for _, r := range staff {
		assert.True(t, r.IsStaff(), "role %s should be staff", r)
	}
}

func TestRoleCapabilities(t *testing.T) {
	allCaps := []Capability{
		CapManageProducts, CapManageOrders, CapPhysicalSales, CapAdjustStock,
		CapViewActivity, CapManagePayroll, CapModerateReviews, CapManageContacts,
		CapDeleteRecords,
	}

	// Owners hold everything
	for _, cap := range allCaps {
		assert.True(t, RoleOwner.Can(cap), "owner should hold %s", cap)
	}

	// Customers hold nothing
	for _, cap := range allCaps {
		assert.False(t, RoleCustomer.Can(cap), "customer should not hold %s", cap)
	}

	// Workers hold everything except payroll and deletes
	assert.True(t, RoleWorker.Can(CapManageProducts))
	assert.True(t, RoleWorker.Can(CapManageOrders))
	assert.False(t, RoleWorker.Can(CapManagePayroll))
	assert.False(t, RoleWorker.Can(CapDeleteRecords))

	// Kitchen roles
	assert.True(t, RoleChef.Can(CapManageOrders))
	assert.True(t, RoleChef.Can(CapAdjustStock))
	assert.False(t, RoleChef.Can(CapPhysicalSales))

	assert.True(t, RoleButcher.Can(CapAdjustStock))
	assert.False(t, RoleButcher.Can(CapManageOrders))

	// Floor roles
	for _, r := range []Role{RoleWaiter, RoleCashier} {
		assert.True(t, r.Can(CapManageOrders), "%s should manage orders", r)
		assert.True(t, r.Can(CapPhysicalSales), "%s should record physical sales", r)
		assert.False(t, r.Can(CapManageProducts), "%s should not manage products", r)
	}

	// Unknown roles hold nothing
	assert.False(t, Role("manager").Can(CapManageOrders))
}
