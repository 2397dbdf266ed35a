package model

import "testing"

func TestCanPerform(t *testing.T) {
	tests := []struct {
		role   string
		action Action
		want   bool
	}{
		{RoleManufacturer, ActionCreateDrug, true},
		{RoleManufacturer, ActionTransferDrug, true},
		{RoleManufacturer, ActionGenerateQR, true},
		{RoleManufacturer, ActionSellDrug, false},
		{RoleManufacturer, ActionScanQR, false},
		{RoleDistributor, ActionTransferDrug, true},
		{RoleDistributor, ActionCreateDrug, false},
		{RolePharmacy, ActionSellDrug, true},
		{RolePharmacy, ActionTransferDrug, false},
		{RoleCustomer, ActionScanQR, true},
		{RoleCustomer, ActionSellDrug, false},
		{RoleAdmin, ActionCreateDrug, true},
		{RoleAdmin, ActionTransferDrug, true},
		{RoleAdmin, ActionSellDrug, true},
		{RoleAdmin, ActionViewAll, true},
		{RoleAdmin, ActionManageUsers, true},
		{RoleAdmin, ActionGenerateQR, true},
		{RoleAdmin, ActionScanQR, true},
		{RoleManufacturer, ActionManageUsers, false},
		{RoleCustomer, ActionViewAll, false},
	}

	for _, tc := range tests {
		if got := CanPerform(tc.role, tc.action); got != tc.want {
			t.Errorf("CanPerform(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestCanPerformFailsClosed(t *testing.T) {
	if CanPerform("auditor", ActionCreateDrug) {
		t.Error("unknown role must not pass")
	}
	if CanPerform(RoleAdmin, Action("launch_rocket")) {
		t.Error("unknown action must not pass, even for admin")
	}
	if CanPerform("", ActionScanQR) {
		t.Error("empty role must not pass")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range Roles {
		if !ValidRole(role) {
			t.Errorf("expected %q to be valid", role)
		}
	}
	if ValidRole("superuser") {
		t.Error("expected unknown role to be invalid")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Error("expected error for short password")
	}
	if err := ValidatePassword("longenough"); err != nil {
		t.Errorf("expected long password to pass, got %v", err)
	}
}
