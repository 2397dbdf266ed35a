package model

import (
	"fmt"
	"time"
)

// User represents an authentication user. Wallet logins are not backed by
// a user row; they carry their identity entirely in the session claims.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Name         string     `json:"name,omitempty"`
	Organization string     `json:"organization,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleAdmin        = "admin"
	RoleManufacturer = "manufacturer"
	RoleDistributor  = "distributor"
	RolePharmacy     = "pharmacy"
	RoleCustomer     = "customer"
)

// Roles lists all roles in a fixed order. The order matters: wallet logins
// derive their role as an index into this slice.
var Roles = []string{RoleAdmin, RoleManufacturer, RoleDistributor, RolePharmacy, RoleCustomer}

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Action is a capability gated by the role permission table.
type Action string

// Actions.
const (
	ActionCreateDrug   Action = "create_drug"
	ActionTransferDrug Action = "transfer_drug"
	ActionSellDrug     Action = "sell_drug"
	ActionViewAll      Action = "view_all"
	ActionManageUsers  Action = "manage_users"
	ActionGenerateQR   Action = "generate_qr"
	ActionScanQR       Action = "scan_qr"
)

// permissions is the static role→action table. Admin is handled separately
// in CanPerform and passes everything.
var permissions = map[Action][]string{
	ActionCreateDrug:   {RoleManufacturer},
	ActionTransferDrug: {RoleManufacturer, RoleDistributor},
	ActionSellDrug:     {RolePharmacy},
	ActionViewAll:      {},
	ActionManageUsers:  {},
	ActionGenerateQR:   {RoleManufacturer},
	ActionScanQR:       {RoleCustomer},
}

// CanPerform checks the permission table. Unknown roles and unknown
// actions fail closed.
func CanPerform(role string, action Action) bool {
	if role == RoleAdmin {
		_, known := permissions[action]
		return known
	}
	for _, r := range permissions[action] {
		if r == role {
			return true
		}
	}
	return false
}

// ValidatePassword checks minimum password requirements.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
