package auth

import (
	"testing"
	"time"

	"github.com/pharmatrack/chaintrackr/internal/model"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateToken(secret, Claims{
		UserID:   1,
		Username: "admin",
		Role:     model.RoleAdmin,
		Kind:     KindPassword,
	})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != 1 {
		t.Errorf("expected user_id 1, got %d", claims.UserID)
	}
	if claims.Username != "admin" {
		t.Errorf("expected username 'admin', got %q", claims.Username)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("expected role 'admin', got %q", claims.Role)
	}
	if claims.Kind != KindPassword {
		t.Errorf("expected password kind, got %q", claims.Kind)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret1", Claims{Username: "admin", Role: model.RoleAdmin})

	_, err := ValidateToken("secret2", token)
	if err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	_, err := ValidateToken("secret", "not-a-token")
	if err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestTokenExpiry(t *testing.T) {
	secret := "test"
	token, _ := GenerateToken(secret, Claims{Username: "test", Role: model.RoleCustomer})
	claims, _ := ValidateToken(secret, token)

	expiresAt := claims.ExpiresAt.Time
	expectedExpiry := time.Now().Add(TokenExpiry)

	// Should be within a few seconds.
	diff := expectedExpiry.Sub(expiresAt)
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("token expiry too far from expected: diff=%v", diff)
	}
}

func TestRoleForAddressDeterministic(t *testing.T) {
	addr := "0x00000001aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	role1, err := RoleForAddress(addr)
	if err != nil {
		t.Fatalf("RoleForAddress: %v", err)
	}
	role2, err := RoleForAddress(addr)
	if err != nil {
		t.Fatalf("RoleForAddress: %v", err)
	}
	if role1 != role2 {
		t.Errorf("expected stable role, got %q then %q", role1, role2)
	}
	if !model.ValidRole(role1) {
		t.Errorf("derived role %q is not a known role", role1)
	}
}

func TestRoleForAddressKnownValues(t *testing.T) {
	tests := []struct {
		address string
		role    string
	}{
		// 0x00000000 % 5 = 0 -> admin
		{"0x0000000000000000000000000000000000000000", model.RoleAdmin},
		// 0x00000001 % 5 = 1 -> manufacturer
		{"0x00000001ffffffffffffffffffffffffffffffff", model.RoleManufacturer},
		// 0x00000004 % 5 = 4 -> customer
		{"0x00000004ffffffffffffffffffffffffffffffff", model.RoleCustomer},
	}

	for _, tc := range tests {
		role, err := RoleForAddress(tc.address)
		if err != nil {
			t.Fatalf("RoleForAddress(%s): %v", tc.address, err)
		}
		if role != tc.role {
			t.Errorf("RoleForAddress(%s) = %q, want %q", tc.address, role, tc.role)
		}
	}
}

func TestRoleForAddressInvalid(t *testing.T) {
	for _, addr := range []string{"", "0x123", "1234567890123456789012345678901234567890ab", "0xZZZZZZZZ000000000000000000000000000000000"} {
		if _, err := RoleForAddress(addr); err == nil {
			t.Errorf("expected error for address %q", addr)
		}
	}
}
