package auth

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pharmatrack/chaintrackr/internal/model"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidWalletAddress reports whether s is a well-formed wallet address.
func ValidWalletAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// RoleForAddress derives a role deterministically from a wallet address.
// The first eight hex digits after the 0x prefix are interpreted as an
// integer and reduced modulo the role count, so the same address always
// maps to the same role.
func RoleForAddress(address string) (string, error) {
	if !ValidWalletAddress(address) {
		return "", fmt.Errorf("invalid wallet address: %s", address)
	}

	n, err := strconv.ParseUint(strings.ToLower(address[2:10]), 16, 64)
	if err != nil {
		return "", fmt.Errorf("parsing wallet address: %w", err)
	}
	return model.Roles[n%uint64(len(model.Roles))], nil
}
