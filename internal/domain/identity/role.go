package identity

import (
	"fmt"
	"strings"
)

// AdminEmail is the only address granted the administrator role.
const AdminEmail = "admin@gmail.com"

// Role is derived on every resolution and never stored.
type Role string

const (
	RoleCustomer      Role = "customer"
	RoleProvider      Role = "provider"
	RoleAdministrator Role = "administrator"
)

// Declared user_type values carried in the identity provider's profile.
const (
	DeclaredUser     = "user"
	DeclaredProvider = "provider"
)

func (r Role) String() string { return string(r) }

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleProvider, RoleAdministrator:
		return true
	}
	return false
}

// ResolveRole maps an email and the declared profile attribute to exactly one
// role. Unknown or missing attributes fall back to customer.
func ResolveRole(email, declared string) Role {
	if email == AdminEmail {
		return RoleAdministrator
	}
	if declared == DeclaredProvider {
		return RoleProvider
	}
	return RoleCustomer
}

// ParseDeclaredRole validates a user_type supplied at signup. Administrator
// cannot be self-declared.
func ParseDeclaredRole(s string) (Role, error) {
	switch strings.TrimSpace(s) {
	case "", DeclaredUser:
		return RoleCustomer, nil
	case DeclaredProvider:
		return RoleProvider, nil
	default:
		return "", fmt.Errorf("%w: unknown user_type %q", ErrValidation, s)
	}
}

// Declared returns the wire attribute for a declarable role.
func (r Role) Declared() string {
	if r == RoleProvider {
		return DeclaredProvider
	}
	return DeclaredUser
}
