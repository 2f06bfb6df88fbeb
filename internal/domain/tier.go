package domain

import "fmt"

// Tier is the ordered privilege level an operation requires.
type Tier int

const (
	TierUser Tier = iota
	TierAdmin
	TierSuperAdmin
)

func (t Tier) String() string {
	switch t {
	case TierUser:
		return "user"
	case TierAdmin:
		return "admin"
	case TierSuperAdmin:
		return "super-admin"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Tier derives the principal's effective tier. The super-admin flag dominates
// the base role.
func (p Principal) Tier() Tier {
	if p.IsSuperAdmin {
		return TierSuperAdmin
	}
	if p.Role == RoleAdmin {
		return TierAdmin
	}
	return TierUser
}

// RequireTier allows the operation iff the principal's effective tier is at
// least the required one. Pure; performs no I/O.
func RequireTier(p Principal, required Tier) error {
	if p.Tier() >= required {
		return nil
	}
	return fmt.Errorf("%w: requires %s tier", ErrForbidden, required)
}

// RequirePrivilegeChange gates writes that grant the admin role or toggle the
// super-admin flag. Only a super admin may perform those, even when the actor
// is already an admin; this blocks self-escalation through the ordinary
// update path.
func RequirePrivilegeChange(p Principal) error {
	if p.Tier() >= TierSuperAdmin {
		return nil
	}
	return fmt.Errorf("%w: privilege changes require super-admin tier", ErrForbidden)
}
