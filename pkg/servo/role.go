package servo

import (
	"fmt"
	"strings"
)

// Role is the function of a servo within a toy.
type Role uint8

// Roles of a toy, in slot order.
const (
	Trigger1 Role = iota
	Trigger2
	Weave
)

// RolesPerToy is the number of servo slots every toy has.
const RolesPerToy = 3

var roleNames = [RolesPerToy]string{"trigger1", "trigger2", "weave"}

// roleSuffixes are the tags used by the serial text protocol.
var roleSuffixes = [RolesPerToy]string{"t1", "t2", "w"}

// IsValid tells if r is a known role.
func (r Role) IsValid() bool {
	return r < RolesPerToy
}

// String implements fmt.Stringer.
func (r Role) String() string {
	if r.IsValid() {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Suffix is the tag naming r in text commands, e.g. "t1".
func (r Role) Suffix() string {
	if r.IsValid() {
		return roleSuffixes[r]
	}
	return ""
}

// IsTrigger tells if r drives a punch trigger.
func (r Role) IsTrigger() bool {
	return r == Trigger1 || r == Trigger2
}

// Roles lists all known roles.
func Roles() []Role {
	return []Role{Trigger1, Trigger2, Weave}
}

// ParseRole accepts a role name ("trigger1"), its suffix ("t1")
// or its numeric value ("0").
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range Roles() {
		if s == roleNames[r] || s == roleSuffixes[r] || s == fmt.Sprint(uint8(r)) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}
