// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "strings"

// # User Roles

// UserRole is the authorization level carried in the "rol" claim.
type UserRole string

const (
	// RoleMember may manage their own library and custom media.
	RoleMember UserRole = "member"

	// RoleAdmin may additionally run maintenance such as the orphan sweep.
	RoleAdmin UserRole = "admin"
)

// roleOrder lists roles from least to most privileged.
var roleOrder = []UserRole{RoleMember, RoleAdmin}

// ParseRole normalizes a claim value. Unknown roles map to "" and satisfy nothing.
func ParseRole(raw string) UserRole {
	role := UserRole(strings.ToLower(strings.TrimSpace(raw)))
	if role.rank() < 0 {
		return ""
	}
	return role
}

// AtLeast reports whether r is as privileged as target.
func (r UserRole) AtLeast(target UserRole) bool {
	rank := r.rank()
	return rank >= 0 && rank >= target.rank()
}

func (r UserRole) rank() int {
	for i, role := range roleOrder {
		if role == r {
			return i
		}
	}
	return -1
}

// UserRole returns the parsed role of the token holder.
func (claims *AuthClaims) UserRole() UserRole {
	return ParseRole(claims.Role)
}
