package domain

import "time"

// Role is the capability level carried by an authenticated principal.
type Role string

// Possible role values
const (
	RoleLearner   Role = "learner"
	RoleTeacher   Role = "teacher"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleLearner, RoleTeacher, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Principal is the opaque authenticated identity resolved by the auth
// middleware. Identity issuance (registration, login, passwords) is owned
// by an external identity service; this system only consumes the decoded
// token.
type Principal struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

// CanAuthor reports whether the principal may create decks and draft
// cards directly.
func (p Principal) CanAuthor() bool {
	return p.Role == RoleTeacher || p.Role == RoleAdmin
}

// CanModerate reports whether the principal may approve or reject draft
// cards.
func (p Principal) CanModerate() bool {
	return p.Role == RoleModerator || p.Role == RoleAdmin
}

// Learner is the minimal local mirror of an externally-managed identity.
// A row exists so review syncs can distinguish "unknown learner" from
// "learner with no schedule yet".
type Learner struct {
	ID        int64     `json:"id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
