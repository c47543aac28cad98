package domain

import "time"

// Role is the permission level attached to a session.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// CanModerate reports whether the role may edit or delete other users' comments.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

// RoleFromClaim maps the identity provider's name claim onto a Role.
// An empty claim falls back to RoleUser; anything else is kept verbatim.
func RoleFromClaim(claim string) Role {
	if claim == "" {
		return RoleUser
	}
	return Role(claim)
}

// Session is the identity of a logged-in user.
type Session struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// AuthMethod records how a request was authenticated.
type AuthMethod string

const (
	AuthMethodSessionCookie AuthMethod = "session_cookie"
	AuthMethodBearerToken   AuthMethod = "bearer_token"
)

// StoredSession is a server-side login session, looked up by the hash of its cookie token.
type StoredSession struct {
	ID        string
	TokenHash string
	Session   Session
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// IsActive returns true if the session is not revoked and not expired.
func (s StoredSession) IsActive() bool {
	if s.RevokedAt != nil {
		return false
	}
	return time.Now().Before(s.ExpiresAt)
}
