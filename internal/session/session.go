package session

import "conferent/shared/constant"

// Status is the lifecycle state of a session. Transitions go through
// Authenticating on login and Restoring on restore, and always land on
// LoggedIn or LoggedOut.
type Status string

const (
	StatusLoggedOut      Status = "LOGGED_OUT"
	StatusAuthenticating Status = "AUTHENTICATING"
	StatusLoggedIn       Status = "LOGGED_IN"
	StatusRestoring      Status = "RESTORING"
)

// User is the identity a session holds while logged in.
type User struct {
	ID    int64
	Name  string
	Email string
	Role  string
}

func (u User) IsAdmin() bool {
	return u.Role == constant.RoleAdmin
}

func (u User) IsUser() bool {
	return u.Role == constant.RoleUser
}

// Invite is a session-scoped view of a reservation invite.
type Invite struct {
	ID     int64
	RentID int64
	Status string
}

// Session is an immutable snapshot of the manager state.
type Session struct {
	Status Status
	Token  string
	User   User
}

func (s Session) LoggedIn() bool {
	return s.Status == StatusLoggedIn
}
