// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

const MaxDisplayNameLen = 64

var (
	ErrUnknownRole      = errors.New("unknown role")
	ErrDisplayNameEmpty = errors.New("display name empty")
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// CanDelegate reports whether this role may grant or revoke board control.
func (r Role) CanDelegate() bool {
	return r == RoleTeacher || r == RoleAdmin
}

// ParseRole validates a role claim coming from a token.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// Identity is what the token verifier yields for a connection.
type Identity struct {
	UserID      string
	DisplayName string
	Role        Role
}

// NewIdentity keeps claim validation out of the adapters.
func NewIdentity(userID, displayName, role string) (Identity, error) {
	r, err := ParseRole(role)
	if err != nil {
		return Identity{}, err
	}
	if displayName == "" {
		return Identity{}, ErrDisplayNameEmpty
	}
	if len(displayName) > MaxDisplayNameLen {
		displayName = displayName[:MaxDisplayNameLen]
	}
	return Identity{UserID: userID, DisplayName: displayName, Role: r}, nil
}

type RoomID string

// Participant is one live connection's membership in a class room.
// Teachers and admins hold board control from the moment they join;
// students have to be granted it.
type Participant struct {
	UserID      string
	DisplayName string
	Role        Role
	RoomID      RoomID
	HasControl  bool
}

func NewParticipant(id Identity, room RoomID) Participant {
	return Participant{
		UserID:      id.UserID,
		DisplayName: id.DisplayName,
		Role:        id.Role,
		RoomID:      room,
		HasControl:  id.Role.CanDelegate(),
	}
}
