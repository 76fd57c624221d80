package domain

import "time"

// Permission levels carried by the seeded roles. Higher level grants every
// lower-level action.
const (
	LevelUser          = 1
	LevelFlightManager = 2
	LevelAdmin         = 3
)

const (
	RoleUser          = "user"
	RoleFlightManager = "flightManager"
	RoleAdmin         = "admin"
)

type User struct {
	ID              int64     `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Nationality     string    `json:"nationality,omitempty"`
	DateOfBirth     string    `json:"dateOfBirth,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Sex             string    `json:"sex,omitempty"`
	RoleID          int64     `json:"-"`
	RoleName        string    `json:"role,omitempty"`
	PermissionLevel int       `json:"permissionLevel"`
	CreatedAt       time.Time `json:"createdAt"`
}

// HasLevel reports whether the user's role grants at least the given
// permission level.
func (u *User) HasLevel(level int) bool { return u.PermissionLevel >= level }

type Role struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	PermissionLevel int    `json:"permissionLevel"`
}
