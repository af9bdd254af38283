package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the internal directory record, password hash included. Call sites
// that face clients work with AuthUser instead.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password,omitempty" json:"-"`
	FullName  string    `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Disabled  bool      `bson:"disabled" json:"disabled"`
	Role      Role      `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AuthUser is the public view of a user: no password hash and no disabled
// flag. A caller holding an AuthUser has already passed the active check.
type AuthUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Public() AuthUser {
	return AuthUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// SessionStatus is the client-facing session payload returned by signin,
// signout, check and refresh.
type SessionStatus struct {
	IsLogged  bool   `json:"is_logged"`
	UserID    string `json:"user_id,omitempty"`
	ExpiresIn string `json:"expires_in,omitempty"`
	UserRole  Role   `json:"user_role,omitempty"`
}

// UserUpdate is a partial update; nil fields are left untouched. Password,
// when set, must already be hashed by the caller.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
	FullName *string
	Disabled *bool
}

func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.Password == nil &&
		u.FullName == nil && u.Disabled == nil
}
