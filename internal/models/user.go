package models

type UserRole string

const (
	UserRoleClient UserRole = "client"
	UserRoleSeller UserRole = "seller"
)

func (r UserRole) Valid() bool {
	return r == UserRoleClient || r == UserRoleSeller
}

type User struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	Avatar *string  `json:"avatar,omitempty"`
}

// Session pairs the bearer token with the identity it was issued for.
type Session struct {
	Token string
	User  User
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
}

// AuthResponse is the flat body returned by /auth/login and /auth/register.
type AuthResponse struct {
	Token string   `json:"token"`
	Type  string   `json:"type"`
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
}

// User reassembles the structured identity. The flat response carries no
// avatar, so Avatar is always nil here.
func (r AuthResponse) User() User {
	return User{
		ID:    r.ID,
		Name:  r.Name,
		Email: r.Email,
		Role:  r.Role,
	}
}

func (r AuthResponse) Session() Session {
	return Session{Token: r.Token, User: r.User()}
}
