package domain

import "strconv"

// User is the profile captured at sign-in and persisted with the session.
type User struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName,omitempty"`
	LastName  string  `json:"lastName,omitempty"`
	Roles     RoleSet `json:"roles"`
}

func (u User) IDString() string {
	if u.ID == 0 {
		return ""
	}
	return strconv.FormatInt(u.ID, 10)
}

func (u User) IsAdmin() bool {
	return u.Roles.Has(RoleAdmin)
}

// AuthResponse is the signin payload returned by the auth service.
type AuthResponse struct {
	Token    string  `json:"token"`
	Type     string  `json:"type"`
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Roles    RoleSet `json:"roles"`
}

func (r AuthResponse) User() User {
	return User{
		ID:       r.ID,
		Username: r.Username,
		Email:    r.Email,
		Roles:    r.Roles,
	}
}

type SignupRequest struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

type Profile struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Roles     RoleSet `json:"roles,omitempty"`
}

type ProfileUpdate struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// MessageResponse is the generic {"message": ...} body used by the backend.
type MessageResponse struct {
	Message string `json:"message"`
}
