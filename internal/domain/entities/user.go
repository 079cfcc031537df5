package entities

import "strings"

// Role is the staff role that decides which dashboard a user gets
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleReceptionist Role = "receptionist"
)

// Valid reports whether r is one of the three staff roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleReceptionist:
		return true
	}
	return false
}

// PrimaryAdminID is the account the backend refuses to delete
const PrimaryAdminID int64 = 1

// User represents a staff member of the hospital
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// FullName joins first and last name, falling back to the username
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Matches reports whether the user matches a free-text search on
// name, email or username
func (u *User) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{u.FirstName, u.LastName, u.Email, u.Username} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Doctor is the summary of a doctor embedded in patients, appointments and treatments
type Doctor struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CreateUserData is the payload of POST /accounts/auth/register/ and PATCH /accounts/users/{id}/
type CreateUserData struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// UserUpdate is a partial user update; nil fields are left untouched
type UserUpdate struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *Role   `json:"role,omitempty"`
}

// ProfileUpdate is the payload of PATCH /accounts/users/profile/
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// ChangePasswordData is the payload of PATCH /accounts/users/change-password/
type ChangePasswordData struct {
	CurrentPassword string `json:"-"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginResponse is what the backend answers to a successful login
type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}
