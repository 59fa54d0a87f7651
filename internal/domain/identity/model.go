// Package identity manages user accounts: self-registration for patients,
// login for every role, and the admin operations that provision doctor
// accounts.
package identity

// User is an account row. Password holds the bcrypt hash and never leaves
// the package.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// PublicUser is the shape returned to clients.
type PublicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// RegisterInput is the self-registration request body.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginInput is the login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateDoctorInput is the admin request to provision a doctor account.
type CreateDoctorInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Specialization string `json:"specialization"`
}

// CreateDoctorResult echoes both the new account and the roster entry.
type CreateDoctorResult struct {
	Message string        `json:"message"`
	User    PublicUser    `json:"user"`
	Doctor  DoctorSummary `json:"doctor"`
}

// DoctorSummary is the roster entry created alongside a doctor account.
type DoctorSummary struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}
