package identity

import (
	"context"

	"github.com/ruralcare/clinic/internal/platform/apperror"
	"github.com/ruralcare/clinic/internal/platform/auth"
)

// PatientProvisioner creates the minimal patient profile row that backs a
// self-registered account.
type PatientProvisioner interface {
	CreateForUser(ctx context.Context, userID int64, name string) error
}

// DoctorRegistrar adds a provisioned doctor account to the doctor roster.
type DoctorRegistrar interface {
	RegisterDoctor(ctx context.Context, userID int64, name, specialization string) (int64, error)
}

type Service struct {
	users    UserRepository
	tokens   *auth.TokenManager
	patients PatientProvisioner
	doctors  DoctorRegistrar
}

func NewService(users UserRepository, tokens *auth.TokenManager, patients PatientProvisioner, doctors DoctorRegistrar) *Service {
	return &Service{users: users, tokens: tokens, patients: patients, doctors: doctors}
}

// Register creates a patient account. Other roles cannot self-register;
// doctor and pharmacy accounts are provisioned by an admin.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperror.InvalidInputf("name, email, and password are required")
	}
	if in.Role != "" && in.Role != "patient" {
		return nil, apperror.Forbiddenf("Only patients can self-register")
	}

	if existing, err := s.users.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, apperror.Conflictf("Email already registered")
	} else if err != nil && !apperror.IsKind(err, apperror.NotFound) {
		return nil, apperror.Internalf(err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internalf(err)
	}

	user := &User{Name: in.Name, Email: in.Email, Password: hash, Role: "patient"}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperror.Internalf(err)
	}

	// Every patient account gets a matching profile row so vitals and
	// appointments can link back to it.
	if err := s.patients.CreateForUser(ctx, user.ID, user.Name); err != nil {
		return nil, apperror.Internalf(err)
	}

	return s.issueToken(user)
}

// Login authenticates any role. Unknown email and wrong password produce
// the same message so the endpoint does not leak which emails exist.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, apperror.InvalidInputf("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if apperror.IsKind(err, apperror.NotFound) {
			return nil, apperror.Unauthorizedf("Invalid email or password")
		}
		return nil, apperror.Internalf(err)
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return nil, apperror.Unauthorizedf("Invalid email or password")
	}

	return s.issueToken(user)
}

// CreateDoctor provisions a doctor account plus its roster entry.
func (s *Service) CreateDoctor(ctx context.Context, in CreateDoctorInput) (*CreateDoctorResult, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Specialization == "" {
		return nil, apperror.InvalidInputf("name, email, password, and specialization are required")
	}

	if existing, err := s.users.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, apperror.Conflictf("Email already registered")
	} else if err != nil && !apperror.IsKind(err, apperror.NotFound) {
		return nil, apperror.Internalf(err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internalf(err)
	}

	user := &User{Name: in.Name, Email: in.Email, Password: hash, Role: "doctor"}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperror.Internalf(err)
	}

	doctorID, err := s.doctors.RegisterDoctor(ctx, user.ID, in.Name, in.Specialization)
	if err != nil {
		return nil, apperror.Internalf(err)
	}

	return &CreateDoctorResult{
		Message: "Doctor account created",
		User:    user.Public(),
		Doctor:  DoctorSummary{ID: doctorID, Name: in.Name, Specialization: in.Specialization},
	}, nil
}

// ListUsers returns every account, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]PublicUserWithCreatedAt, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperror.Internalf(err)
	}

	out := make([]PublicUserWithCreatedAt, 0, len(users))
	for _, u := range users {
		out = append(out, PublicUserWithCreatedAt{
			PublicUser: u.Public(),
			CreatedAt:  u.CreatedAt,
		})
	}
	return out, nil
}

// PublicUserWithCreatedAt is the admin user-list row.
type PublicUserWithCreatedAt struct {
	PublicUser
	CreatedAt string `json:"created_at"`
}

func (s *Service) issueToken(user *User) (*AuthResult, error) {
	token, err := s.tokens.Issue(auth.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		return nil, apperror.Internalf(err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}
