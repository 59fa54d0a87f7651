package identity

import (
	"context"
	"testing"

	"github.com/ruralcare/clinic/internal/platform/apperror"
	"github.com/ruralcare/clinic/internal/platform/auth"
)

type mockUserRepo struct {
	users  map[int64]*User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*User), nextID: 1}
}

func (m *mockUserRepo) Create(ctx context.Context, u *User) error {
	u.ID = m.nextID
	m.nextID++
	u.CreatedAt = "2025-06-01 10:00:00"
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFoundf("User not found")
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NotFoundf("User not found")
}

func (m *mockUserRepo) List(ctx context.Context) ([]*User, error) {
	out := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

type mockProvisioner struct {
	created []int64
	names   []string
}

func (m *mockProvisioner) CreateForUser(ctx context.Context, userID int64, name string) error {
	m.created = append(m.created, userID)
	m.names = append(m.names, name)
	return nil
}

type mockRegistrar struct {
	registered []string
	nextID     int64
}

func (m *mockRegistrar) RegisterDoctor(ctx context.Context, userID int64, name, specialization string) (int64, error) {
	m.registered = append(m.registered, name)
	m.nextID++
	return m.nextID, nil
}

func newTestService() (*Service, *mockUserRepo, *mockProvisioner, *mockRegistrar) {
	repo := newMockUserRepo()
	prov := &mockProvisioner{}
	reg := &mockRegistrar{}
	svc := NewService(repo, auth.NewTokenManager("test-secret"), prov, reg)
	return svc, repo, prov, reg
}

func TestRegister_CreatesPatientAccount(t *testing.T) {
	svc, repo, prov, _ := newTestService()

	result, err := svc.Register(context.Background(), RegisterInput{
		Name: "Sunita Devi", Email: "sunita@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if result.Token == "" {
		t.Error("expected a token")
	}
	if result.User.Role != "patient" {
		t.Errorf("role = %q, want patient", result.User.Role)
	}

	stored := repo.users[result.User.ID]
	if stored.Password == "secret123" {
		t.Error("password stored in plaintext")
	}

	if len(prov.created) != 1 || prov.created[0] != result.User.ID {
		t.Errorf("expected patient profile provisioned for user %d, got %v", result.User.ID, prov.created)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{Name: "X", Email: "x@example.com"})
	if !apperror.IsKind(err, apperror.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
	if err.Error() != "name, email, and password are required" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestRegister_BlocksNonPatientRoles(t *testing.T) {
	svc, _, _, _ := newTestService()

	for _, role := range []string{"admin", "doctor", "pharmacy"} {
		_, err := svc.Register(context.Background(), RegisterInput{
			Name: "X", Email: role + "@example.com", Password: "pw", Role: role,
		})
		if !apperror.IsKind(err, apperror.Forbidden) {
			t.Errorf("role %q: expected Forbidden, got %v", role, err)
		}
		if err.Error() != "Only patients can self-register" {
			t.Errorf("role %q: message = %q", role, err.Error())
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()

	in := RegisterInput{Name: "A", Email: "dup@example.com", Password: "pw"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first Register() error: %v", err)
	}

	_, err := svc.Register(context.Background(), in)
	if !apperror.IsKind(err, apperror.Conflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}
	if err.Error() != "Email already registered" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Ramesh Kumar", Email: "ramesh@example.com", Password: "correct-pw",
	}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	result, err := svc.Login(context.Background(), LoginInput{Email: "ramesh@example.com", Password: "correct-pw"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if result.User.Name != "Ramesh Kumar" {
		t.Errorf("user = %+v", result.User)
	}

	// Wrong password and unknown email use the same message.
	_, wrongPw := svc.Login(context.Background(), LoginInput{Email: "ramesh@example.com", Password: "bad"})
	_, unknown := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "bad"})
	for _, err := range []error{wrongPw, unknown} {
		if !apperror.IsKind(err, apperror.Unauthorized) {
			t.Fatalf("expected Unauthorized, got %v", err)
		}
		if err.Error() != "Invalid email or password" {
			t.Errorf("message = %q", err.Error())
		}
	}
}

func TestCreateDoctor(t *testing.T) {
	svc, repo, _, reg := newTestService()

	result, err := svc.CreateDoctor(context.Background(), CreateDoctorInput{
		Name: "Dr. Kavita Nair", Email: "kavita@ruralcare.com", Password: "pw", Specialization: "Dermatology",
	})
	if err != nil {
		t.Fatalf("CreateDoctor() error: %v", err)
	}

	if result.Message != "Doctor account created" {
		t.Errorf("message = %q", result.Message)
	}
	if result.User.Role != "doctor" {
		t.Errorf("user role = %q", result.User.Role)
	}
	if result.Doctor.Specialization != "Dermatology" {
		t.Errorf("doctor = %+v", result.Doctor)
	}
	if len(reg.registered) != 1 {
		t.Errorf("expected roster registration, got %v", reg.registered)
	}
	if repo.users[result.User.ID].Role != "doctor" {
		t.Error("stored account is not a doctor")
	}
}

func TestCreateDoctor_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateDoctor(context.Background(), CreateDoctorInput{Name: "X", Email: "x@y.com", Password: "pw"})
	if !apperror.IsKind(err, apperror.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
	if err.Error() != "name, email, password, and specialization are required" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestListUsers(t *testing.T) {
	svc, _, _, _ := newTestService()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := svc.Register(context.Background(), RegisterInput{Name: "U", Email: email, Password: "pw"}); err != nil {
			t.Fatalf("Register() error: %v", err)
		}
	}

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if u.CreatedAt == "" {
			t.Error("expected created_at on user list rows")
		}
	}
}
