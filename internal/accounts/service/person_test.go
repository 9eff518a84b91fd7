package service

import (
	"context"
	"testing"
	"time"

	accountserrors "maitred/internal/accounts/errors"
	"maitred/internal/accounts/validator"
	"maitred/pkg/auth"
	"maitred/pkg/config"
	apperrors "maitred/pkg/errors"
	"maitred/pkg/logger"
	"maitred/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mockPersonRepository struct {
	createFunc         func(ctx context.Context, p *model.Person) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Person, error)
	findByUsernameFunc func(ctx context.Context, username string) (*model.Person, error)
	findByWorkFunc     func(ctx context.Context, work string, limit int, offset int64) ([]*model.Person, error)
	updateFunc         func(ctx context.Context, id string, fields bson.M) (*mongo.UpdateResult, error)
	deleteFunc         func(ctx context.Context, id string) error
}

func (m *mockPersonRepository) Create(ctx context.Context, p *model.Person) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	p.ID = "65b000000000000000000001"
	return nil
}

func (m *mockPersonRepository) FindByID(ctx context.Context, id string) (*model.Person, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, accountserrors.ErrNotFound
}

func (m *mockPersonRepository) FindByUsername(ctx context.Context, username string) (*model.Person, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return nil, accountserrors.ErrNotFound
}

func (m *mockPersonRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Person, error) {
	return []*model.Person{}, nil
}

func (m *mockPersonRepository) FindByWork(ctx context.Context, work string, limit int, offset int64) ([]*model.Person, error) {
	if m.findByWorkFunc != nil {
		return m.findByWorkFunc(ctx, work, limit, offset)
	}
	return []*model.Person{}, nil
}

func (m *mockPersonRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockPersonRepository) CountByWork(ctx context.Context, work string) (int64, error) {
	return 0, nil
}

func (m *mockPersonRepository) Update(ctx context.Context, id string, fields bson.M) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, fields)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockPersonRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
		BcryptCost:   4, // minimum cost keeps the test fast
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func newTestService(t *testing.T, repo *mockPersonRepository) PersonService {
	t.Helper()
	return NewPersonService(repo, validator.NewPersonValidator(), testConfig(t))
}

func validPerson() *model.Person {
	return &model.Person{
		Name:     "Grace Hopper",
		Username: "ghopper",
		Password: "secret-password",
		Work:     model.WorkManager,
		Mobile:   "+12025550177",
		Email:    "grace@example.com",
		Age:      45,
	}
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !apperrors.IsAppError(err) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	return apperrors.AsAppError(err).Code
}

func TestSignup_HashesPassword(t *testing.T) {
	var created *model.Person
	repo := &mockPersonRepository{
		createFunc: func(ctx context.Context, p *model.Person) error {
			p.ID = "65b000000000000000000001"
			created = p
			return nil
		},
	}
	svc := newTestService(t, repo)

	person := validPerson()
	token, err := svc.Signup(context.Background(), person)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	principal, err := auth.VerifyToken("test-secret", token)
	if err != nil {
		t.Fatalf("signup token does not verify: %v", err)
	}
	if principal.Username != "ghopper" {
		t.Errorf("token username = %q, want %q", principal.Username, "ghopper")
	}

	if created.Password != "" {
		t.Error("plaintext password should be cleared before storage")
	}
	if created.PasswordHash == "" || created.PasswordHash == "secret-password" {
		t.Error("password hash missing or not hashed")
	}
	if !auth.VerifyPassword(created.PasswordHash, "secret-password") {
		t.Error("stored hash does not verify against the original password")
	}
}

func TestSignup_RequiresPassword(t *testing.T) {
	svc := newTestService(t, &mockPersonRepository{})

	person := validPerson()
	person.Password = ""
	_, err := svc.Signup(context.Background(), person)
	if code := errCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeInvalidInput)
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	repo := &mockPersonRepository{
		createFunc: func(ctx context.Context, p *model.Person) error {
			return accountserrors.ErrDuplicate
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.Signup(context.Background(), validPerson())
	if code := errCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeConflict)
	}
}

func TestSignup_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.Person)
	}{
		{"short username", func(p *model.Person) { p.Username = "ab" }},
		{"non alphanumeric username", func(p *model.Person) { p.Username = "grace hopper" }},
		{"short password", func(p *model.Person) { p.Password = "short" }},
		{"unknown work", func(p *model.Person) { p.Work = "sommelier" }},
		{"bad email", func(p *model.Person) { p.Email = "nope" }},
		{"underage", func(p *model.Person) { p.Age = 12 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &mockPersonRepository{})
			person := validPerson()
			tt.mutate(person)

			_, err := svc.Signup(context.Background(), person)
			if code := errCode(t, err); code != apperrors.CodeValidation {
				t.Errorf("error code = %q, want %q", code, apperrors.CodeValidation)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("secret-password", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	stored := validPerson()
	stored.ID = "65b000000000000000000001"
	stored.Password = ""
	stored.PasswordHash = hash

	repo := &mockPersonRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.Person, error) {
			if username == stored.Username {
				return stored, nil
			}
			return nil, accountserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo)

	token, person, err := svc.Login(context.Background(), &model.Credentials{
		Username: "ghopper",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if person.ID != stored.ID {
		t.Errorf("person ID = %q, want %q", person.ID, stored.ID)
	}

	principal, err := auth.VerifyToken("test-secret", token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if principal.Role != model.WorkManager {
		t.Errorf("token role = %q, want %q", principal.Role, model.WorkManager)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := auth.HashPassword("secret-password", 4)
	stored := validPerson()
	stored.PasswordHash = hash

	repo := &mockPersonRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.Person, error) {
			return stored, nil
		},
	}
	svc := newTestService(t, repo)

	_, _, err := svc.Login(context.Background(), &model.Credentials{
		Username: "ghopper",
		Password: "wrong",
	})
	if code := errCode(t, err); code != apperrors.CodeUnauthorized {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeUnauthorized)
	}
}

func TestLogin_UnknownUserSameError(t *testing.T) {
	svc := newTestService(t, &mockPersonRepository{})

	_, _, err := svc.Login(context.Background(), &model.Credentials{
		Username: "nobody",
		Password: "whatever",
	})
	if code := errCode(t, err); code != apperrors.CodeUnauthorized {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeUnauthorized)
	}
}

func TestGetByWork_InvalidType(t *testing.T) {
	svc := newTestService(t, &mockPersonRepository{})

	_, _, err := svc.GetByWork(context.Background(), "janitor", 10, 0)
	if code := errCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeInvalidInput)
	}
}

func TestUpdate_NoFields(t *testing.T) {
	svc := newTestService(t, &mockPersonRepository{})

	_, err := svc.Update(context.Background(), "65b000000000000000000001", &model.PersonUpdate{})
	if code := errCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeInvalidInput)
	}
}

func TestUpdate_SetsOnlyProvidedFields(t *testing.T) {
	salary := 5200
	var gotFields bson.M
	repo := &mockPersonRepository{
		updateFunc: func(ctx context.Context, id string, fields bson.M) (*mongo.UpdateResult, error) {
			gotFields = fields
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.Person, error) {
			p := validPerson()
			p.ID = id
			p.Salary = salary
			return p, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.Update(context.Background(), "65b000000000000000000001", &model.PersonUpdate{Salary: &salary})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFields["salary"] != salary {
		t.Errorf("salary field = %v, want %d", gotFields["salary"], salary)
	}
	if _, ok := gotFields["name"]; ok {
		t.Error("name should not be updated when not provided")
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockPersonRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			return accountserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo)

	err := svc.Delete(context.Background(), "65b000000000000000000001")
	if code := errCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeNotFound)
	}
}
