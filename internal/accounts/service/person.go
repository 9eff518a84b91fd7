package service

import (
	"context"
	"errors"
	"sync"

	accountserrors "maitred/internal/accounts/errors"
	"maitred/internal/accounts/repository"
	"maitred/internal/accounts/validator"
	"maitred/pkg/auth"
	"maitred/pkg/config"
	apperrors "maitred/pkg/errors"
	"maitred/pkg/model"
	"maitred/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
)

var workTypes = map[string]bool{
	model.WorkChef:    true,
	model.WorkWaiter:  true,
	model.WorkManager: true,
}

type PersonService interface {
	Signup(ctx context.Context, person *model.Person) (string, error)
	Login(ctx context.Context, creds *model.Credentials) (string, *model.Person, error)
	GetByID(ctx context.Context, id string) (*model.Person, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Person, int64, error)
	GetByWork(ctx context.Context, work string, limit int, offset int64) ([]*model.Person, int64, error)
	Update(ctx context.Context, id string, updates *model.PersonUpdate) (*model.Person, error)
	Delete(ctx context.Context, id string) error
}

type personService struct {
	repo      repository.PersonRepository
	validator *validator.PersonValidator
	cfg       *config.Config
}

func NewPersonService(repo repository.PersonRepository, validator *validator.PersonValidator, cfg *config.Config) PersonService {
	return &personService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// Signup registers a staff member and logs them straight in: the returned
// token saves a second round trip to Login.
func (s *personService) Signup(ctx context.Context, person *model.Person) (string, error) {
	s.sanitize(person)

	if person.Password == "" {
		return "", apperrors.InvalidInput("Password is required")
	}
	if err := s.validator.Validate(person); err != nil {
		s.cfg.Log.Warn("Person validation failed", "error", err)
		return "", apperrors.Validation("Person validation failed", map[string]any{"error": err.Error()})
	}

	hash, err := auth.HashPassword(person.Password, s.cfg.BcryptCost)
	if err != nil {
		return "", apperrors.Internal("Failed to hash password", err)
	}
	person.PasswordHash = hash
	person.Password = ""

	if err := s.repo.Create(ctx, person); err != nil {
		if errors.Is(err, accountserrors.ErrDuplicate) {
			return "", apperrors.Conflict("Username or email already registered")
		}
		s.cfg.Log.Error("Failed to create person", "error", err)
		return "", apperrors.Internal("Failed to create person", err)
	}

	token, err := auth.NewToken(s.cfg.JWTSecret, auth.Principal{
		ID:       person.ID,
		Username: person.Username,
		Role:     person.Work,
	}, s.cfg.TokenTTL)
	if err != nil {
		return "", apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("Person registered", "id", person.ID, "username", person.Username, "work", person.Work)
	return token, nil
}

// Login verifies credentials and returns a signed staff token. Unknown
// usernames and wrong passwords produce the same error.
func (s *personService) Login(ctx context.Context, creds *model.Credentials) (string, *model.Person, error) {
	if err := s.validator.ValidateCredentials(creds); err != nil {
		return "", nil, apperrors.Validation("Invalid credentials payload", map[string]any{"error": err.Error()})
	}

	person, err := s.repo.FindByUsername(ctx, sanitizer.TrimAndNormalize(creds.Username))
	if err != nil {
		if errors.Is(err, accountserrors.ErrNotFound) {
			return "", nil, apperrors.Unauthorized("Invalid username or password")
		}
		return "", nil, apperrors.Internal("Failed to look up account", err)
	}

	if !auth.VerifyPassword(person.PasswordHash, creds.Password) {
		s.cfg.Log.Warn("Failed login attempt", "username", creds.Username)
		return "", nil, apperrors.Unauthorized("Invalid username or password")
	}

	token, err := auth.NewToken(s.cfg.JWTSecret, auth.Principal{
		ID:       person.ID,
		Username: person.Username,
		Role:     person.Work,
	}, s.cfg.TokenTTL)
	if err != nil {
		return "", nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("Person logged in", "id", person.ID, "username", person.Username)
	return token, person, nil
}

func (s *personService) GetByID(ctx context.Context, id string) (*model.Person, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Person ID cannot be empty")
	}
	return s.findExisting(ctx, id)
}

func (s *personService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Person, int64, error) {
	var count int64
	var persons []*model.Person
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count persons", "error", errCount)
			errCount = apperrors.Internal("Failed to count persons", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		persons, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list persons", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve persons", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return persons, count, nil
}

func (s *personService) GetByWork(ctx context.Context, work string, limit int, offset int64) ([]*model.Person, int64, error) {
	if !workTypes[work] {
		return nil, 0, apperrors.InvalidInput("work must be one of: chef, waiter, manager")
	}

	var count int64
	var persons []*model.Person
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByWork(ctx, work)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count persons by work", "work", work, "error", errCount)
			errCount = apperrors.Internal("Failed to count persons", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		persons, errFind = s.repo.FindByWork(ctx, work, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to find persons by work", "work", work, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve persons", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return persons, count, nil
}

func (s *personService) Update(ctx context.Context, id string, updates *model.PersonUpdate) (*model.Person, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Person ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Person update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	fields := s.updateFields(updates)
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("No fields to update")
	}

	if _, err := s.repo.Update(ctx, id, fields); err != nil {
		switch {
		case errors.Is(err, accountserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Person", id)
		case errors.Is(err, accountserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid person ID format")
		case errors.Is(err, accountserrors.ErrDuplicate):
			return nil, apperrors.Conflict("Email already registered")
		}
		s.cfg.Log.Error("Failed to update person", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update person", err)
	}

	s.cfg.Log.Info("Person updated", "id", id)
	return s.findExisting(ctx, id)
}

func (s *personService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Person ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, accountserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Person", id)
		}
		if errors.Is(err, accountserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid person ID format")
		}
		s.cfg.Log.Error("Failed to delete person", "id", id, "error", err)
		return apperrors.Internal("Failed to delete person", err)
	}

	s.cfg.Log.Info("Person deleted", "id", id)
	return nil
}

// --- Helpers ---

func (s *personService) sanitize(p *model.Person) {
	p.Name = sanitizer.NormalizeName(p.Name)
	p.Username = sanitizer.TrimAndNormalize(p.Username)
	p.Email = sanitizer.NormalizeEmail(p.Email)
	p.Mobile = sanitizer.NormalizePhone(p.Mobile)
	p.Address = sanitizer.TrimAndNormalize(p.Address)
}

func (s *personService) updateFields(updates *model.PersonUpdate) bson.M {
	fields := bson.M{}
	if updates.Name != "" {
		fields["name"] = sanitizer.NormalizeName(updates.Name)
	}
	if updates.Work != "" {
		fields["work"] = updates.Work
	}
	if updates.Mobile != "" {
		fields["mobile"] = sanitizer.NormalizePhone(updates.Mobile)
	}
	if updates.Email != "" {
		fields["email"] = sanitizer.NormalizeEmail(updates.Email)
	}
	if updates.Age != nil {
		fields["age"] = *updates.Age
	}
	if updates.Address != "" {
		fields["address"] = sanitizer.TrimAndNormalize(updates.Address)
	}
	if updates.Salary != nil {
		fields["salary"] = *updates.Salary
	}
	return fields
}

func (s *personService) findExisting(ctx context.Context, id string) (*model.Person, error) {
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, accountserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Person", id)
		}
		if errors.Is(err, accountserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid person ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve person", err)
	}
	return person, nil
}
