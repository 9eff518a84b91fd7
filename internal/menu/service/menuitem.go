package service

import (
	"context"
	"errors"
	"sync"

	menuerrors "maitred/internal/menu/errors"
	"maitred/internal/menu/repository"
	"maitred/internal/menu/validator"
	"maitred/pkg/config"
	apperrors "maitred/pkg/errors"
	"maitred/pkg/model"
	"maitred/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
)

type MenuService interface {
	Create(ctx context.Context, item *model.MenuItem) error
	GetByID(ctx context.Context, id string) (*model.MenuItem, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.MenuItem, int64, error)
	Update(ctx context.Context, id string, update *model.MenuItemUpdate) (*model.MenuItem, error)
	Delete(ctx context.Context, id string) error
}

type menuService struct {
	repo      repository.MenuRepository
	validator *validator.MenuItemValidator
	cfg       *config.Config
}

func NewMenuService(repo repository.MenuRepository, validator *validator.MenuItemValidator, cfg *config.Config) MenuService {
	return &menuService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *menuService) Create(ctx context.Context, item *model.MenuItem) error {
	s.sanitize(item)

	if err := s.validator.Validate(item); err != nil {
		return apperrors.Validation("Menu item validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if errors.Is(err, menuerrors.ErrDuplicateName) {
			return apperrors.Conflict("Menu item name already exists")
		}
		return apperrors.Internal("Failed to create menu item", err)
	}

	return nil
}

func (s *menuService) GetByID(ctx context.Context, id string) (*model.MenuItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return item, nil
}

func (s *menuService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.MenuItem, int64, error) {
	var (
		wg       sync.WaitGroup
		items    []*model.MenuItem
		count    int64
		findErr  error
		countErr error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		count, countErr = s.repo.Count(ctx)
	}()

	go func() {
		defer wg.Done()
		items, findErr = s.repo.FindAll(ctx, limit, offset)
	}()

	wg.Wait()

	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count menu items", countErr)
	}
	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to fetch menu items", findErr)
	}

	return items, count, nil
}

func (s *menuService) Update(ctx context.Context, id string, update *model.MenuItemUpdate) (*model.MenuItem, error) {
	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	fields := s.updateFields(update)
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("No fields to update")
	}

	if _, err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, menuerrors.ErrDuplicateName) {
			return nil, apperrors.Conflict("Menu item name already exists")
		}
		return nil, s.mapLookupError(err, id)
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return item, nil
}

func (s *menuService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapLookupError(err, id)
	}
	return nil
}

func (s *menuService) sanitize(item *model.MenuItem) {
	item.Name = sanitizer.TrimAndNormalize(item.Name)
	for i, ingredient := range item.Ingredients {
		item.Ingredients[i] = sanitizer.TrimAndNormalize(ingredient)
	}
}

// updateFields builds the partial update document from the fields the
// caller actually provided.
func (s *menuService) updateFields(update *model.MenuItemUpdate) bson.M {
	fields := bson.M{}

	if update.Name != "" {
		fields["name"] = sanitizer.TrimAndNormalize(update.Name)
	}
	if update.Price != nil {
		fields["price"] = *update.Price
	}
	if update.Taste != "" {
		fields["taste"] = update.Taste
	}
	if update.IsDrink != nil {
		fields["is_drink"] = *update.IsDrink
	}
	if update.Ingredients != nil {
		ingredients := make([]string, len(*update.Ingredients))
		for i, ingredient := range *update.Ingredients {
			ingredients[i] = sanitizer.TrimAndNormalize(ingredient)
		}
		fields["ingredients"] = ingredients
	}
	if update.NumSales != nil {
		fields["num_sales"] = *update.NumSales
	}

	return fields
}

func (s *menuService) mapLookupError(err error, id string) error {
	switch {
	case errors.Is(err, menuerrors.ErrNotFound):
		return apperrors.NotFoundWithID("Menu item", id)
	case errors.Is(err, menuerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid menu item ID format")
	default:
		return apperrors.Internal("Menu item lookup failed", err)
	}
}
