package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
	Promoted    bool            `json:"promoted"`
	CategoryID  *uuid.UUID      `json:"category_id"`
}

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CatalogService defines the interface for menu and catalog business logic.
// Browsing is public; mutations are gated to administrators.
type CatalogService interface {
	Menu(ctx context.Context) ([]models.Product, *ServiceError)
	SearchProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, *ServiceError)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError)
	CreateProduct(ctx context.Context, actor Actor, input *ProductInput) (*models.Product, *ServiceError)
	UpdateProduct(ctx context.Context, actor Actor, id uuid.UUID, input *ProductInput) (*models.Product, *ServiceError)
	SetProductActive(ctx context.Context, actor Actor, id uuid.UUID, active bool) *ServiceError
	LowStock(ctx context.Context, actor Actor, threshold int) ([]models.Product, *ServiceError)

	ListCategories(ctx context.Context) ([]models.Category, *ServiceError)
	CreateCategory(ctx context.Context, actor Actor, input *CategoryInput) (*models.Category, *ServiceError)
	UpdateCategory(ctx context.Context, actor Actor, id uuid.UUID, input *CategoryInput) (*models.Category, *ServiceError)
	DeleteCategory(ctx context.Context, actor Actor, id uuid.UUID) *ServiceError
}

// catalogServiceImpl implements CatalogService.
type catalogServiceImpl struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      repository.CatalogCache
	logger     *zap.Logger
}

// NewCatalogService creates a new CatalogService. cache may be nil; the menu
// is then served from Postgres every time.
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	cache repository.CatalogCache,
	logger *zap.Logger,
) CatalogService {
	return &catalogServiceImpl{products: products, categories: categories, cache: cache, logger: logger}
}

// Menu returns the customer-facing menu: active products only, cached for a
// few minutes. Cache failures fall through to the database.
func (s *catalogServiceImpl) Menu(ctx context.Context) ([]models.Product, *ServiceError) {
	if s.cache != nil {
		cached, err := s.cache.GetMenu(ctx)
		if err != nil {
			s.logger.Warn("Menu cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	products, err := s.products.FindAll(ctx, repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		s.logger.Error("Failed to load menu", zap.Error(err))
		return nil, errInternal("Failed to load menu")
	}

	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, products); err != nil {
			s.logger.Warn("Menu cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

func (s *catalogServiceImpl) SearchProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, *ServiceError) {
	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to search products", zap.Error(err))
		return nil, errInternal("Failed to search products")
	}
	return products, nil
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errNoProduct("Product not found")
	}
	if err != nil {
		s.logger.Error("Failed to load product", zap.Error(err))
		return nil, errInternal("Failed to load product")
	}
	return product, nil
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, actor Actor, input *ProductInput) (*models.Product, *ServiceError) {
	if !actor.Is(models.RoleAdministrator) {
		return nil, errForbidden("Only administrators may manage the catalog")
	}
	if svcErr := validateProductInput(input); svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.checkCategory(ctx, input.CategoryID); svcErr != nil {
		return nil, svcErr
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		Promoted:    input.Promoted,
		CategoryID:  input.CategoryID,
		Active:      true,
	}
	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errConflict(fmt.Sprintf("Product %q already exists", input.Name))
		}
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, errInternal("Failed to create product")
	}

	s.invalidateMenu(ctx)
	s.logger.Info("Product created", zap.String("name", product.Name), zap.String("id", product.ID.String()))
	return product, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, actor Actor, id uuid.UUID, input *ProductInput) (*models.Product, *ServiceError) {
	if !actor.Is(models.RoleAdministrator) {
		return nil, errForbidden("Only administrators may manage the catalog")
	}
	if svcErr := validateProductInput(input); svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.checkCategory(ctx, input.CategoryID); svcErr != nil {
		return nil, svcErr
	}

	product, svcErr := s.GetProduct(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.ImageURL = input.ImageURL
	product.Promoted = input.Promoted
	product.CategoryID = input.CategoryID

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errConflict(fmt.Sprintf("Product %q already exists", input.Name))
		}
		s.logger.Error("Failed to update product", zap.Error(err))
		return nil, errInternal("Failed to update product")
	}

	s.invalidateMenu(ctx)
	return product, nil
}

// SetProductActive toggles a product's visibility without touching stock.
// Deactivated products stay referenced by historical order items.
func (s *catalogServiceImpl) SetProductActive(ctx context.Context, actor Actor, id uuid.UUID, active bool) *ServiceError {
	if !actor.Is(models.RoleAdministrator) {
		return errForbidden("Only administrators may manage the catalog")
	}

	err := s.products.SetActive(ctx, id, active)
	if errors.Is(err, repository.ErrNotFound) {
		return errNoProduct("Product not found")
	}
	if err != nil {
		s.logger.Error("Failed to toggle product", zap.Error(err))
		return errInternal("Failed to update product")
	}

	s.invalidateMenu(ctx)
	s.logger.Info("Product availability toggled", zap.String("id", id.String()), zap.Bool("active", active))
	return nil
}

func (s *catalogServiceImpl) LowStock(ctx context.Context, actor Actor, threshold int) ([]models.Product, *ServiceError) {
	if !actor.Is(models.RoleAdministrator, models.RoleKitchen) {
		return nil, errForbidden("Staff role required")
	}
	if threshold < 0 {
		threshold = 0
	}

	products, err := s.products.LowStock(ctx, threshold)
	if err != nil {
		s.logger.Error("Failed to load low-stock report", zap.Error(err))
		return nil, errInternal("Failed to load low-stock report")
	}
	return products, nil
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]models.Category, *ServiceError) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, errInternal("Failed to list categories")
	}
	return categories, nil
}

func (s *catalogServiceImpl) CreateCategory(ctx context.Context, actor Actor, input *CategoryInput) (*models.Category, *ServiceError) {
	if !actor.Is(models.RoleAdministrator) {
		return nil, errForbidden("Only administrators may manage the catalog")
	}
	if input.Name == "" {
		return nil, errValidation("Category name is required")
	}

	category := &models.Category{Name: input.Name, Description: input.Description}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errConflict(fmt.Sprintf("Category %q already exists", input.Name))
		}
		s.logger.Error("Failed to create category", zap.Error(err))
		return nil, errInternal("Failed to create category")
	}
	return category, nil
}

func (s *catalogServiceImpl) UpdateCategory(ctx context.Context, actor Actor, id uuid.UUID, input *CategoryInput) (*models.Category, *ServiceError) {
	if !actor.Is(models.RoleAdministrator) {
		return nil, errForbidden("Only administrators may manage the catalog")
	}
	if input.Name == "" {
		return nil, errValidation("Category name is required")
	}

	category, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errNotFound("Category not found")
	}
	if err != nil {
		s.logger.Error("Failed to load category", zap.Error(err))
		return nil, errInternal("Failed to load category")
	}

	category.Name = input.Name
	category.Description = input.Description
	if err := s.categories.Update(ctx, category); err != nil {
		s.logger.Error("Failed to update category", zap.Error(err))
		return nil, errInternal("Failed to update category")
	}

	s.invalidateMenu(ctx)
	return category, nil
}

func (s *catalogServiceImpl) DeleteCategory(ctx context.Context, actor Actor, id uuid.UUID) *ServiceError {
	if !actor.Is(models.RoleAdministrator) {
		return errForbidden("Only administrators may manage the catalog")
	}

	err := s.categories.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return errNotFound("Category not found")
	}
	if err != nil {
		s.logger.Error("Failed to delete category", zap.Error(err))
		return errInternal("Failed to delete category")
	}

	s.invalidateMenu(ctx)
	return nil
}

func (s *catalogServiceImpl) invalidateMenu(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Menu cache invalidation failed", zap.Error(err))
	}
}

func validateProductInput(input *ProductInput) *ServiceError {
	if input.Name == "" {
		return errValidation("Product name is required")
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return errValidation("Price must be greater than zero")
	}
	if input.Stock < 0 {
		return errValidation("Stock cannot be negative")
	}
	return nil
}
