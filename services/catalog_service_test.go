package services_test

import (
	"context"
	"testing"

	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/Mapachitomamalon/CosmoFood/repository"
	"github.com/Mapachitomamalon/CosmoFood/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mockCategoryRepo struct {
	categories map[uuid.UUID]*models.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[uuid.UUID]*models.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, c *models.Category) error {
	for _, existing := range m.categories {
		if existing.Name == c.Name {
			return repository.ErrDuplicate
		}
	}
	c.ID = uuid.New()
	m.categories[c.ID] = c
	return nil
}
func (m *mockCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if c, ok := m.categories[id]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}
func (m *mockCategoryRepo) FindAll(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}
func (m *mockCategoryRepo) Update(_ context.Context, _ *models.Category) error { return nil }
func (m *mockCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

type mockMenuCache struct {
	menu        []models.Product
	setCalls    int
	invalidated int
}

func (m *mockMenuCache) GetMenu(_ context.Context) ([]models.Product, error) { return m.menu, nil }
func (m *mockMenuCache) SetMenu(_ context.Context, products []models.Product) error {
	m.menu = products
	m.setCalls++
	return nil
}
func (m *mockMenuCache) Invalidate(_ context.Context) error {
	m.menu = nil
	m.invalidated++
	return nil
}

type listingProductRepo struct {
	mockProductRepo
	all       []models.Product
	findCalls int
}

func (m *listingProductRepo) FindAll(_ context.Context, _ repository.ProductFilter) ([]models.Product, error) {
	m.findCalls++
	return m.all, nil
}

func TestMenu_CachesSecondRead(t *testing.T) {
	products := &listingProductRepo{all: []models.Product{*pizza(5)}}
	cache := &mockMenuCache{}
	svc := services.NewCatalogService(products, newMockCategoryRepo(), cache, zap.NewNop())

	first, svcErr := svc.Menu(context.Background())
	assert.Nil(t, svcErr)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, products.findCalls)

	second, svcErr := svc.Menu(context.Background())
	assert.Nil(t, svcErr)
	assert.Len(t, second, 1)
	assert.Equal(t, 1, products.findCalls, "second read must come from the cache")
}

func TestCreateProduct_AdminOnly(t *testing.T) {
	svc := services.NewCatalogService(&mockProductRepo{}, newMockCategoryRepo(), nil, zap.NewNop())

	input := &services.ProductInput{Name: "Cosmic Pizza", Price: decimal.NewFromFloat(10.00), Stock: 5}
	_, svcErr := svc.CreateProduct(context.Background(), services.Actor{ID: uuid.New(), Role: models.RoleCashier}, input)
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindForbidden, svcErr.Kind)
}

func TestCreateProduct_ValidatesPrice(t *testing.T) {
	svc := services.NewCatalogService(&mockProductRepo{}, newMockCategoryRepo(), nil, zap.NewNop())

	input := &services.ProductInput{Name: "Cosmic Pizza", Price: decimal.Zero}
	_, svcErr := svc.CreateProduct(context.Background(), admin(), input)
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindValidation, svcErr.Kind)
}

func TestSetProductActive_InvalidatesMenuCache(t *testing.T) {
	products := &listingProductRepo{}
	cache := &mockMenuCache{menu: []models.Product{*pizza(5)}}
	svc := services.NewCatalogService(products, newMockCategoryRepo(), cache, zap.NewNop())

	svcErr := svc.SetProductActive(context.Background(), admin(), uuid.New(), false)
	assert.Nil(t, svcErr)
	assert.Equal(t, 1, cache.invalidated)
}

func TestCategoryLifecycle(t *testing.T) {
	categories := newMockCategoryRepo()
	svc := services.NewCatalogService(&mockProductRepo{}, categories, nil, zap.NewNop())

	created, svcErr := svc.CreateCategory(context.Background(), admin(), &services.CategoryInput{Name: "Pizzas"})
	assert.Nil(t, svcErr)

	_, svcErr = svc.CreateCategory(context.Background(), admin(), &services.CategoryInput{Name: "Pizzas"})
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindConflict, svcErr.Kind)

	svcErr = svc.DeleteCategory(context.Background(), admin(), created.ID)
	assert.Nil(t, svcErr)

	svcErr = svc.DeleteCategory(context.Background(), admin(), created.ID)
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindNotFound, svcErr.Kind)
}

func TestLowStock_RoleGate(t *testing.T) {
	svc := services.NewCatalogService(&listingProductRepo{}, newMockCategoryRepo(), nil, zap.NewNop())

	_, svcErr := svc.LowStock(context.Background(), services.Actor{ID: uuid.New(), Role: models.RoleCustomer}, 5)
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindForbidden, svcErr.Kind)

	_, svcErr = svc.LowStock(context.Background(), services.Actor{ID: uuid.New(), Role: models.RoleKitchen}, 5)
	assert.Nil(t, svcErr)
}
