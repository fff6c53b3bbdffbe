package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"brickstore-service/internal/models"
	"brickstore-service/internal/repository"
)

// MockProductStore is a mock implementation of ProductStore
type MockProductStore struct {
	mock.Mock
}

var _ ProductStore = (*MockProductStore)(nil)

func (m *MockProductStore) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductStore) SaveProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductStore) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStockLookup is a mock implementation of StockLookup
type MockStockLookup struct {
	mock.Mock
}

var _ StockLookup = (*MockStockLookup)(nil)

func (m *MockStockLookup) HasEntriesForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStockLookup) LockedCombinationIDs(ctx context.Context, productID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockFileStore is a mock implementation of FileStore
type MockFileStore struct {
	mock.Mock
}

var _ FileStore = (*MockFileStore)(nil)

func (m *MockFileStore) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func newTestService(store *MockProductStore, stock *MockStockLookup, files *MockFileStore) VariantService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewVariantService(store, stock, files, nil, logger)
}

func testAggregate() *models.Product {
	p := buildVariantProduct()
	p.ID = uuid.New()
	p.Version = 3
	return p
}

// ===========================================
// Gateway Tests
// ===========================================

func TestGetVariants_AnnotatesLocks(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	stock := new(MockStockLookup)
	files := new(MockFileStore)
	service := newTestService(store, stock, files)

	p := withCombination(testAggregate(), "combo-1", "red-small", redSmallPairs()...)
	store.On("GetProduct", ctx, p.ID).Return(p, nil)
	stock.On("LockedCombinationIDs", ctx, p.ID).Return([]string{"combo-1"}, nil)

	view, err := service.GetVariants(ctx, p.ID)

	assert.NoError(t, err)
	assert.True(t, view.Combinations[0].IsLocked)
	assert.True(t, view.Variants[0].IsLocked)
	store.AssertExpectations(t)
	stock.AssertExpectations(t)
}

func TestGetVariants_ProductNotFound(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	service := newTestService(store, new(MockStockLookup), new(MockFileStore))

	id := uuid.New()
	store.On("GetProduct", ctx, id).Return(nil, repository.ErrNotFound)

	_, err := service.GetVariants(ctx, id)

	assert.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAddVariant_RequiresVariantsEnabled(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	service := newTestService(store, new(MockStockLookup), new(MockFileStore))

	p := testAggregate()
	p.HasVariants = false
	store.On("GetProduct", ctx, p.ID).Return(p, nil)

	_, err := service.AddVariant(ctx, p.ID, &models.AddVariantRequest{Name: "Material", Options: []string{"Wood"}}, "admin-1")

	assert.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	store.AssertNotCalled(t, "SaveProduct", mock.Anything, mock.Anything)
}

func TestAddVariant_BlockedOnceCombinationsExist(t *testing.T) {
	// New axes would invalidate every existing combination, so the axis set is
	// frozen; extending an existing axis stays allowed (see AddVariantOption).
	ctx := context.Background()
	store := new(MockProductStore)
	service := newTestService(store, new(MockStockLookup), new(MockFileStore))

	p := withCombination(testAggregate(), "combo-1", "red-small", redSmallPairs()...)
	store.On("GetProduct", ctx, p.ID).Return(p, nil)

	_, err := service.AddVariant(ctx, p.ID, &models.AddVariantRequest{Name: "Material", Options: []string{"Wood"}}, "admin-1")

	assert.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestAddVariantOption_AllowedOnceCombinationsExist(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	stock := new(MockStockLookup)
	service := newTestService(store, stock, new(MockFileStore))

	p := withCombination(testAggregate(), "combo-1", "red-small", redSmallPairs()...)
	store.On("GetProduct", ctx, p.ID).Return(p, nil)
	store.On("SaveProduct", ctx, p).Return(nil)
	stock.On("LockedCombinationIDs", ctx, p.ID).Return([]string{}, nil)

	view, err := service.AddVariantOption(ctx, p.ID, "color-axis", "Green", "admin-1")

	assert.NoError(t, err)
	assert.Len(t, view.Variants[0].Options, 3)
	store.AssertExpectations(t)
}

func TestAddVariant_VersionConflictSurfacesAsConflict(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	service := newTestService(store, new(MockStockLookup), new(MockFileStore))

	p := testAggregate()
	store.On("GetProduct", ctx, p.ID).Return(p, nil)
	store.On("SaveProduct", ctx, p).Return(repository.ErrVersionConflict)

	_, err := service.AddVariant(ctx, p.ID, &models.AddVariantRequest{Name: "Material", Options: []string{"Wood"}}, "admin-1")

	assert.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Contains(t, err.Error(), "concurrently")
}

func TestDeleteVariantOption_LifecycleWithCombination(t *testing.T) {
	// Locked while a combination references the value; deletable after that
	// combination goes away, cascading the variant when its last option goes.
	ctx := context.Background()
	store := new(MockProductStore)
	stock := new(MockStockLookup)
	files := new(MockFileStore)
	service := newTestService(store, stock, files)

	p := withCombination(testAggregate(), "combo-1", "red-small", redSmallPairs()...)
	p.Variants[0].Options = []string{"Red"}
	store.On("GetProduct", ctx, p.ID).Return(p, nil)
	stock.On("LockedCombinationIDs", ctx, p.ID).Return([]string{}, nil)

	_, err := service.DeleteVariantOption(ctx, p.ID, "color-axis", "Red", "admin-1")
	assert.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	store.On("SaveProduct", ctx, p).Return(nil)
	_, err = service.DeleteCombination(ctx, p.ID, "combo-1", "admin-1")
	assert.NoError(t, err)

	view, err := service.DeleteVariantOption(ctx, p.ID, "color-axis", "Red", "admin-1")
	assert.NoError(t, err)
	assert.Len(t, view.Variants, 1)
	assert.Equal(t, "Size", view.Variants[0].Name)
}

func TestUpdateCombination_BlockedByStockEntries(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	stock := new(MockStockLookup)
	service := newTestService(store, stock, new(MockFileStore))

	p := withCombination(testAggregate(), "combo-1", "red-small", redSmallPairs()...)
	store.On("GetProduct", ctx, p.ID).Return(p, nil)
	stock.On("LockedCombinationIDs", ctx, p.ID).Return([]string{"combo-1"}, nil)

	_, err := service.UpdateCombination(ctx, p.ID, "combo-1", "red-small", redSmallPairs(), nil, nil, "admin-1")

	assert.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	store.AssertNotCalled(t, "SaveProduct", mock.Anything, mock.Anything)
}

func TestUpdateCombinationPrice_AllowedDespiteStockEntries(t *testing.T) {
	// Price is commercial data, not structure; stock entries do not freeze it.
	ctx := context.Background()
	store := new(MockProductStore)
	stock := new(MockStockLookup)
	service := newTestService(store, stock, new(MockFileStore))

	p := withCombination(testAggregate(), "combo-1", "red-small", redSmallPairs()...)
	store.On("GetProduct", ctx, p.ID).Return(p, nil)
	store.On("SaveProduct", ctx, p).Return(nil)
	stock.On("LockedCombinationIDs", ctx, p.ID).Return([]string{"combo-1"}, nil)

	view, err := service.UpdateCombinationPrice(ctx, p.ID, "combo-1", 99000, "admin-1")

	assert.NoError(t, err)
	assert.Equal(t, float64(99000), view.Combinations[0].Price)
	assert.True(t, view.Combinations[0].IsLocked)
}

func TestDeleteCombination_RemovesDetachedImages(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	stock := new(MockStockLookup)
	files := new(MockFileStore)
	service := newTestService(store, stock, files)

	p := withCombination(testAggregate(), "combo-1", "red-small", redSmallPairs()...)
	p.VariantCombinations[0].Images = []string{"/uploads/a.png"}
	store.On("GetProduct", ctx, p.ID).Return(p, nil)
	store.On("SaveProduct", ctx, p).Return(nil)
	stock.On("LockedCombinationIDs", ctx, p.ID).Return([]string{}, nil)
	files.On("Remove", "/uploads/a.png").Return(nil)

	view, err := service.DeleteCombination(ctx, p.ID, "combo-1", "admin-1")

	assert.NoError(t, err)
	assert.Empty(t, view.Combinations)
	files.AssertExpectations(t)
}

// ===========================================
// Toggle Tests
// ===========================================

func TestToggleHasVariants_BlockedByVariants(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	service := newTestService(store, new(MockStockLookup), new(MockFileStore))

	p := testAggregate()
	store.On("GetProduct", ctx, p.ID).Return(p, nil)

	_, err := service.ToggleHasVariants(ctx, p.ID, "admin-1")

	assert.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestToggleHasVariants_BlockedByStockEntries(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	stock := new(MockStockLookup)
	service := newTestService(store, stock, new(MockFileStore))

	p := testAggregate()
	p.Variants = models.VariantList{}
	store.On("GetProduct", ctx, p.ID).Return(p, nil)
	stock.On("HasEntriesForProduct", ctx, p.ID).Return(true, nil)

	_, err := service.ToggleHasVariants(ctx, p.ID, "admin-1")

	assert.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestToggleHasVariants_FlipsFlagOnly(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	stock := new(MockStockLookup)
	service := newTestService(store, stock, new(MockFileStore))

	p := testAggregate()
	p.HasVariants = false
	p.Variants = models.VariantList{}
	p.Price = 150
	store.On("GetProduct", ctx, p.ID).Return(p, nil)
	store.On("SaveProduct", ctx, p).Return(nil)
	stock.On("HasEntriesForProduct", ctx, p.ID).Return(false, nil)

	updated, err := service.ToggleHasVariants(ctx, p.ID, "admin-1")

	assert.NoError(t, err)
	assert.True(t, updated.HasVariants)
	assert.Equal(t, float64(150), updated.Price)
}

func TestToggleActive_RequiresVariantAndCombination(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	service := newTestService(store, new(MockStockLookup), new(MockFileStore))

	p := testAggregate()
	p.IsActive = false
	store.On("GetProduct", ctx, p.ID).Return(p, nil)

	_, err := service.ToggleActive(ctx, p.ID, "admin-1")

	assert.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestToggleActive_DeactivationAlwaysAllowed(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	service := newTestService(store, new(MockStockLookup), new(MockFileStore))

	p := testAggregate()
	p.IsActive = true
	store.On("GetProduct", ctx, p.ID).Return(p, nil)
	store.On("SaveProduct", ctx, p).Return(nil)

	updated, err := service.ToggleActive(ctx, p.ID, "admin-1")

	assert.NoError(t, err)
	assert.False(t, updated.IsActive)
}

// ===========================================
// Update Product Tests
// ===========================================

func updateRequest(p *models.Product, hasVariants bool, price float64) *models.UpdateProductRequest {
	return &models.UpdateProductRequest{
		Name:        p.Name,
		Price:       price,
		CategoryID:  p.CategoryID,
		BrandID:     p.BrandID,
		HasVariants: hasVariants,
	}
}

func TestUpdateProduct_DisablingVariantsNeedsPriceAndImage(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	stock := new(MockStockLookup)
	service := newTestService(store, stock, new(MockFileStore))

	p := testAggregate()
	p.Variants = models.VariantList{}
	store.On("GetProduct", ctx, p.ID).Return(p, nil)
	stock.On("HasEntriesForProduct", ctx, p.ID).Return(false, nil)

	_, err := service.UpdateProduct(ctx, p.ID, updateRequest(p, false, 0), nil, "admin-1")
	assert.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = service.UpdateProduct(ctx, p.ID, updateRequest(p, false, 100), nil, "admin-1")
	assert.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestUpdateProduct_EnablingVariantsPurgesImages(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	stock := new(MockStockLookup)
	files := new(MockFileStore)
	service := newTestService(store, stock, files)

	p := testAggregate()
	p.HasVariants = false
	p.Variants = models.VariantList{}
	p.Images = models.StringArray{"/uploads/old.png"}
	p.Price = 200
	store.On("GetProduct", ctx, p.ID).Return(p, nil)
	store.On("SaveProduct", ctx, p).Return(nil)
	stock.On("HasEntriesForProduct", ctx, p.ID).Return(false, nil)
	files.On("Remove", "/uploads/old.png").Return(nil)
	files.On("Remove", "/uploads/new.png").Return(nil)

	updated, err := service.UpdateProduct(ctx, p.ID, updateRequest(p, true, 0), []string{"/uploads/new.png"}, "admin-1")

	assert.NoError(t, err)
	assert.True(t, updated.HasVariants)
	assert.Empty(t, updated.Images)
	assert.Equal(t, float64(0), updated.Price)
	files.AssertExpectations(t)
}

func TestDeleteProduct_CleansAllImages(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	files := new(MockFileStore)
	service := newTestService(store, new(MockStockLookup), files)

	p := withCombination(testAggregate(), "combo-1", "red-small", redSmallPairs()...)
	p.Images = models.StringArray{"/uploads/p.png"}
	p.VariantCombinations[0].Images = []string{"/uploads/c.png"}
	store.On("GetProduct", ctx, p.ID).Return(p, nil)
	store.On("DeleteProduct", ctx, p.ID).Return(nil)
	files.On("Remove", "/uploads/p.png").Return(nil)
	files.On("Remove", "/uploads/c.png").Return(nil)

	err := service.DeleteProduct(ctx, p.ID)

	assert.NoError(t, err)
	files.AssertExpectations(t)
}
