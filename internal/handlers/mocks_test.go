package handlers

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"commerce-service/internal/models"
	"commerce-service/internal/repository"
)

type MockCatalogRepository struct {
	mock.Mock
}

var _ repository.CatalogRepositoryInterface = (*MockCatalogRepository)(nil)

func (m *MockCatalogRepository) CreateProduct(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetProductByID(productID uuid.UUID) (*models.Product, error) {
	args := m.Called(productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetProductBySlug(slug string) (*models.Product, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetProductForVendor(productID, vendorID uuid.UUID) (*models.Product, error) {
	args := m.Called(productID, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogRepository) ListProducts(page, limit int) ([]models.Product, int64, error) {
	args := m.Called(page, limit)
	var products []models.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]models.Product)
	}
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) ListProductsByVendor(vendorID uuid.UUID, page, limit int) ([]models.Product, int64, error) {
	args := m.Called(vendorID, page, limit)
	var products []models.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]models.Product)
	}
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) ListProductsByCategory(categoryID uuid.UUID, page, limit int) ([]models.Product, int64, error) {
	args := m.Called(categoryID, page, limit)
	var products []models.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]models.Product)
	}
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) ListProductsFiltered(vendorID, categoryID, productID *uuid.UUID) ([]models.Product, error) {
	args := m.Called(vendorID, categoryID, productID)
	var products []models.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]models.Product)
	}
	return products, args.Error(1)
}

func (m *MockCatalogRepository) UpdateProduct(productID uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(productID, updates)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteProductCascade(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockCatalogRepository) AddVariation(product *models.Product, variation *models.Variation) error {
	args := m.Called(product, variation)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetVariationByID(variationID uuid.UUID) (*models.Variation, error) {
	args := m.Called(variationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Variation), args.Error(1)
}

func (m *MockCatalogRepository) ListVariations() ([]models.Variation, error) {
	args := m.Called()
	var variations []models.Variation
	if args.Get(0) != nil {
		variations = args.Get(0).([]models.Variation)
	}
	return variations, args.Error(1)
}

func (m *MockCatalogRepository) ListVariationsByProduct(productID uuid.UUID) ([]models.Variation, error) {
	args := m.Called(productID)
	var variations []models.Variation
	if args.Get(0) != nil {
		variations = args.Get(0).([]models.Variation)
	}
	return variations, args.Error(1)
}

func (m *MockCatalogRepository) ListVariationsForProducts(productIDs []uuid.UUID) (map[uuid.UUID][]models.Variation, error) {
	args := m.Called(productIDs)
	var variations map[uuid.UUID][]models.Variation
	if args.Get(0) != nil {
		variations = args.Get(0).(map[uuid.UUID][]models.Variation)
	}
	return variations, args.Error(1)
}

func (m *MockCatalogRepository) UpdateVariation(variationID uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(variationID, updates)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteVariation(product *models.Product, variation *models.Variation) error {
	args := m.Called(product, variation)
	return args.Error(0)
}

func (m *MockCatalogRepository) LowestPrice(productID uuid.UUID) (*float64, error) {
	args := m.Called(productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockCatalogRepository) LowestPrices(productIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	args := m.Called(productIDs)
	var prices map[uuid.UUID]float64
	if args.Get(0) != nil {
		prices = args.Get(0).(map[uuid.UUID]float64)
	}
	return prices, args.Error(1)
}

func (m *MockCatalogRepository) CreateCategory(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetCategoryByID(categoryID uuid.UUID) (*models.Category, error) {
	args := m.Called(categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogRepository) ListCategories() ([]models.Category, error) {
	args := m.Called()
	var categories []models.Category
	if args.Get(0) != nil {
		categories = args.Get(0).([]models.Category)
	}
	return categories, args.Error(1)
}

func (m *MockCatalogRepository) UpdateCategory(categoryID uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(categoryID, updates)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteCategory(categoryID uuid.UUID) error {
	args := m.Called(categoryID)
	return args.Error(0)
}

type MockCustomersRepository struct {
	mock.Mock
}

var _ repository.CustomersRepositoryInterface = (*MockCustomersRepository)(nil)

func (m *MockCustomersRepository) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockCustomersRepository) GetUserByID(userID uuid.UUID) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockCustomersRepository) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockCustomersRepository) ListUsers(search string, role *models.UserRole, page, limit int) ([]models.User, int64, error) {
	args := m.Called(search, role, page, limit)
	var users []models.User
	if args.Get(0) != nil {
		users = args.Get(0).([]models.User)
	}
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomersRepository) UpdateUser(userID uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(userID, updates)
	return args.Error(0)
}

func (m *MockCustomersRepository) DeleteUser(userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockCustomersRepository) GetCart(userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCustomersRepository) SaveCart(cart *models.Cart) error {
	args := m.Called(cart)
	return args.Error(0)
}

func (m *MockCustomersRepository) GetWatchlist(userID uuid.UUID) (*models.Watchlist, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Watchlist), args.Error(1)
}

func (m *MockCustomersRepository) SaveWatchlist(watchlist *models.Watchlist) error {
	args := m.Called(watchlist)
	return args.Error(0)
}

func (m *MockCustomersRepository) CreateShippingAddress(address *models.ShippingAddress) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *MockCustomersRepository) GetShippingAddress(addressID, userID uuid.UUID) (*models.ShippingAddress, error) {
	args := m.Called(addressID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShippingAddress), args.Error(1)
}

func (m *MockCustomersRepository) ListShippingAddresses(userID uuid.UUID) ([]models.ShippingAddress, error) {
	args := m.Called(userID)
	var addresses []models.ShippingAddress
	if args.Get(0) != nil {
		addresses = args.Get(0).([]models.ShippingAddress)
	}
	return addresses, args.Error(1)
}

func (m *MockCustomersRepository) UpdateShippingAddress(addressID, userID uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(addressID, userID, updates)
	return args.Error(0)
}

func (m *MockCustomersRepository) DeleteShippingAddress(addressID, userID uuid.UUID) error {
	args := m.Called(addressID, userID)
	return args.Error(0)
}

func (m *MockCustomersRepository) UpsertBillingAddress(address *models.BillingAddress) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *MockCustomersRepository) GetBillingAddress(userID uuid.UUID) (*models.BillingAddress, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillingAddress), args.Error(1)
}

func (m *MockCustomersRepository) UpdateBillingAddress(userID uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(userID, updates)
	return args.Error(0)
}

func (m *MockCustomersRepository) DeleteBillingAddress(userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}
