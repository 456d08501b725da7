package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"commerce-service/internal/models"
)

// ErrDuplicateEmail is returned when registering with an email that is
// already taken.
var ErrDuplicateEmail = errors.New("email already registered")

// CustomersRepositoryInterface defines account, cart, watchlist and address
// persistence operations
type CustomersRepositoryInterface interface {
	CreateUser(user *models.User) error
	GetUserByID(userID uuid.UUID) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers(search string, role *models.UserRole, page, limit int) ([]models.User, int64, error)
	UpdateUser(userID uuid.UUID, updates map[string]interface{}) error
	DeleteUser(userID uuid.UUID) error

	GetCart(userID uuid.UUID) (*models.Cart, error)
	SaveCart(cart *models.Cart) error
	GetWatchlist(userID uuid.UUID) (*models.Watchlist, error)
	SaveWatchlist(watchlist *models.Watchlist) error

	CreateShippingAddress(address *models.ShippingAddress) error
	GetShippingAddress(addressID, userID uuid.UUID) (*models.ShippingAddress, error)
	ListShippingAddresses(userID uuid.UUID) ([]models.ShippingAddress, error)
	UpdateShippingAddress(addressID, userID uuid.UUID, updates map[string]interface{}) error
	DeleteShippingAddress(addressID, userID uuid.UUID) error

	UpsertBillingAddress(address *models.BillingAddress) error
	GetBillingAddress(userID uuid.UUID) (*models.BillingAddress, error)
	UpdateBillingAddress(userID uuid.UUID, updates map[string]interface{}) error
	DeleteBillingAddress(userID uuid.UUID) error
}

type CustomersRepository struct {
	db *gorm.DB
}

var _ CustomersRepositoryInterface = (*CustomersRepository)(nil)

func NewCustomersRepository(db *gorm.DB) *CustomersRepository {
	return &CustomersRepository{db: db}
}

// User Operations

// CreateUser creates a new account. Emails are unique.
func (r *CustomersRepository) CreateUser(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	var count int64
	if err := r.db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateEmail
	}

	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *CustomersRepository) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *CustomersRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns users with optional name search and role filter
func (r *CustomersRepository) ListUsers(search string, role *models.UserRole, page, limit int) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if role != nil {
		query = query.Where("role = ?", *role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	listQuery := query.Order("created_at DESC")
	if limit > 0 {
		listQuery = listQuery.Offset((page - 1) * limit).Limit(limit)
	}
	if err := listQuery.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUser applies a sparse update. Email changes are checked for
// collisions with other accounts.
func (r *CustomersRepository) UpdateUser(userID uuid.UUID, updates map[string]interface{}) error {
	if email, ok := updates["email"].(string); ok {
		var count int64
		if err := r.db.Model(&models.User{}).
			Where("email = ? AND id <> ?", email, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
	}

	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUser removes an account and its dependent rows
func (r *CustomersRepository) DeleteUser(userID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Cart{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Watchlist{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ShippingAddress{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.BillingAddress{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.User{}, "id = ?", userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Cart Operations

// GetCart returns the user's cart, creating an empty one on first access.
func (r *CustomersRepository) GetCart(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{
			ID:        uuid.New(),
			UserID:    userID,
			Items:     make(models.CartItems, 0),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := r.db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// SaveCart persists the full cart row
func (r *CustomersRepository) SaveCart(cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	return r.db.Save(cart).Error
}

// Watchlist Operations

// GetWatchlist returns the user's watchlist, creating an empty one on first
// access.
func (r *CustomersRepository) GetWatchlist(userID uuid.UUID) (*models.Watchlist, error) {
	var watchlist models.Watchlist
	err := r.db.Where("user_id = ?", userID).First(&watchlist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		watchlist = models.Watchlist{
			ID:        uuid.New(),
			UserID:    userID,
			Items:     make(models.WatchlistItems, 0),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := r.db.Create(&watchlist).Error; err != nil {
			return nil, err
		}
		return &watchlist, nil
	}
	if err != nil {
		return nil, err
	}
	return &watchlist, nil
}

// SaveWatchlist persists the full watchlist row
func (r *CustomersRepository) SaveWatchlist(watchlist *models.Watchlist) error {
	watchlist.UpdatedAt = time.Now()
	return r.db.Save(watchlist).Error
}

// Shipping Address Operations

// CreateShippingAddress adds an entry to the user's address book
func (r *CustomersRepository) CreateShippingAddress(address *models.ShippingAddress) error {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	address.CreatedAt = time.Now()
	address.UpdatedAt = time.Now()
	return r.db.Create(address).Error
}

// GetShippingAddress retrieves one address scoped to its owner
func (r *CustomersRepository) GetShippingAddress(addressID, userID uuid.UUID) (*models.ShippingAddress, error) {
	var address models.ShippingAddress
	if err := r.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// ListShippingAddresses returns the user's address book
func (r *CustomersRepository) ListShippingAddresses(userID uuid.UUID) ([]models.ShippingAddress, error) {
	var addresses []models.ShippingAddress
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// UpdateShippingAddress applies a sparse update scoped to the owner
func (r *CustomersRepository) UpdateShippingAddress(addressID, userID uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.ShippingAddress{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteShippingAddress removes one address scoped to the owner
func (r *CustomersRepository) DeleteShippingAddress(addressID, userID uuid.UUID) error {
	result := r.db.Delete(&models.ShippingAddress{}, "id = ? AND user_id = ?", addressID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Billing Address Operations

// UpsertBillingAddress creates or replaces the user's single billing address
func (r *CustomersRepository) UpsertBillingAddress(address *models.BillingAddress) error {
	var existing models.BillingAddress
	err := r.db.Where("user_id = ?", address.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if address.ID == uuid.Nil {
			address.ID = uuid.New()
		}
		address.CreatedAt = time.Now()
		address.UpdatedAt = time.Now()
		return r.db.Create(address).Error
	}
	if err != nil {
		return err
	}

	address.ID = existing.ID
	address.CreatedAt = existing.CreatedAt
	address.UpdatedAt = time.Now()
	return r.db.Save(address).Error
}

// GetBillingAddress retrieves the user's billing address
func (r *CustomersRepository) GetBillingAddress(userID uuid.UUID) (*models.BillingAddress, error) {
	var address models.BillingAddress
	if err := r.db.Where("user_id = ?", userID).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// UpdateBillingAddress applies a sparse update to the user's billing address
func (r *CustomersRepository) UpdateBillingAddress(userID uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.BillingAddress{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteBillingAddress removes the user's billing address
func (r *CustomersRepository) DeleteBillingAddress(userID uuid.UUID) error {
	result := r.db.Delete(&models.BillingAddress{}, "user_id = ?", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
