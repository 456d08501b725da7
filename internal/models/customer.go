package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the access level of an account
type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleVendor UserRole = "vendor"
	RoleAdmin  UserRole = "admin"
)

// User represents a registered account (customer, vendor or admin)
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex:idx_users_email"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         UserRole  `json:"role" gorm:"not null;default:'user';index"`
	Verified     bool      `json:"verified" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// UserPublic is the safe projection of a user for API responses.
type UserPublic struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     UserRole  `json:"role"`
	Verified bool      `json:"verified"`
}

// Public strips credential fields from a user record.
func (u *User) Public() UserPublic {
	return UserPublic{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Verified: u.Verified,
	}
}

// ShippingAddress represents one entry in a user's shipping address book
type ShippingAddress struct {
	ID                  uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID              uuid.UUID `json:"userId" gorm:"type:uuid;not null;index:idx_shipping_addresses_user"`
	FirstName           string    `json:"firstName" gorm:"not null"`
	LastName            string    `json:"lastName" gorm:"not null"`
	StreetAddress       string    `json:"streetAddress" gorm:"not null"`
	Apartment           *string   `json:"apartment,omitempty"`
	CompanyName         *string   `json:"companyName,omitempty"`
	City                string    `json:"city" gorm:"not null"`
	State               string    `json:"state" gorm:"not null"`
	PostalCode          string    `json:"postalCode" gorm:"not null"`
	Country             string    `json:"country" gorm:"not null"`
	Phone               string    `json:"phone" gorm:"not null"`
	DeliveryInstruction *string   `json:"deliveryInstruction,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}

// BillingAddress represents a user's billing address (one per user)
type BillingAddress struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID        uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_billing_addresses_user"`
	FirstName     string    `json:"firstName" gorm:"not null"`
	LastName      string    `json:"lastName" gorm:"not null"`
	StreetAddress string    `json:"streetAddress" gorm:"not null"`
	Apartment     *string   `json:"apartment,omitempty"`
	CompanyName   *string   `json:"companyName,omitempty"`
	City          string    `json:"city" gorm:"not null"`
	State         string    `json:"state" gorm:"not null"`
	PostalCode    string    `json:"postalCode" gorm:"not null"`
	Country       string    `json:"country" gorm:"not null"`
	Phone         string    `json:"phone" gorm:"not null"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (BillingAddress) TableName() string {
	return "billing_addresses"
}

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Role     UserRole `json:"role"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token issued on successful login
type LoginResponse struct {
	Token string     `json:"token"`
	User  UserPublic `json:"user"`
}

// UpdateProfileRequest represents a sparse profile update
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// UpdatePasswordRequest represents a password change request
type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// CreateUserRequest represents an admin user creation request
type CreateUserRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Role     UserRole `json:"role"`
	Verified *bool    `json:"verified"`
}

// UpdateUserRequest represents an admin sparse user update
type UpdateUserRequest struct {
	Name     *string   `json:"name"`
	Email    *string   `json:"email" binding:"omitempty,email"`
	Role     *UserRole `json:"role"`
	Verified *bool     `json:"verified"`
}

// UserListResponse represents a paginated user list
type UserListResponse struct {
	Users      []UserPublic   `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}

// CreateShippingAddressRequest represents a shipping address creation request
type CreateShippingAddressRequest struct {
	FirstName           string  `json:"firstName" binding:"required"`
	LastName            string  `json:"lastName" binding:"required"`
	StreetAddress       string  `json:"streetAddress" binding:"required"`
	Apartment           *string `json:"apartment"`
	CompanyName         *string `json:"companyName"`
	City                string  `json:"city" binding:"required"`
	State               string  `json:"state" binding:"required"`
	PostalCode          string  `json:"postalCode" binding:"required"`
	Country             string  `json:"country" binding:"required"`
	Phone               string  `json:"phone" binding:"required"`
	DeliveryInstruction *string `json:"deliveryInstruction"`
}

// UpdateShippingAddressRequest represents a sparse shipping address update
type UpdateShippingAddressRequest struct {
	FirstName           *string `json:"firstName"`
	LastName            *string `json:"lastName"`
	StreetAddress       *string `json:"streetAddress"`
	Apartment           *string `json:"apartment"`
	CompanyName         *string `json:"companyName"`
	City                *string `json:"city"`
	State               *string `json:"state"`
	PostalCode          *string `json:"postalCode"`
	Country             *string `json:"country"`
	Phone               *string `json:"phone"`
	DeliveryInstruction *string `json:"deliveryInstruction"`
}

// CreateBillingAddressRequest represents a billing address creation request
type CreateBillingAddressRequest struct {
	FirstName     string  `json:"firstName" binding:"required"`
	LastName      string  `json:"lastName" binding:"required"`
	StreetAddress string  `json:"streetAddress" binding:"required"`
	Apartment     *string `json:"apartment"`
	CompanyName   *string `json:"companyName"`
	City          string  `json:"city" binding:"required"`
	State         string  `json:"state" binding:"required"`
	PostalCode    string  `json:"postalCode" binding:"required"`
	Country       string  `json:"country" binding:"required"`
	Phone         string  `json:"phone" binding:"required"`
}

// UpdateBillingAddressRequest represents a sparse billing address update
type UpdateBillingAddressRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	StreetAddress *string `json:"streetAddress"`
	Apartment     *string `json:"apartment"`
	CompanyName   *string `json:"companyName"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	PostalCode    *string `json:"postalCode"`
	Country       *string `json:"country"`
	Phone         *string `json:"phone"`
}
