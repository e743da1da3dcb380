package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleClient   UserRole = "Client"
	RoleOwner    UserRole = "Owner"
	RoleDelivery UserRole = "Delivery"
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleClient, RoleOwner, RoleDelivery:
		return true
	}
	return false
}

const passwordCost = 10

// ErrHashPassword is returned by the save hook when bcrypt fails
var ErrHashPassword = errors.New("could not hash password")

type User struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	Email         string       `json:"email" gorm:"uniqueIndex;not null"`
	Password      string       `json:"-" gorm:"not null"`
	PlainPassword string       `json:"-" gorm:"-"`
	Role          UserRole     `json:"role" gorm:"not null;default:'Client'"`
	Verified      bool         `json:"verified" gorm:"not null;default:false"`
	LastLogin     *time.Time   `json:"last_login"`
	Restaurants   []Restaurant `json:"restaurants,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// SetPassword stages a plaintext password; it is hashed on the next save
func (u *User) SetPassword(plain string) {
	u.PlainPassword = plain
}

// BeforeSave replaces a staged plaintext password with its bcrypt hash.
// It runs on both create and update.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.PlainPassword == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.PlainPassword), passwordCost)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHashPassword, err)
	}
	u.Password = string(hash)
	u.PlainPassword = ""
	return nil
}

// CheckPassword compares a candidate against the stored hash.
// A mismatch is (false, nil); only bcrypt failures return an error.
func (u *User) CheckPassword(candidate string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// Verification is a one-time email confirmation code
type Verification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *Verification) BeforeCreate(tx *gorm.DB) error {
	if v.Code == "" {
		v.Code = uuid.NewString()
	}
	return nil
}
