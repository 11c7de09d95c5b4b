package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Address is a postal address embedded in users and orders.
type Address struct {
	Street     string `json:"street" bson:"street" gorm:"size:255"`
	City       string `json:"city" bson:"city" gorm:"size:128"`
	State      string `json:"state" bson:"state" gorm:"size:128"`
	PostalCode string `json:"postalCode" bson:"postalCode" gorm:"size:32"`
	Country    string `json:"country" bson:"country" gorm:"size:64"`
}

// User represents a registered customer or administrator.
type User struct {
	ID           string    `json:"id" bson:"_id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" bson:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" bson:"passwordHash" gorm:"size:255;not null"` // Never expose in JSON
	Name         string    `json:"name" bson:"name" gorm:"size:255"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty" gorm:"size:64"`
	Address      Address   `json:"address" bson:"address" gorm:"embedded;embeddedPrefix:address_"`
	ProfileImage string    `json:"profileImage,omitempty" bson:"profileImage,omitempty" gorm:"size:512"`
	OrderCount   int       `json:"orderCount" bson:"orderCount" gorm:"not null;default:0"`
	Role         string    `json:"role" bson:"role" gorm:"size:32;not null;default:'user'"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProfilePatch lists the user fields clients may overwrite. Nil fields are kept.
type ProfilePatch struct {
	Name         *string
	Phone        *string
	Address      *Address
	ProfileImage *string
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// EnsureID assigns a UUID when the user has none yet.
func (u *User) EnsureID() {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.EnsureID()
	return nil
}
