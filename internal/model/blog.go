package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogPost represents an article of the shop blog.
type BlogPost struct {
	ID        string    `json:"id" bson:"_id" gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title" bson:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" bson:"content" gorm:"type:text"`
	Author    string    `json:"author" bson:"author" gorm:"size:255"`
	Category  string    `json:"category" bson:"category" gorm:"size:128;index"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty" gorm:"size:512"`
	Tags      []string  `json:"tags" bson:"tags" gorm:"serializer:json;type:json"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// EnsureID assigns a UUID when the post has none yet.
func (b *BlogPost) EnsureID() {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
}

// BeforeCreate sets UUID before creating the record.
func (b *BlogPost) BeforeCreate(tx *gorm.DB) error {
	b.EnsureID()
	return nil
}
