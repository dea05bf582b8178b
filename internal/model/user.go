package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account of the directory.
type User struct {
	ID           string    `json:"id" gorm:"type:char(36);primaryKey" bson:"_id"`
	Name         string    `json:"name" gorm:"size:255;not null;uniqueIndex" bson:"name"`
	MobileNumber string    `json:"mobileNumber,omitempty" gorm:"size:32" bson:"mobileNumber,omitempty"`
	Email        string    `json:"email" gorm:"size:255;not null;index" bson:"email"`
	PasswordHash string    `json:"-" gorm:"size:255;not null" bson:"passwordHash"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TableName keeps the collection name used by the mobile backend.
func (User) TableName() string {
	return "user_details"
}

// BeforeCreate sets the ID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserSummary is the non-sensitive view of a user returned after login.
type UserSummary struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Summary projects u without credentials.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
