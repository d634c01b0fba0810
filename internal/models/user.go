// Package models contains data structures for the application's domain models.
package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// User represents a registered account. Usernames are stored title-cased
// (the registration service normalizes input before writing).
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:128;not null" json:"-"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns "First Last" with empty parts trimmed away.
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserProfile is the one-to-one profile record created alongside every User.
// AvatarPath is a reference into external file storage; the bytes themselves
// are never handled here.
type UserProfile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Email      string    `gorm:"size:254" json:"email"`
	Tel        *string   `gorm:"size:20" json:"tel"`
	AvatarPath *string   `gorm:"size:255" json:"avatar_path"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuthToken is an opaque bearer credential, one per user, with no expiry.
// The key format (40 hex chars) matches what existing API clients already
// store, so it must not change.
type AuthToken struct {
	Key       string    `gorm:"primaryKey;size:40" json:"key"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateTokenKey returns a new random 40-character hex token key.
func GenerateTokenKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
