package entity

import "errors"

// ErrUsernameTaken is returned when storing a user whose username exists.
var ErrUsernameTaken = errors.New("username already taken")

// User is a registered account. Notes refer to users by Username only.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement:false"`
	Username     string `gorm:"not null;size:150;uniqueIndex"`
	FirstName    string `gorm:"not null;size:150"`
	Email        string `gorm:"not null;size:254"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"`
}

// Token is the single bearer token currently valid for a user.
// Replacing the row invalidates every token issued before it.
type Token struct {
	UserID    int64  `gorm:"primaryKey;autoIncrement:false"`
	TokenID   string `gorm:"not null;uniqueIndex"` // JWT "jti"
	Value     string `gorm:"not null"` // Signed JWT handed to the user
	CreatedAt int64  `gorm:"not null;autoCreateTime:false"`
}
