package models

import (
	"time"
)

// InitialPoints is the referralReward balance every new account starts with
const InitialPoints int64 = 1000

// ReferralBonusPoints is credited to a referrer each time their code is used
const ReferralBonusPoints int64 = 10

// User represents a marketplace account
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email              string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash       string    `gorm:"size:255;not null" json:"-"`
	ProfilePicture     string    `gorm:"size:500" json:"profilePicture"`
	IsAdmin            bool      `gorm:"default:false" json:"isAdmin"`
	ReferralCode       *string   `gorm:"uniqueIndex;size:20" json:"referralCode,omitempty"`
	ReferralReward     int64     `gorm:"not null;default:0" json:"referralReward"`
	InterestedCategory Category  `gorm:"size:50;not null" json:"interestedCategory"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// UserRef is the populated form of a user reference (username/email only)
type UserRef struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func (UserRef) TableName() string {
	return "users"
}
