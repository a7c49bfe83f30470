package models

import (
	"time"
)

// Referral links the user who shared a code to the user who registered with it.
// A referee can appear at most once.
type Referral struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReferrerID uint      `gorm:"not null;index" json:"referrerId"`
	Referrer   *UserRef  `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	RefereeID  uint      `gorm:"not null;uniqueIndex" json:"refereeId"`
	Referee    *UserRef  `gorm:"foreignKey:RefereeID" json:"referee,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Referral) TableName() string {
	return "referrals"
}

// Ledger event types
const (
	LedgerSignupBonus   = "signup_bonus"
	LedgerReferralBonus = "referral_bonus"
	LedgerCheckoutDebit = "checkout_debit"
)

// PointsLedgerEntry records one change of a user's referralReward balance
type PointsLedgerEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"userId"`
	Change       int64     `gorm:"not null" json:"change"`
	BalanceAfter int64     `gorm:"not null" json:"balanceAfter"`
	EventType    string    `gorm:"size:30;not null" json:"eventType"`
	ReferralID   *uint     `gorm:"index" json:"referralId,omitempty"`
	OrderID      *uint     `gorm:"index" json:"orderId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (PointsLedgerEntry) TableName() string {
	return "points_ledger"
}
