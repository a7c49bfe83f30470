package services

import (
	"fmt"

	"fluxtrade/internal/models"

	"gorm.io/gorm"
)

// DebitPoints removes amount from the user's referralReward balance and returns
// the new balance. The check and the decrement are one conditional UPDATE, so
// concurrent debits can never drive the balance below zero.
func DebitPoints(tx *gorm.DB, userID uint, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, validationError("Debit amount must be positive")
	}

	result := tx.Model(&models.User{}).
		Where("id = ? AND referral_reward >= ?", userID, amount).
		Update("referral_reward", gorm.Expr("referral_reward - ?", amount))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to debit points: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return 0, fmt.Errorf("failed to load user: %w", err)
		}
		if count == 0 {
			return 0, notFound("User")
		}
		return 0, newError(KindInsufficientPoints, "Not enough points")
	}

	return currentBalance(tx, userID)
}

// CreditPoints adds amount to the user's balance. There is no lower bound to
// guard, so a plain atomic increment is enough.
func CreditPoints(tx *gorm.DB, userID uint, amount int64) (int64, error) {
	result := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("referral_reward", gorm.Expr("referral_reward + ?", amount))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to credit points: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, notFound("User")
	}

	return currentBalance(tx, userID)
}

func currentBalance(tx *gorm.DB, userID uint) (int64, error) {
	var balance int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		Select("referral_reward").Scan(&balance).Error; err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

func recordLedger(tx *gorm.DB, entry models.PointsLedgerEntry) error {
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record points ledger entry: %w", err)
	}
	return nil
}
