package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"fluxtrade/internal/models"
	"fluxtrade/internal/utils"

	"gorm.io/gorm"
)

// maxCodeAttempts bounds referral code regeneration on collision
const maxCodeAttempts = 5

// ErrReferralCodeExhausted is returned when no free referral code was found
var ErrReferralCodeExhausted = errors.New("could not generate a unique referral code")

// ReferralService handles referral codes and referral edges
type ReferralService struct {
	db      *gorm.DB
	newCode func() (string, error)
}

// NewReferralService creates a new ReferralService
func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{
		db:      db,
		newCode: utils.GenerateReferralCode,
	}
}

// uniqueCode draws referral codes until one is unused, giving up after maxCodeAttempts
func (s *ReferralService) uniqueCode(tx *gorm.DB) (string, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}

		var count int64
		if err := tx.Model(&models.User{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check referral code: %w", err)
		}
		if count == 0 {
			return code, nil
		}
		log.Printf("Referral code collision on attempt %d", attempt)
	}
	return "", fmt.Errorf("%w after %d attempts", ErrReferralCodeExhausted, maxCodeAttempts)
}

// applyReferral links referee to the owner of code and credits the referrer.
// Unknown codes and self-referrals are ignored and return a nil referral.
func (s *ReferralService) applyReferral(tx *gorm.DB, referee *models.User, code string) (*models.Referral, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}

	var referrer models.User
	if err := tx.Where("referral_code = ?", code).First(&referrer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Ignoring unknown referral code %s for user %d", code, referee.ID)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up referral code: %w", err)
	}

	if referrer.ID == referee.ID {
		return nil, nil
	}

	referral := models.Referral{
		ReferrerID: referrer.ID,
		RefereeID:  referee.ID,
	}
	if err := tx.Create(&referral).Error; err != nil {
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}

	balance, err := CreditPoints(tx, referrer.ID, models.ReferralBonusPoints)
	if err != nil {
		return nil, err
	}

	if err := recordLedger(tx, models.PointsLedgerEntry{
		UserID:       referrer.ID,
		Change:       models.ReferralBonusPoints,
		BalanceAfter: balance,
		EventType:    models.LedgerReferralBonus,
		ReferralID:   &referral.ID,
	}); err != nil {
		return nil, err
	}

	log.Printf("Applied referral code %s: user %d referred by user %d", code, referee.ID, referrer.ID)
	return &referral, nil
}

// ListReferrals returns the referrals made by userID with the referee populated
func (s *ReferralService) ListReferrals(userID uint) ([]models.Referral, error) {
	var referrals []models.Referral
	if err := s.db.Where("referrer_id = ?", userID).
		Preload("Referee").
		Order("id ASC").
		Find(&referrals).Error; err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	return referrals, nil
}
