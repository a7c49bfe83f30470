package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fluxtrade/internal/auth"
	"fluxtrade/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Moderation actions accepted by VerifyListing
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Actor is the identity performing a privileged operation
type Actor struct {
	Username string
	Admin    bool
}

// AdminCredentials are the configured moderator credentials
type AdminCredentials struct {
	Username string
	Password string
}

// AdminService handles moderation and platform reporting
type AdminService struct {
	db    *gorm.DB
	creds AdminCredentials
}

// NewAdminService creates a new AdminService
func NewAdminService(db *gorm.DB, creds AdminCredentials) *AdminService {
	return &AdminService{db: db, creds: creds}
}

// SignIn checks the moderator credentials and issues a short-lived admin token
func (s *AdminService) SignIn(username, password string) (string, error) {
	invalid := newError(KindInvalidCredentials, "Invalid admin credentials")
	if s.creds.Username == "" || s.creds.Password == "" {
		return "", invalid
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.creds.Password)) == 1
	if !userOK || !passOK {
		return "", invalid
	}

	return auth.GenerateAdminToken(s.creds.Username)
}

// GetPendingListings returns the moderation queue, oldest first
func (s *AdminService) GetPendingListings(actor Actor) ([]models.Listing, error) {
	if !actor.Admin {
		return nil, newError(KindForbidden, "Admin access required")
	}

	var listings []models.Listing
	if err := s.db.Where("verification_status = ?", models.VerificationPending).
		Preload("Owner", ownerColumns).
		Order("id ASC").
		Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pending listings: %w", err)
	}
	return listings, nil
}

// VerifyListing moves a pending listing to approved or rejected. Decided
// listings are terminal; a second decision fails with InvalidTransition.
func (s *AdminService) VerifyListing(listingID uint, actor Actor, action, notes string) (*models.Listing, error) {
	if !actor.Admin {
		return nil, newError(KindForbidden, "Admin access required")
	}

	var status models.VerificationStatus
	var logAction string
	switch strings.ToLower(strings.TrimSpace(action)) {
	case ActionApprove:
		status, logAction = models.VerificationApproved, models.AdminActionApproveListing
	case ActionReject:
		status, logAction = models.VerificationRejected, models.AdminActionRejectListing
	default:
		return nil, newError(KindInvalidAction, "Invalid action. Must be 'approve' or 'reject'")
	}

	var listing models.Listing
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&listing, listingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Listing")
			}
			return fmt.Errorf("failed to fetch listing: %w", err)
		}

		now := time.Now().UTC()
		result := tx.Model(&models.Listing{}).
			Where("id = ? AND verification_status = ?", listingID, models.VerificationPending).
			Updates(map[string]interface{}{
				"verification_status": status,
				"is_verified":         status == models.VerificationApproved,
				"verification_notes":  notes,
				"verified_by":         actor.Username,
				"verified_at":         now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update listing: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			var current models.VerificationStatus
			if err := tx.Model(&models.Listing{}).Where("id = ?", listingID).
				Select("verification_status").Scan(&current).Error; err != nil {
				return fmt.Errorf("failed to read listing status: %w", err)
			}
			return newError(KindInvalidTransition, fmt.Sprintf("Listing has already been %s", current))
		}

		if err := tx.Create(&models.AdminLog{
			Actor:        actor.Username,
			Action:       logAction,
			ResourceType: "listing",
			ResourceID:   &listing.ID,
			Details:      models.JSONB{"notes": notes, "title": listing.Title},
		}).Error; err != nil {
			return fmt.Errorf("failed to record admin action: %w", err)
		}

		return tx.Preload("Owner", ownerColumns).First(&listing, listingID).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Listing %d %s by %s", listingID, status, actor.Username)
	return &listing, nil
}

// GetAdminLogs returns admin activity logs, newest first
func (s *AdminService) GetAdminLogs(limit int, offset int) ([]models.AdminLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var logs []models.AdminLog
	if err := s.db.Order("id DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch admin logs: %w", err)
	}
	return logs, nil
}

func statsDay(date time.Time) time.Time {
	date = date.UTC()
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// GetPlatformStats returns platform statistics for a date, computing them on first request
func (s *AdminService) GetPlatformStats(date time.Time) (*models.PlatformStats, error) {
	day := statsDay(date)

	var stats models.PlatformStats
	err := s.db.Where("date = ?", day).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.RefreshPlatformStats(day)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch platform stats: %w", err)
	}
	return &stats, nil
}

// RefreshPlatformStats recomputes and stores the snapshot for a date
func (s *AdminService) RefreshPlatformStats(date time.Time) (*models.PlatformStats, error) {
	stats, err := s.calculatePlatformStats(statsDay(date))
	if err != nil {
		return nil, err
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_users", "total_listings", "pending_listings", "approved_listings",
			"rejected_listings", "total_orders", "points_redeemed", "total_referrals", "updated_at",
		}),
	}).Create(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to store platform stats: %w", err)
	}

	var stored models.PlatformStats
	if err := s.db.Where("date = ?", stats.Date).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch platform stats: %w", err)
	}
	return &stored, nil
}

// calculatePlatformStats counts the marketplace as it stands now
func (s *AdminService) calculatePlatformStats(day time.Time) (models.PlatformStats, error) {
	var totalUsers, totalListings, totalOrders, totalReferrals int64
	var pending, approved, rejected int64
	var pointsRedeemed int64

	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{s.db.Model(&models.User{}), &totalUsers},
		{s.db.Model(&models.Listing{}), &totalListings},
		{s.db.Model(&models.Listing{}).Where("verification_status = ?", models.VerificationPending), &pending},
		{s.db.Model(&models.Listing{}).Where("verification_status = ?", models.VerificationApproved), &approved},
		{s.db.Model(&models.Listing{}).Where("verification_status = ?", models.VerificationRejected), &rejected},
		{s.db.Model(&models.Order{}), &totalOrders},
		{s.db.Model(&models.Referral{}), &totalReferrals},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return models.PlatformStats{}, fmt.Errorf("failed to calculate platform stats: %w", err)
		}
	}

	if err := s.db.Model(&models.Order{}).
		Select("COALESCE(SUM(points_spent), 0)").
		Scan(&pointsRedeemed).Error; err != nil {
		return models.PlatformStats{}, fmt.Errorf("failed to sum redeemed points: %w", err)
	}

	return models.PlatformStats{
		Date:             day,
		TotalUsers:       int(totalUsers),
		TotalListings:    int(totalListings),
		PendingListings:  int(pending),
		ApprovedListings: int(approved),
		RejectedListings: int(rejected),
		TotalOrders:      int(totalOrders),
		PointsRedeemed:   pointsRedeemed,
		TotalReferrals:   int(totalReferrals),
	}, nil
}
