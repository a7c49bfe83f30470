package services

import (
	"fmt"
	"strings"

	"fluxtrade/internal/models"

	"gorm.io/gorm"
)

// ReviewService handles listing reviews
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new ReviewService
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// CreateReviewInput is the review form
type CreateReviewInput struct {
	ListingID uint   `json:"listing"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func usernameOnly(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username")
}

// Create stores a review. The listing is not required to exist or to have been purchased.
func (s *ReviewService) Create(userID uint, input CreateReviewInput) (*models.Review, error) {
	if userID == 0 {
		return nil, newError(KindUnauthenticated, "User not authenticated")
	}
	if input.ListingID == 0 {
		return nil, validationError("Listing is required")
	}
	if input.Rating < models.MinRating || input.Rating > models.MaxRating {
		return nil, validationError("Rating must be between %d and %d", models.MinRating, models.MaxRating)
	}

	review := models.Review{
		ListingID: input.ListingID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.db.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

// ListForListing returns the reviews of a listing in insertion order
func (s *ReviewService) ListForListing(listingID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.Where("listing_id = ?", listingID).
		Preload("User", usernameOnly).
		Order("id ASC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	return reviews, nil
}
