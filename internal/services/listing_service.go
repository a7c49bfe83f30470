package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"fluxtrade/internal/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListingService handles listing creation and search
type ListingService struct {
	db *gorm.DB
}

// NewListingService creates a new ListingService
func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

// CreateListingInput is the listing form submitted by an owner
type CreateListingInput struct {
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Images          []string               `json:"images"`
	Category        models.Category        `json:"category"`
	Condition       models.Condition       `json:"condition"`
	Location        string                 `json:"location"`
	Price           decimal.Decimal        `json:"price"`
	TradePreference models.TradePreference `json:"tradePreference"`
}

// ListingFilter holds the equality filters of the listing search
type ListingFilter struct {
	Category  models.Category
	Condition models.Condition
	Location  string
	ShowAll   bool
}

func ownerColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "email")
}

// Create stores a new listing. It always starts pending and unverified.
func (s *ListingService) Create(ownerID uint, input CreateListingInput) (*models.Listing, error) {
	if ownerID == 0 {
		return nil, newError(KindUnauthenticated, "User not authenticated")
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)
	if input.TradePreference == "" {
		input.TradePreference = models.TradeSell
	}

	switch {
	case input.Title == "" || input.Description == "" || input.Location == "":
		return nil, validationError("Title, description and location are required")
	case !input.Category.Valid():
		return nil, validationError("Invalid category")
	case !input.Condition.Valid():
		return nil, validationError("Invalid condition")
	case !input.TradePreference.Valid():
		return nil, validationError("Invalid trade preference")
	case input.Price.IsNegative():
		return nil, validationError("Price cannot be negative")
	case input.Price.GreaterThan(MaxAmount):
		return nil, validationError("Price exceeds %s", MaxAmount.String())
	}

	images := models.StringList{}
	for _, img := range input.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}

	listing := models.Listing{
		Title:              input.Title,
		Description:        input.Description,
		Slug:               listingSlug(input.Title),
		Images:             images,
		Category:           input.Category,
		Condition:          input.Condition,
		Location:           input.Location,
		Price:              input.Price.Round(2),
		TradePreference:    input.TradePreference,
		OwnerID:            ownerID,
		IsVerified:         false,
		VerificationStatus: models.VerificationPending,
	}

	if err := s.db.Create(&listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	log.Printf("Listing %d created by user %d, awaiting verification", listing.ID, ownerID)
	return &listing, nil
}

func listingSlug(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "listing"
	}
	return base + "-" + uuid.NewString()[:8]
}

// GetAll returns listings matching every provided filter. Unless ShowAll is
// set only verified listings are returned.
func (s *ListingService) GetAll(filter ListingFilter) ([]models.Listing, error) {
	query := s.db.Model(&models.Listing{}).Preload("Owner", ownerColumns)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Condition != "" {
		query = query.Where("condition = ?", filter.Condition)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}
	if !filter.ShowAll {
		query = query.Where("is_verified = ?", true)
	}

	var listings []models.Listing
	if err := query.Order("id DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return listings, nil
}

// GetByID returns a listing with its owner populated
func (s *ListingService) GetByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.Preload("Owner", ownerColumns).First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Listing")
		}
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	return &listing, nil
}

// GetStatus returns the moderation projection of a listing
func (s *ListingService) GetStatus(id uint) (*models.ListingStatus, error) {
	var status models.ListingStatus
	result := s.db.Model(&models.Listing{}).
		Select("id", "title", "verification_status", "verification_notes", "verified_at").
		Where("id = ?", id).
		Limit(1).
		Scan(&status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch listing status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, notFound("Listing")
	}
	return &status, nil
}
