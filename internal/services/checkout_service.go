package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fluxtrade/internal/models"
	"fluxtrade/internal/payments"
	"fluxtrade/internal/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultProductName = "Buy Now Product"

// PaymentGateway creates hosted card checkout sessions
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req payments.SessionRequest) (*payments.Session, error)
}

// CheckoutService prices carts and settles orders
type CheckoutService struct {
	db      *gorm.DB
	gateway PaymentGateway
}

// NewCheckoutService creates a new CheckoutService. gateway may be nil when card payments are off.
func NewCheckoutService(db *gorm.DB, gateway PaymentGateway) *CheckoutService {
	return &CheckoutService{db: db, gateway: gateway}
}

// QuoteInput is a cart submitted for pricing
type QuoteInput struct {
	Items        []CartItem          `json:"items"`
	DeliveryType models.DeliveryType `json:"deliveryType"`
}

// PointsCheckoutInput is a cart settled with points. Amount is optional; when
// set it must equal the quoted points.
type PointsCheckoutInput struct {
	Amount       int64               `json:"amount"`
	Items        []CartItem          `json:"items"`
	DeliveryType models.DeliveryType `json:"deliveryType"`
}

// CheckoutResult is a settled points order
type CheckoutResult struct {
	Order           *models.Order `json:"order"`
	RemainingPoints int64         `json:"remainingPoints"`
}

// Quote prices a cart for the user without settling it
func (s *CheckoutService) Quote(userID uint, input QuoteInput) (*Quote, error) {
	return s.quote(s.db, userID, input.Items, input.DeliveryType)
}

func (s *CheckoutService) quote(tx *gorm.DB, userID uint, items []CartItem, deliveryType models.DeliveryType) (*Quote, error) {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if count == 0 {
		return nil, notFound("User")
	}

	if len(items) == 0 {
		return nil, validationError("Cart is empty")
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if item.ListingID == 0 {
			return nil, validationError("Each item needs a listingId")
		}
		if item.Quantity < 1 || item.Quantity > MaxQuantity {
			return nil, validationError("Quantity must be between 1 and %d", MaxQuantity)
		}
		ids = append(ids, item.ListingID)
	}

	var listings []models.Listing
	if err := tx.Where("id IN ?", ids).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}
	byID := make(map[uint]models.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}

	lines := make([]models.OrderItem, 0, len(items))
	for i, item := range items {
		listing, ok := byID[item.ListingID]
		if !ok {
			return nil, notFound(fmt.Sprintf("Listing %d", item.ListingID))
		}
		if !listing.IsVerified {
			return nil, validationError("Listing %d is not available for purchase", listing.ID)
		}
		lines = append(lines, models.OrderItem{
			Position:  i,
			ListingID: listing.ID,
			Title:     listing.Title,
			Price:     listing.Price,
			Quantity:  item.Quantity,
		})
	}

	var prior int64
	if err := tx.Model(&models.Order{}).Where("user_id = ?", userID).Count(&prior).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	return priceLines(lines, deliveryType, prior == 0)
}

// PayWithPoints settles a cart from the user's points balance. The debit, the
// ledger entry and the order are written in one transaction.
func (s *CheckoutService) PayWithPoints(userID uint, input PointsCheckoutInput) (*CheckoutResult, error) {
	var result CheckoutResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// serialise checkouts per user so the first-order count cannot be read twice
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		q, err := s.quote(tx, userID, input.Items, input.DeliveryType)
		if err != nil {
			return err
		}

		if input.Amount != 0 && input.Amount != q.PointsRequired {
			return validationError("Amount does not match order total of %d points", q.PointsRequired)
		}

		balance, err := DebitPoints(tx, userID, q.PointsRequired)
		if err != nil {
			return err
		}

		order := models.Order{
			Reference:     utils.GenerateOrderReference(time.Now()),
			UserID:        userID,
			Items:         q.Items,
			DeliveryType:  q.DeliveryType,
			Subtotal:      q.Subtotal,
			DeliveryFee:   q.DeliveryFee,
			Discount:      q.Discount,
			TotalAmount:   q.FinalAmount,
			PointsSpent:   q.PointsRequired,
			PaymentMethod: models.PaymentPoints,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if err := recordLedger(tx, models.PointsLedgerEntry{
			UserID:       userID,
			Change:       -q.PointsRequired,
			BalanceAfter: balance,
			EventType:    models.LedgerCheckoutDebit,
			OrderID:      &order.ID,
		}); err != nil {
			return err
		}

		result = CheckoutResult{Order: &order, RemainingPoints: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Order %s paid with %d points by user %d", result.Order.Reference, result.Order.PointsSpent, userID)
	return &result, nil
}

func lockUser(tx *gorm.DB, userID uint) error {
	var user models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", userID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("User")
	}
	if err != nil {
		return fmt.Errorf("failed to lock user: %w", err)
	}
	return nil
}

// CreateCheckoutSession opens a hosted card payment for a single line item and
// returns the redirect URL. No order is stored on this path.
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, title string, price decimal.Decimal) (string, error) {
	if !price.IsPositive() {
		return "", validationError("Invalid or missing price")
	}
	if s.gateway == nil {
		return "", newError(KindUpstream, "Card payments are not configured")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultProductName
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.SessionRequest{
		ProductName: title,
		UnitAmount:  price.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		Quantity:    1,
	})
	if err != nil {
		log.Printf("Checkout session error: %v", err)
		return "", &Error{Kind: KindUpstream, Message: "Failed to create checkout session", Err: err}
	}

	return session.URL, nil
}

// ListOrders returns the user's orders with their items, newest first
func (s *CheckoutService) ListOrders(userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Where("user_id = ?", userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns one of the user's orders
func (s *CheckoutService) GetOrder(userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Where("id = ? AND user_id = ?", orderID, userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Order")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return &order, nil
}
