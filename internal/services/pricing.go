package services

import (
	"fluxtrade/internal/models"

	"github.com/shopspring/decimal"
)

var (
	LocalDeliveryFee       = decimal.NewFromInt(100)
	ShippingDeliveryFee    = decimal.NewFromInt(500)
	FirstOrderDiscountRate = decimal.NewFromFloat(0.10)

	// MaxAmount is the largest value the decimal(12,2) money columns hold
	MaxAmount = decimal.RequireFromString("9999999999.99")
)

// MaxQuantity caps a single cart line
const MaxQuantity = 100

// CartItem is one line of a client cart. Only the listing and the quantity
// are trusted; title and price come from the stored listing.
type CartItem struct {
	ListingID uint `json:"listingId"`
	Quantity  int  `json:"quantity"`
}

// Quote is the server-side price of a cart
type Quote struct {
	Items          []models.OrderItem  `json:"items"`
	DeliveryType   models.DeliveryType `json:"deliveryType"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DeliveryFee    decimal.Decimal     `json:"deliveryFee"`
	Total          decimal.Decimal     `json:"total"`
	FirstOrder     bool                `json:"firstOrder"`
	Discount       decimal.Decimal     `json:"discount"`
	FinalAmount    decimal.Decimal     `json:"finalAmount"`
	PointsRequired int64               `json:"pointsRequired"`
}

// DeliveryFee returns the flat fee for a delivery type
func DeliveryFee(deliveryType models.DeliveryType) (decimal.Decimal, error) {
	switch deliveryType {
	case models.DeliveryLocal:
		return LocalDeliveryFee, nil
	case models.DeliveryShipping:
		return ShippingDeliveryFee, nil
	default:
		return decimal.Zero, validationError("Invalid delivery type")
	}
}

// priceLines applies the delivery fee and the first-order discount to snapshotted lines.
// The discount is 10% of subtotal plus delivery, rounded to a whole unit.
func priceLines(lines []models.OrderItem, deliveryType models.DeliveryType, firstOrder bool) (*Quote, error) {
	if len(lines) == 0 {
		return nil, validationError("Cart is empty")
	}

	fee, err := DeliveryFee(deliveryType)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	total := subtotal.Add(fee)
	if total.GreaterThan(MaxAmount) {
		return nil, validationError("Order total exceeds %s", MaxAmount.String())
	}

	discount := decimal.Zero
	if firstOrder {
		discount = total.Mul(FirstOrderDiscountRate).Round(0)
	}
	final := total.Sub(discount)

	return &Quote{
		Items:          lines,
		DeliveryType:   deliveryType,
		Subtotal:       subtotal,
		DeliveryFee:    fee,
		Total:          total,
		FirstOrder:     firstOrder,
		Discount:       discount,
		FinalAmount:    final,
		PointsRequired: final.Ceil().IntPart(),
	}, nil
}
