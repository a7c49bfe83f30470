package models

// Category is the single marketplace category enumeration, shared by
// registration (interestedCategory), listing creation and listing filters.
type Category string

const (
	CategoryElectronics    Category = "Electronics"
	CategoryClothing       Category = "Clothing"
	CategoryHomeGarden     Category = "Home & Garden"
	CategorySportsOutdoors Category = "Sports & Outdoors"
	CategoryToysGames      Category = "Toys & Games"
	CategoryVehicles       Category = "Vehicles"
	CategoryCollectibles   Category = "Collectibles"
	CategoryBooks          Category = "Books"
	CategoryJewelry        Category = "Jewelry"
	CategoryOther          Category = "Other"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryHomeGarden,
	CategorySportsOutdoors,
	CategoryToysGames,
	CategoryVehicles,
	CategoryCollectibles,
	CategoryBooks,
	CategoryJewelry,
	CategoryOther,
}

// Valid reports whether c is one of Categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Condition describes the physical state of a listed item
type Condition string

const (
	ConditionNew     Condition = "New"
	ConditionLikeNew Condition = "Like New"
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
	ConditionPoor    Condition = "Poor"
)

var Conditions = []Condition{ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor}

func (c Condition) Valid() bool {
	for _, known := range Conditions {
		if c == known {
			return true
		}
	}
	return false
}

// TradePreference is how the owner wants to part with the item
type TradePreference string

const (
	TradeSwap       TradePreference = "Swap"
	TradeSell       TradePreference = "Sell"
	TradeGift       TradePreference = "Gift"
	TradeSwapOrSell TradePreference = "Swap or Sell"
)

var TradePreferences = []TradePreference{TradeSwap, TradeSell, TradeGift, TradeSwapOrSell}

func (t TradePreference) Valid() bool {
	for _, known := range TradePreferences {
		if t == known {
			return true
		}
	}
	return false
}

// VerificationStatus is the moderation state of a listing
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// DeliveryType selects the delivery fee tier at checkout
type DeliveryType string

const (
	DeliveryLocal    DeliveryType = "local"
	DeliveryShipping DeliveryType = "shipping"
)

func (d DeliveryType) Valid() bool {
	return d == DeliveryLocal || d == DeliveryShipping
}

// PaymentMethod records how an order was settled
type PaymentMethod string

const (
	PaymentPoints PaymentMethod = "points"
	PaymentCard   PaymentMethod = "card"
)
