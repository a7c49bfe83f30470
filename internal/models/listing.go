package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StringList stores an ordered list of strings in a JSON column
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(l))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(l))
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Listing represents a marketplace item offered for sale or trade
type Listing struct {
	ID                 uint               `gorm:"primaryKey" json:"id"`
	Title              string             `gorm:"size:255;not null" json:"title"`
	Description        string             `gorm:"type:text;not null" json:"description"`
	Slug               string             `gorm:"uniqueIndex;size:300;not null" json:"slug"`
	Images             StringList         `gorm:"type:text" json:"images"`
	Category           Category           `gorm:"size:50;not null;index" json:"category"`
	Condition          Condition          `gorm:"size:20;not null;index" json:"condition"`
	Location           string             `gorm:"size:255;not null;index" json:"location"`
	Price              decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	TradePreference    TradePreference    `gorm:"size:20;not null" json:"tradePreference"`
	OwnerID            uint               `gorm:"not null;index" json:"ownerId"`
	Owner              *UserRef           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	IsVerified         bool               `gorm:"not null;default:false;index" json:"isVerified"`
	VerificationStatus VerificationStatus `gorm:"size:20;not null;default:pending;index" json:"verificationStatus"`
	VerificationNotes  string             `gorm:"type:text" json:"verificationNotes"`
	VerifiedBy         string             `gorm:"size:100" json:"verifiedBy"`
	VerifiedAt         *time.Time         `json:"verifiedAt"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

func (Listing) TableName() string {
	return "listings"
}

// ListingStatus is the public moderation projection a submitter polls
type ListingStatus struct {
	ID                 uint               `json:"id"`
	Title              string             `json:"title"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	VerificationNotes  string             `json:"verificationNotes"`
	VerifiedAt         *time.Time         `json:"verifiedAt"`
}
