package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JSONB for PostgreSQL JSON support
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// Admin actions recorded in the audit trail
const (
	AdminActionApproveListing = "APPROVE_LISTING"
	AdminActionRejectListing  = "REJECT_LISTING"
	AdminActionPromoteUser    = "PROMOTE_USER"
)

// AdminLog records admin actions for audit trail
type AdminLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Actor        string    `gorm:"size:100;not null;index" json:"actor"`
	Action       string    `gorm:"size:100;not null" json:"action"`
	ResourceType string    `gorm:"size:50" json:"resourceType"`
	ResourceID   *uint     `json:"resourceId"`
	Details      JSONB     `gorm:"type:jsonb" json:"details"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (AdminLog) TableName() string {
	return "admin_logs"
}

// PlatformStats stores daily marketplace statistics
type PlatformStats struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Date             time.Time `gorm:"uniqueIndex;not null" json:"date"`
	TotalUsers       int       `gorm:"default:0" json:"totalUsers"`
	TotalListings    int       `gorm:"default:0" json:"totalListings"`
	PendingListings  int       `gorm:"default:0" json:"pendingListings"`
	ApprovedListings int       `gorm:"default:0" json:"approvedListings"`
	RejectedListings int       `gorm:"default:0" json:"rejectedListings"`
	TotalOrders      int       `gorm:"default:0" json:"totalOrders"`
	PointsRedeemed   int64     `gorm:"default:0" json:"pointsRedeemed"`
	TotalReferrals   int       `gorm:"default:0" json:"totalReferrals"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (PlatformStats) TableName() string {
	return "platform_stats"
}
