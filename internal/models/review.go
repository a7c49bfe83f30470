package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a star rating left on a listing
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"not null;index" json:"listingId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      *UserRef  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Review) TableName() string {
	return "reviews"
}

// ForumPost is a community post
type ForumPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uint      `gorm:"not null;index" json:"authorId"`
	Author    *UserRef  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ForumPost) TableName() string {
	return "forum_posts"
}
