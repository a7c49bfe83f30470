package services

import (
	"errors"
	"fmt"
	"strings"

	"fluxtrade/internal/models"

	"gorm.io/gorm"
)

// ForumService handles community posts
type ForumService struct {
	db *gorm.DB
}

// NewForumService creates a new ForumService
func NewForumService(db *gorm.DB) *ForumService {
	return &ForumService{db: db}
}

// CreatePostInput is the forum post form
type CreatePostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *ForumService) Create(userID uint, input CreatePostInput) (*models.ForumPost, error) {
	if userID == 0 {
		return nil, newError(KindUnauthenticated, "User not authenticated")
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if input.Title == "" || input.Content == "" {
		return nil, validationError("Title and content are required")
	}

	post := models.ForumPost{
		Title:    input.Title,
		Content:  input.Content,
		AuthorID: userID,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return &post, nil
}

// ListAll returns every post, newest first
func (s *ForumService) ListAll() ([]models.ForumPost, error) {
	var posts []models.ForumPost
	if err := s.db.Preload("Author", usernameOnly).
		Order("id DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	return posts, nil
}

func (s *ForumService) GetByID(id uint) (*models.ForumPost, error) {
	var post models.ForumPost
	if err := s.db.Preload("Author", usernameOnly).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Post")
		}
		return nil, fmt.Errorf("failed to fetch post: %w", err)
	}
	return &post, nil
}
