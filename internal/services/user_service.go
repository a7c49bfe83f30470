package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"

	"fluxtrade/internal/auth"
	"fluxtrade/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordCost is the bcrypt work factor for stored credentials
const PasswordCost = 10

// AdminBootstrap gates the shared-secret admin promotion endpoint
type AdminBootstrap struct {
	Enabled bool
	Secret  string
}

// UserService handles accounts, sign-in and the points balance
type UserService struct {
	db        *gorm.DB
	referrals *ReferralService
	bootstrap AdminBootstrap
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB, referrals *ReferralService, bootstrap AdminBootstrap) *UserService {
	return &UserService{
		db:        db,
		referrals: referrals,
		bootstrap: bootstrap,
	}
}

// RegisterInput is the registration form
type RegisterInput struct {
	Username           string          `json:"username"`
	Email              string          `json:"email"`
	Password           string          `json:"password"`
	ProfilePicture     string          `json:"profilePicture"`
	ReferralCode       string          `json:"referralCode"`
	InterestedCategory models.Category `json:"interestedCategory"`
}

// RegisterResult is returned after a successful registration
type RegisterResult struct {
	User       *models.User      `json:"user"`
	Referral   *models.Referral  `json:"referral,omitempty"`
	Categories []models.Category `json:"categories"`
}

// AuthResult is returned after a successful sign-in
type AuthResult struct {
	Token      string            `json:"token"`
	User       *models.User      `json:"user"`
	Categories []models.Category `json:"categories"`
}

// Profile is a user plus derived account figures
type Profile struct {
	models.User
	OrderCount int64 `json:"orderCount"`
}

// Register creates an account, starts it with InitialPoints and applies an optional referral code
func (s *UserService) Register(input RegisterInput) (*RegisterResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, validationError("Username, email and password are required")
	}
	if !input.InterestedCategory.Valid() {
		return nil, validationError("Invalid interested category")
	}

	var existing int64
	if err := s.db.Model(&models.User{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing > 0 {
		return nil, newError(KindDuplicateUser, "User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:           input.Username,
		Email:              input.Email,
		PasswordHash:       string(hash),
		ProfilePicture:     input.ProfilePicture,
		ReferralReward:     models.InitialPoints,
		InterestedCategory: input.InterestedCategory,
	}
	var referral *models.Referral

	err = s.db.Transaction(func(tx *gorm.DB) error {
		code, err := s.referrals.uniqueCode(tx)
		if err != nil {
			return err
		}
		user.ReferralCode = &code

		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return newError(KindDuplicateUser, "User already exists")
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		if err := recordLedger(tx, models.PointsLedgerEntry{
			UserID:       user.ID,
			Change:       models.InitialPoints,
			BalanceAfter: models.InitialPoints,
			EventType:    models.LedgerSignupBonus,
		}); err != nil {
			return err
		}

		referral, err = s.referrals.applyReferral(tx, &user, input.ReferralCode)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Registered user %d (%s)", user.ID, user.Username)
	return &RegisterResult{
		User:       &user,
		Referral:   referral,
		Categories: models.Categories,
	}, nil
}

// SignIn checks credentials and issues a user token.
// Unknown email and wrong password fail identically.
func (s *UserService) SignIn(email, password string) (*AuthResult, error) {
	invalid := newError(KindInvalidCredentials, "Invalid credentials")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalid
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}

	token, err := auth.GenerateUserToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Token:      token,
		User:       &user,
		Categories: models.Categories,
	}, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// GetProfile returns the caller's account with their order count
func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	var orders int64
	if err := s.db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	return &Profile{User: *user, OrderCount: orders}, nil
}

// RegenerateReferralCode replaces the user's referral code. Balance and
// existing referrals are untouched.
func (s *UserService) RegenerateReferralCode(userID uint) (string, error) {
	var code string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if count == 0 {
			return notFound("User")
		}

		var err error
		code, err = s.referrals.uniqueCode(tx)
		if err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("referral_code", code).Error
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// PromoteToAdmin sets isAdmin when the bootstrap capability is on and the secret matches
func (s *UserService) PromoteToAdmin(userID uint, secretKey string) (*models.User, error) {
	if !s.bootstrap.Enabled || s.bootstrap.Secret == "" {
		return nil, newError(KindForbidden, "Admin bootstrap is disabled")
	}
	if subtle.ConstantTimeCompare([]byte(secretKey), []byte(s.bootstrap.Secret)) != 1 {
		return nil, newError(KindForbidden, "Invalid secret key")
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("id = ?", userID).Update("is_admin", true)
		if result.Error != nil {
			return fmt.Errorf("failed to promote user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return notFound("User")
		}

		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		return tx.Create(&models.AdminLog{
			Actor:        "bootstrap",
			Action:       models.AdminActionPromoteUser,
			ResourceType: "user",
			ResourceID:   &user.ID,
			Details:      models.JSONB{"username": user.Username},
		}).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("User %d promoted to admin via bootstrap", userID)
	return &user, nil
}

// GetLedger returns the user's points history, newest first
func (s *UserService) GetLedger(userID uint) ([]models.PointsLedgerEntry, error) {
	var entries []models.PointsLedgerEntry
	if err := s.db.Where("user_id = ?", userID).
		Order("id DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load points history: %w", err)
	}
	return entries, nil
}
