package services

import (
	"fmt"
	"strings"
	"testing"

	"fluxtrade/internal/auth"
	"fluxtrade/internal/database"
	"fluxtrade/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := database.Open(sqlite.Open(dsn), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps concurrent transactions from tripping over SQLite locks
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	auth.InitJWT("test-secret")
	return db
}

type testEnv struct {
	db        *gorm.DB
	users     *UserService
	referrals *ReferralService
	listings  *ListingService
	admin     *AdminService
	reviews   *ReviewService
	forum     *ForumService
	checkout  *CheckoutService
}

func newTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t)
	referrals := NewReferralService(db)
	return &testEnv{
		db:        db,
		referrals: referrals,
		users:     NewUserService(db, referrals, AdminBootstrap{Enabled: true, Secret: "makeAdmin"}),
		listings:  NewListingService(db),
		admin:     NewAdminService(db, AdminCredentials{Username: "admin", Password: "hunter2"}),
		reviews:   NewReviewService(db),
		forum:     NewForumService(db),
		checkout:  NewCheckoutService(db, nil),
	}
}

var moderator = Actor{Username: "moderator", Admin: true}

func (e *testEnv) register(t *testing.T, username string, referralCode string) *models.User {
	t.Helper()
	res, err := e.users.Register(RegisterInput{
		Username:           username,
		Email:              username + "@example.com",
		Password:           "password123",
		ReferralCode:       referralCode,
		InterestedCategory: models.CategoryBooks,
	})
	require.NoError(t, err)
	return res.User
}

func (e *testEnv) createListing(t *testing.T, ownerID uint, title string, price int64) *models.Listing {
	t.Helper()
	listing, err := e.listings.Create(ownerID, CreateListingInput{
		Title:       title,
		Description: "Lightly used",
		Category:    models.CategoryElectronics,
		Condition:   models.ConditionGood,
		Location:    "Dhaka",
		Price:       decimal.NewFromInt(price),
	})
	require.NoError(t, err)
	return listing
}

func (e *testEnv) approvedListing(t *testing.T, ownerID uint, title string, price int64) *models.Listing {
	t.Helper()
	listing := e.createListing(t, ownerID, title, price)
	approved, err := e.admin.VerifyListing(listing.ID, moderator, ActionApprove, "")
	require.NoError(t, err)
	return approved
}

func (e *testEnv) balance(t *testing.T, userID uint) int64 {
	t.Helper()
	user, err := e.users.GetUserByID(userID)
	require.NoError(t, err)
	return user.ReferralReward
}
