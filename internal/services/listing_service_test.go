package services

import (
	"strings"
	"testing"

	"fluxtrade/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateListingStartsPending(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "seller", "")

	listing, err := env.listings.Create(owner.ID, CreateListingInput{
		Title:       "Vintage Camera",
		Description: "Film camera, works",
		Images:      []string{"a.jpg", " ", "b.jpg"},
		Category:    models.CategoryCollectibles,
		Condition:   models.ConditionLikeNew,
		Location:    "Chittagong",
		Price:       decimal.RequireFromString("2500.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.VerificationPending, listing.VerificationStatus)
	assert.False(t, listing.IsVerified)
	assert.Equal(t, models.TradeSell, listing.TradePreference)
	assert.Equal(t, models.StringList{"a.jpg", "b.jpg"}, listing.Images)
	assert.True(t, strings.HasPrefix(listing.Slug, "vintage-camera-"), listing.Slug)

	stored, err := env.listings.GetByID(listing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, stored.VerificationStatus)
	assert.False(t, stored.IsVerified)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("2500.50")))
	assert.Equal(t, models.StringList{"a.jpg", "b.jpg"}, stored.Images)
	require.NotNil(t, stored.Owner)
	assert.Equal(t, "seller", stored.Owner.Username)
	assert.Equal(t, "seller@example.com", stored.Owner.Email)
}

func TestCreateListingValidation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "seller", "")

	valid := func() CreateListingInput {
		return CreateListingInput{
			Title:       "Bike",
			Description: "Road bike",
			Category:    models.CategorySportsOutdoors,
			Condition:   models.ConditionFair,
			Location:    "Sylhet",
			Price:       decimal.NewFromInt(100),
		}
	}

	tests := []struct {
		name   string
		mutate func(*CreateListingInput)
	}{
		{"missing title", func(in *CreateListingInput) { in.Title = " " }},
		{"missing description", func(in *CreateListingInput) { in.Description = "" }},
		{"missing location", func(in *CreateListingInput) { in.Location = "" }},
		{"unknown category", func(in *CreateListingInput) { in.Category = "Weapons" }},
		{"unknown condition", func(in *CreateListingInput) { in.Condition = "Broken" }},
		{"unknown trade preference", func(in *CreateListingInput) { in.TradePreference = "Lease" }},
		{"negative price", func(in *CreateListingInput) { in.Price = decimal.NewFromInt(-1) }},
		{"price beyond column range", func(in *CreateListingInput) { in.Price = MaxAmount.Add(decimal.NewFromInt(1)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid()
			tt.mutate(&input)
			_, err := env.listings.Create(owner.ID, input)
			assert.True(t, IsKind(err, KindValidation), "got %v", err)
		})
	}

	_, err := env.listings.Create(0, valid())
	assert.True(t, IsKind(err, KindUnauthenticated))
}

func TestGetAllHidesUnverified(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "seller", "")

	pending := env.createListing(t, owner.ID, "Pending Phone", 100)
	approved := env.approvedListing(t, owner.ID, "Approved Phone", 200)
	rejected := env.createListing(t, owner.ID, "Rejected Phone", 300)
	_, err := env.admin.VerifyListing(rejected.ID, moderator, ActionReject, "blurry")
	require.NoError(t, err)

	visible, err := env.listings.GetAll(ListingFilter{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, approved.ID, visible[0].ID)
	for _, l := range visible {
		assert.True(t, l.IsVerified)
	}

	all, err := env.listings.GetAll(ListingFilter{ShowAll: true})
	require.NoError(t, err)
	ids := []uint{}
	for _, l := range all {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []uint{pending.ID, approved.ID, rejected.ID}, ids)
}

func TestGetAllFilters(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "seller", "")

	phone := env.approvedListing(t, owner.ID, "Phone", 100)

	book, err := env.listings.Create(owner.ID, CreateListingInput{
		Title:       "Novel",
		Description: "Paperback",
		Category:    models.CategoryBooks,
		Condition:   models.ConditionNew,
		Location:    "Khulna",
		Price:       decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	_, err = env.admin.VerifyListing(book.ID, moderator, ActionApprove, "")
	require.NoError(t, err)

	byCategory, err := env.listings.GetAll(ListingFilter{Category: models.CategoryBooks})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, book.ID, byCategory[0].ID)

	byLocation, err := env.listings.GetAll(ListingFilter{Location: "Dhaka"})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, phone.ID, byLocation[0].ID)
	require.NotNil(t, byLocation[0].Owner)
	assert.Equal(t, "seller", byLocation[0].Owner.Username)

	combined, err := env.listings.GetAll(ListingFilter{Condition: models.ConditionNew, Location: "Dhaka"})
	require.NoError(t, err)
	assert.Empty(t, combined)
}

func TestGetByIDAndStatusNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.listings.GetByID(42)
	assert.True(t, IsKind(err, KindNotFound))

	_, err = env.listings.GetStatus(42)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestGetStatusProjection(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "seller", "")
	listing := env.createListing(t, owner.ID, "Lamp", 50)

	status, err := env.listings.GetStatus(listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", status.Title)
	assert.Equal(t, models.VerificationPending, status.VerificationStatus)
	assert.Nil(t, status.VerifiedAt)
}
