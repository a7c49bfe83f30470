package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"fluxtrade/internal/models"
	"fluxtrade/internal/payments"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, req payments.SessionRequest) (*payments.Session, error) {
	args := m.Called(ctx, req)
	if s, ok := args.Get(0).(*payments.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPriceLines(t *testing.T) {
	lines := []models.OrderItem{
		{ListingID: 1, Price: decimal.RequireFromString("250.25"), Quantity: 2},
		{ListingID: 2, Price: decimal.NewFromInt(99), Quantity: 1},
	}

	tests := []struct {
		name         string
		deliveryType models.DeliveryType
		firstOrder   bool
		fee          string
		discount     string
		final        string
		points       int64
	}{
		// subtotal 599.50
		{"local first order", models.DeliveryLocal, true, "100", "70", "629.5", 630},
		{"local repeat order", models.DeliveryLocal, false, "100", "0", "699.5", 700},
		{"shipping first order", models.DeliveryShipping, true, "500", "110", "989.5", 990},
		{"shipping repeat order", models.DeliveryShipping, false, "500", "0", "1099.5", 1100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := priceLines(lines, tt.deliveryType, tt.firstOrder)
			require.NoError(t, err)
			assert.Equal(t, "599.5", q.Subtotal.String())
			assert.Equal(t, tt.fee, q.DeliveryFee.String())
			assert.Equal(t, tt.discount, q.Discount.String())
			assert.Equal(t, tt.final, q.FinalAmount.String())
			assert.Equal(t, tt.points, q.PointsRequired)
		})
	}

	_, err := priceLines(lines, "drone", false)
	assert.True(t, IsKind(err, KindValidation))
	_, err = priceLines(nil, models.DeliveryLocal, false)
	assert.True(t, IsKind(err, KindValidation))
}

func TestQuoteUsesStoredPrices(t *testing.T) {
	env := newTestEnv(t)
	seller := env.register(t, "seller", "")
	buyer := env.register(t, "buyer", "")
	listing := env.approvedListing(t, seller.ID, "Kettle", 300)

	q, err := env.checkout.Quote(buyer.ID, QuoteInput{
		Items:        []CartItem{{ListingID: listing.ID, Quantity: 2}},
		DeliveryType: models.DeliveryShipping,
	})
	require.NoError(t, err)
	require.Len(t, q.Items, 1)
	assert.Equal(t, "Kettle", q.Items[0].Title)
	assert.Equal(t, "600", q.Subtotal.String())
	assert.True(t, q.FirstOrder)
	assert.Equal(t, "110", q.Discount.String())
	assert.Equal(t, int64(990), q.PointsRequired)
}

func TestQuoteRejectsBadCarts(t *testing.T) {
	env := newTestEnv(t)
	seller := env.register(t, "seller", "")
	buyer := env.register(t, "buyer", "")
	pending := env.createListing(t, seller.ID, "Pending", 10)
	approved := env.approvedListing(t, seller.ID, "Approved", 10)

	tests := []struct {
		name  string
		user  uint
		items []CartItem
		kind  ErrorKind
	}{
		{"unknown user", 9999, []CartItem{{ListingID: approved.ID, Quantity: 1}}, KindNotFound},
		{"empty cart", buyer.ID, nil, KindValidation},
		{"zero quantity", buyer.ID, []CartItem{{ListingID: approved.ID, Quantity: 0}}, KindValidation},
		{"oversized quantity", buyer.ID, []CartItem{{ListingID: approved.ID, Quantity: MaxQuantity + 1}}, KindValidation},
		{"unverified listing", buyer.ID, []CartItem{{ListingID: pending.ID, Quantity: 1}}, KindValidation},
		{"missing listing", buyer.ID, []CartItem{{ListingID: 9999, Quantity: 1}}, KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.checkout.Quote(tt.user, QuoteInput{Items: tt.items, DeliveryType: models.DeliveryLocal})
			assert.True(t, IsKind(err, tt.kind), "got %v", err)
		})
	}
}

func TestPayWithPoints(t *testing.T) {
	env := newTestEnv(t)
	seller := env.register(t, "seller", "")
	buyer := env.register(t, "buyer", "")
	listing := env.approvedListing(t, seller.ID, "Lamp", 200)
	cart := []CartItem{{ListingID: listing.ID, Quantity: 1}}

	// first order: 200 + 100 local = 300, less 30
	res, err := env.checkout.PayWithPoints(buyer.ID, PointsCheckoutInput{
		Amount:       270,
		Items:        cart,
		DeliveryType: models.DeliveryLocal,
	})
	require.NoError(t, err)

	order := res.Order
	assert.Equal(t, models.PaymentPoints, order.PaymentMethod)
	assert.Equal(t, "270", order.TotalAmount.String())
	assert.Equal(t, "30", order.Discount.String())
	assert.Equal(t, int64(270), order.PointsSpent)
	assert.NotEmpty(t, order.Reference)
	assert.Equal(t, int64(730), res.RemainingPoints)
	assert.Equal(t, int64(730), env.balance(t, buyer.ID))

	// second order has no discount; amount may be omitted
	res, err = env.checkout.PayWithPoints(buyer.ID, PointsCheckoutInput{Items: cart, DeliveryType: models.DeliveryLocal})
	require.NoError(t, err)
	assert.Equal(t, "300", res.Order.TotalAmount.String())
	assert.True(t, res.Order.Discount.IsZero())
	assert.Equal(t, int64(430), env.balance(t, buyer.ID))

	orders, err := env.checkout.ListOrders(buyer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Lamp", orders[0].Items[0].Title)

	got, err := env.checkout.GetOrder(buyer.ID, orders[1].ID)
	require.NoError(t, err)
	assert.Equal(t, orders[1].Reference, got.Reference)
	_, err = env.checkout.GetOrder(seller.ID, orders[1].ID)
	assert.True(t, IsKind(err, KindNotFound))

	profile, err := env.users.GetProfile(buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), profile.OrderCount)

	ledger, err := env.users.GetLedger(buyer.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 3)
	assert.Equal(t, models.LedgerCheckoutDebit, ledger[0].EventType)
	assert.Equal(t, int64(-300), ledger[0].Change)
	assert.Equal(t, int64(430), ledger[0].BalanceAfter)
}

func TestPayWithPointsInsufficient(t *testing.T) {
	env := newTestEnv(t)
	seller := env.register(t, "seller", "")
	buyer := env.register(t, "buyer", "")
	listing := env.approvedListing(t, seller.ID, "Sofa", 5000)

	_, err := env.checkout.PayWithPoints(buyer.ID, PointsCheckoutInput{
		Items:        []CartItem{{ListingID: listing.ID, Quantity: 1}},
		DeliveryType: models.DeliveryLocal,
	})
	assert.True(t, IsKind(err, KindInsufficientPoints), "got %v", err)
	assert.Equal(t, models.InitialPoints, env.balance(t, buyer.ID))

	orders, err := env.checkout.ListOrders(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPayWithPointsAmountMismatch(t *testing.T) {
	env := newTestEnv(t)
	seller := env.register(t, "seller", "")
	buyer := env.register(t, "buyer", "")
	listing := env.approvedListing(t, seller.ID, "Lamp", 200)

	_, err := env.checkout.PayWithPoints(buyer.ID, PointsCheckoutInput{
		Amount:       1,
		Items:        []CartItem{{ListingID: listing.ID, Quantity: 1}},
		DeliveryType: models.DeliveryLocal,
	})
	assert.True(t, IsKind(err, KindValidation), "got %v", err)
	assert.Equal(t, models.InitialPoints, env.balance(t, buyer.ID))
}

func TestPayWithPointsRollsBackOnOrderFailure(t *testing.T) {
	env := newTestEnv(t)
	seller := env.register(t, "seller", "")
	buyer := env.register(t, "buyer", "")
	listing := env.approvedListing(t, seller.ID, "Lamp", 200)

	require.NoError(t, env.db.Callback().Create().Before("gorm:create").Register("test:fail_orders", func(db *gorm.DB) {
		if db.Statement.Schema != nil && db.Statement.Schema.Table == "orders" {
			db.AddError(errors.New("disk full"))
		}
	}))

	_, err := env.checkout.PayWithPoints(buyer.ID, PointsCheckoutInput{
		Items:        []CartItem{{ListingID: listing.ID, Quantity: 1}},
		DeliveryType: models.DeliveryLocal,
	})
	require.Error(t, err)

	assert.Equal(t, models.InitialPoints, env.balance(t, buyer.ID))
	var debits int64
	env.db.Model(&models.PointsLedgerEntry{}).Where("event_type = ?", models.LedgerCheckoutDebit).Count(&debits)
	assert.Zero(t, debits)
}

func TestConcurrentPayWithPointsNeverOverdraw(t *testing.T) {
	env := newTestEnv(t)
	seller := env.register(t, "seller", "")
	buyer := env.register(t, "buyer", "")
	// 600 + 100 = 700, 630 after the first-order discount; two of these exceed 1000
	listing := env.approvedListing(t, seller.ID, "Bike", 600)

	const workers = 5
	var wg sync.WaitGroup
	var successes int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.checkout.PayWithPoints(buyer.ID, PointsCheckoutInput{
				Items:        []CartItem{{ListingID: listing.ID, Quantity: 1}},
				DeliveryType: models.DeliveryLocal,
			})
			if err == nil {
				atomic.AddInt32(&successes, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes)
	balance := env.balance(t, buyer.ID)
	assert.GreaterOrEqual(t, balance, int64(0))
	assert.Equal(t, int64(370), balance)
}

func TestPriceLinesRejectsTotalsBeyondStorage(t *testing.T) {
	tests := []struct {
		name string
		line models.OrderItem
	}{
		// would wrap past int64 when converted to points
		{"quantity overflow", models.OrderItem{ListingID: 1, Price: decimal.NewFromInt(4), Quantity: math.MaxInt}},
		{"just over column range", models.OrderItem{ListingID: 1, Price: MaxAmount, Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := priceLines([]models.OrderItem{tt.line}, models.DeliveryShipping, false)
			assert.Nil(t, q)
			assert.True(t, IsKind(err, KindValidation), "got %v", err)
		})
	}
}

func TestPayWithPointsRejectsOversizedQuantity(t *testing.T) {
	env := newTestEnv(t)
	seller := env.register(t, "seller", "")
	buyer := env.register(t, "buyer", "")
	listing := env.approvedListing(t, seller.ID, "Pen", 4)

	_, err := env.checkout.PayWithPoints(buyer.ID, PointsCheckoutInput{
		Items:        []CartItem{{ListingID: listing.ID, Quantity: math.MaxInt}},
		DeliveryType: models.DeliveryShipping,
	})
	assert.True(t, IsKind(err, KindValidation), "got %v", err)

	assert.Equal(t, models.InitialPoints, env.balance(t, buyer.ID))
	var orders int64
	env.db.Model(&models.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestConcurrentFirstOrdersDiscountOnce(t *testing.T) {
	env := newTestEnv(t)
	seller := env.register(t, "seller", "")
	buyer := env.register(t, "buyer", "")
	// 100 + 100 local = 200, 180 for the first order only
	listing := env.approvedListing(t, seller.ID, "Mug", 100)

	const workers = 3
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.checkout.PayWithPoints(buyer.ID, PointsCheckoutInput{
				Items:        []CartItem{{ListingID: listing.ID, Quantity: 1}},
				DeliveryType: models.DeliveryLocal,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	orders, err := env.checkout.ListOrders(buyer.ID)
	require.NoError(t, err)
	require.Len(t, orders, workers)

	discounted := 0
	for _, o := range orders {
		if !o.Discount.IsZero() {
			discounted++
		}
	}
	assert.Equal(t, 1, discounted)
	assert.Equal(t, int64(1000-180-200-200), env.balance(t, buyer.ID))
}

func TestCreateCheckoutSession(t *testing.T) {
	env := newTestEnv(t)
	gateway := new(mockGateway)
	checkout := NewCheckoutService(env.db, gateway)

	gateway.On("CreateCheckoutSession", mock.Anything, payments.SessionRequest{
		ProductName: "Camera",
		UnitAmount:  123457,
		Quantity:    1,
	}).Return(&payments.Session{ID: "cs_1", URL: "https://pay.test/cs_1"}, nil).Once()

	url, err := checkout.CreateCheckoutSession(context.Background(), "Camera", decimal.RequireFromString("1234.567"))
	require.NoError(t, err)
	assert.Equal(t, "https://pay.test/cs_1", url)
	gateway.AssertExpectations(t)
}

func TestCreateCheckoutSessionFailures(t *testing.T) {
	env := newTestEnv(t)
	gateway := new(mockGateway)
	checkout := NewCheckoutService(env.db, gateway)

	_, err := checkout.CreateCheckoutSession(context.Background(), "Camera", decimal.Zero)
	assert.True(t, IsKind(err, KindValidation))
	_, err = checkout.CreateCheckoutSession(context.Background(), "Camera", decimal.NewFromInt(-5))
	assert.True(t, IsKind(err, KindValidation))

	gateway.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req payments.SessionRequest) bool {
		return req.ProductName == defaultProductName
	})).Return(nil, errors.New("card_declined")).Once()

	_, err = checkout.CreateCheckoutSession(context.Background(), "", decimal.NewFromInt(10))
	assert.True(t, IsKind(err, KindUpstream), "got %v", err)
	gateway.AssertExpectations(t)

	_, err = env.checkout.CreateCheckoutSession(context.Background(), "Camera", decimal.NewFromInt(10))
	assert.True(t, IsKind(err, KindUpstream))
}
