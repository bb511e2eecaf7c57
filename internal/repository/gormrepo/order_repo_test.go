package gormrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"liquor-delivery/internal/domain"
	"liquor-delivery/internal/infra/database"
	"liquor-delivery/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, id string, price int64) *domain.Product {
	t.Helper()
	p := &domain.Product{ID: id, Name: "Product " + id, Slug: "product-" + id, Price: decimal.NewFromInt(price), InStock: true, Quantity: 10}
	require.NoError(t, db.Create(p).Error)
	return p
}

func newOrder(number, phone string, createdAt time.Time, items ...domain.OrderItem) *domain.Order {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return &domain.Order{
		OrderNumber:     number,
		CustomerName:    "Jane",
		CustomerPhone:   phone,
		CustomerAddress: "Westlands",
		TotalAmount:     total,
		PaymentMethod:   domain.PaymentManual,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentPending,
		Items:           items,
		CreatedAt:       createdAt,
	}
}

func item(productID string, qty int, price int64) domain.OrderItem {
	return domain.OrderItem{ProductID: productID, Quantity: qty, Price: decimal.NewFromInt(price)}
}

func TestOrderRepo_CreateHydratesItems(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "P1", 1200)
	seedProduct(t, db, "P2", 300)
	repo := NewOrderRepository(db, zap.NewNop())

	order := newOrder("ORD-1", "0700", time.Now(), item("P2", 1, 300), item("P1", 2, 1200))
	require.NoError(t, repo.Create(context.Background(), order))

	assert.NotEmpty(t, order.ID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "P2", order.Items[0].ProductID, "items keep submission order")
	assert.Equal(t, "P1", order.Items[1].ProductID)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
	require.NotNil(t, order.Items[1].Product)
	assert.Equal(t, "Product P1", order.Items[1].Product.Name)
	assert.True(t, decimal.NewFromInt(2700).Equal(order.TotalAmount))
}

func TestOrderRepo_CreateIsAtomic(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "P1", 100)
	repo := NewOrderRepository(db, zap.NewNop())

	first := item("P1", 1, 100)
	first.ID = "dup-item"
	second := item("P1", 2, 100)
	second.ID = "dup-item"

	err := repo.Create(context.Background(), newOrder("ORD-ATOMIC", "0700", time.Now(), first, second))
	require.Error(t, err)

	var orders, items int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&domain.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestOrderRepo_CreateSurvivesReloadFailure(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "P1", 1200)
	repo := NewOrderRepository(db, zap.NewNop())

	failReads := true
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:fail_order_reads", func(tx *gorm.DB) {
		if failReads && tx.Statement.Schema != nil && tx.Statement.Schema.Table == "orders" {
			_ = tx.AddError(errors.New("connection reset"))
		}
	}))

	order := newOrder("ORD-RELOAD", "0700", time.Now(), item("P1", 1, 1200))
	require.NoError(t, repo.Create(context.Background(), order), "a committed order must not be reported as failed")
	assert.NotEmpty(t, order.ID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, order.ID, order.Items[0].OrderID)

	failReads = false
	stored, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "ORD-RELOAD", stored.OrderNumber)
}

func TestOrderRepo_PriceSnapshotSurvivesRepricing(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "P1", 1200)
	repo := NewOrderRepository(db, zap.NewNop())
	ctx := context.Background()

	order := newOrder("ORD-SNAP", "0700", time.Now(), item("P1", 2, 1200))
	order.TotalAmount = decimal.NewFromInt(2600)
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", "P1").Update("price", decimal.NewFromInt(9999)).Error)

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.True(t, decimal.NewFromInt(2600).Equal(reloaded.TotalAmount))
	assert.True(t, decimal.NewFromInt(1200).Equal(reloaded.Items[0].Price))
	assert.True(t, decimal.NewFromInt(9999).Equal(reloaded.Items[0].Product.Price))
}

func TestOrderRepo_DeletedProductKeepsHistory(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "P1", 500)
	repo := NewOrderRepository(db, zap.NewNop())
	ctx := context.Background()

	order := newOrder("ORD-GONE", "0700", time.Now(), item("P1", 1, 500))
	require.NoError(t, repo.Create(ctx, order))
	require.NoError(t, db.Delete(&domain.Product{}, "id = ?", "P1").Error)

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Nil(t, reloaded.Items[0].Product)
	assert.True(t, decimal.NewFromInt(500).Equal(reloaded.Items[0].Price))
}

func TestOrderRepo_FindMany(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "P1", 100)
	repo := NewOrderRepository(db, zap.NewNop())
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newOrder("ORD-A", "0711", base, item("P1", 1, 100))))
	require.NoError(t, repo.Create(ctx, newOrder("ORD-B", "0711", base.Add(time.Hour), item("P1", 1, 100))))
	require.NoError(t, repo.Create(ctx, newOrder("ORD-C", "0722", base.Add(2*time.Hour), item("P1", 1, 100))))

	tests := []struct {
		name     string
		filter   repository.OrderFilter
		expected []string
	}{
		{name: "by phone newest first", filter: repository.OrderFilter{CustomerPhone: "0711"}, expected: []string{"ORD-B", "ORD-A"}},
		{name: "by order number", filter: repository.OrderFilter{OrderNumber: "ORD-C"}, expected: []string{"ORD-C"}},
		{name: "both must match", filter: repository.OrderFilter{OrderNumber: "ORD-C", CustomerPhone: "0711"}, expected: []string{}},
		{name: "unknown number", filter: repository.OrderFilter{OrderNumber: "ORD-Z"}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := repo.FindMany(ctx, tt.filter)
			require.NoError(t, err)

			got := []string{}
			for _, o := range orders {
				got = append(got, o.OrderNumber)
				assert.Len(t, o.Items, 1)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestOrderRepo_Update(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "P1", 100)
	repo := NewOrderRepository(db, zap.NewNop())
	ctx := context.Background()

	order := newOrder("ORD-UPD", "0700", time.Now(), item("P1", 3, 100))
	require.NoError(t, repo.Create(ctx, order))

	paid := domain.PaymentPaid
	receipt := "QA12 XYZ"
	updated, err := repo.Update(ctx, order.ID, repository.OrderUpdate{PaymentStatus: &paid, MpesaReceiptNo: &receipt})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, domain.PaymentPaid, updated.PaymentStatus)
	require.NotNil(t, updated.MpesaReceiptNo)
	assert.Equal(t, "QA12 XYZ", *updated.MpesaReceiptNo)
	assert.Equal(t, domain.StatusPending, updated.Status)
	assert.True(t, decimal.NewFromInt(300).Equal(updated.TotalAmount))

	confirmed := domain.StatusConfirmed
	for i := 0; i < 2; i++ {
		again, err := repo.Update(ctx, order.ID, repository.OrderUpdate{Status: &confirmed})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, again.Status)
		assert.Equal(t, domain.PaymentPaid, again.PaymentStatus)
	}

	unchanged, err := repo.Update(ctx, order.ID, repository.OrderUpdate{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, unchanged.Status)

	missing, err := repo.Update(ctx, "no-such-order", repository.OrderUpdate{Status: &confirmed})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepo_StatsAndRecent(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "P1", 100)
	repo := NewOrderRepository(db, zap.NewNop())
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, qty := range []int{1, 2, 5} {
		o := newOrder("ORD-S"+string(rune('A'+i)), "0700", base.Add(time.Duration(i)*time.Minute), item("P1", qty, 100))
		require.NoError(t, repo.Create(ctx, o))
		if qty > 1 {
			paid := domain.PaymentPaid
			delivered := domain.StatusDelivered
			_, err := repo.Update(ctx, o.ID, repository.OrderUpdate{PaymentStatus: &paid, Status: &delivered})
			require.NoError(t, err)
		}
	}

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.True(t, decimal.NewFromInt(700).Equal(stats.TotalRevenue), "revenue %s", stats.TotalRevenue)

	recent, err := repo.FindRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "ORD-SC", recent[0].OrderNumber)

	all, err := repo.FindRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
