package orders

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func dec128(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()
	d, err := primitive.ParseDecimal128(s)
	require.NoError(t, err)
	return d
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns object id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoRepository(mt.Coll)

		o, err := repo.Create(context.Background(), &models.Order{
			OwnerUserID: "u1",
			OwnerEmail:  "a@example.com",
			Items: []models.OrderItem{
				{ProductID: "p1", ProductName: "Mug", UnitPrice: decimal.RequireFromString("100"), Quantity: 2},
			},
			Total:         decimal.RequireFromString("200"),
			PaymentMethod: models.DefaultPaymentMethod,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			CreatedAt:     time.Now().UTC(),
		})
		require.NoError(mt, err)
		assert.Len(mt, o.ID, 24)
	})

	mt.Run("create error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))
		repo := NewMongoRepository(mt.Coll)

		_, err := repo.Create(context.Background(), &models.Order{OwnerEmail: "a@example.com"})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "mongo error")
	})

	mt.Run("list by owner decodes documents", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.orders", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "user", Value: "u1"},
			{Key: "user_email", Value: "a@example.com"},
			{Key: "user_name", Value: "Alice"},
			{Key: "items", Value: bson.A{
				bson.D{
					{Key: "product_id", Value: "p1"},
					{Key: "name", Value: "Mug"},
					{Key: "price", Value: dec128(t, "100")},
					{Key: "quantity", Value: 2},
				},
			}},
			{Key: "total", Value: dec128(t, "200")},
			{Key: "shipping_address", Value: bson.D{
				{Key: "full_name", Value: "Alice"},
				{Key: "city", Value: "Riga"},
			}},
			{Key: "payment_method", Value: "cod"},
			{Key: "status", Value: "pending"},
			{Key: "payment_status", Value: "pending"},
			{Key: "created_at", Value: created},
		}))
		repo := NewMongoRepository(mt.Coll)

		list, err := repo.ListByOwnerEmail(context.Background(), "a@example.com")
		require.NoError(mt, err)
		require.Len(mt, list, 1)

		o := list[0]
		assert.Equal(mt, oid.Hex(), o.ID)
		assert.Equal(mt, "Alice", o.OwnerDisplayName)
		assert.True(mt, decimal.RequireFromString("200").Equal(o.Total))
		require.Len(mt, o.Items, 1)
		assert.True(mt, decimal.RequireFromString("100").Equal(o.Items[0].UnitPrice))
		assert.Equal(mt, "Riga", o.ShippingAddress.City)
		assert.Equal(mt, models.OrderStatusPending, o.Status)
		assert.True(mt, created.Equal(o.CreatedAt))
	})

	mt.Run("list all error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "boom", Name: "BadValue"}))
		repo := NewMongoRepository(mt.Coll)

		_, err := repo.ListAll(context.Background())
		require.Error(mt, err)
	})
}
