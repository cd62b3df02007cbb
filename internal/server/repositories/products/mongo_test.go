package products

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func productDoc(t *testing.T, oid primitive.ObjectID, name, price string) bson.D {
	t.Helper()
	p, err := primitive.ParseDecimal128(price)
	require.NoError(t, err)
	return bson.D{
		{Key: "_id", Value: oid},
		{Key: "name", Value: name},
		{Key: "price", Value: p},
		{Key: "category", Value: "home"},
		{Key: "image", Value: models.DefaultProductImage},
		{Key: "stock", Value: 3},
		{Key: "is_active", Value: true},
	}
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns object id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoRepository(mt.Coll)

		p, err := repo.Create(context.Background(), &models.Product{
			Name: "Mug", Price: decimal.RequireFromString("9.99"), Category: "home", IsActive: true,
		})
		require.NoError(mt, err)
		assert.Len(mt, p.ID, 24)
		assert.False(mt, p.CreatedAt.IsZero())
	})

	mt.Run("list decodes decimal prices", func(mt *mtest.T) {
		oid1, oid2 := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.products", mtest.FirstBatch,
			productDoc(t, oid1, "Mug", "19.99"),
			productDoc(t, oid2, "Lamp", "100"),
		))
		repo := NewMongoRepository(mt.Coll)

		list, err := repo.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		assert.Equal(mt, oid1.Hex(), list[0].ID)
		assert.True(mt, decimal.RequireFromString("19.99").Equal(list[0].Price))
		assert.Equal(mt, "Lamp", list[1].Name)
		assert.Equal(mt, 3, list[1].Stock)
	})

	mt.Run("list error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 1, Message: "boom", Name: "InternalError"}))
		repo := NewMongoRepository(mt.Coll)

		_, err := repo.List(context.Background())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "mongo error")
	})

	mt.Run("get found", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.products", mtest.FirstBatch, productDoc(t, oid, "Mug", "5.50")))
		repo := NewMongoRepository(mt.Coll)

		p, err := repo.Get(context.Background(), oid.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, "Mug", p.Name)
		assert.True(mt, p.Priced())
	})

	mt.Run("get missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.products", mtest.FirstBatch))
		repo := NewMongoRepository(mt.Coll)

		_, err := repo.Get(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("get invalid id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)

		_, err := repo.Get(context.Background(), "42")
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewMongoRepository(mt.Coll)

		require.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID().Hex()))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := NewMongoRepository(mt.Coll)

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.products", mtest.FirstBatch, bson.D{{Key: "n", Value: int64(3)}}))
		repo := NewMongoRepository(mt.Coll)

		n, err := repo.Count(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})
}
