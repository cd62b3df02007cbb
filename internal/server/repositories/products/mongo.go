package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/mongox"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "products"

type productDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Price       primitive.Decimal128 `bson:"price"`
	Category    string               `bson:"category"`
	Image       string               `bson:"image"`
	Description string               `bson:"description,omitempty"`
	Stock       int                  `bson:"stock"`
	IsActive    bool                 `bson:"is_active"`
	CreatedAt   time.Time            `bson:"created_at"`
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{collection: collection}
}

var _ Repository = (*MongoRepository)(nil)

func (r *MongoRepository) List(ctx context.Context) ([]*models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	out := make([]*models.Product, 0, len(docs))
	for i := range docs {
		p, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrorNotFound
	}

	var doc productDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	return doc.toModel()
}

func (r *MongoRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	doc, err := fromModel(product)
	if err != nil {
		return nil, err
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid.Hex()
	}
	product.CreatedAt = doc.CreatedAt
	return product, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrorNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("mongo error: %w", err)
	}
	return n, nil
}

func fromModel(p *models.Product) (*productDocument, error) {
	price, err := mongox.ToDecimal128(p.Price)
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}

	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	return &productDocument{
		Name:        p.Name,
		Price:       price,
		Category:    p.Category,
		Image:       p.Image,
		Description: p.Description,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedAt:   created,
	}, nil
}

func (d *productDocument) toModel() (*models.Product, error) {
	price, err := mongox.FromDecimal128(d.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s price: %w", d.ID.Hex(), err)
	}

	return &models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Price:       price,
		Category:    d.Category,
		Image:       d.Image,
		Description: d.Description,
		Stock:       d.Stock,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
	}, nil
}
