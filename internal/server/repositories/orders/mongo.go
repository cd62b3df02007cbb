package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/mongox"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "orders"

type itemDocument struct {
	ProductID string               `bson:"product_id"`
	Name      string               `bson:"name"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
}

type orderDocument struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty"`
	User            string                 `bson:"user"`
	UserEmail       string                 `bson:"user_email"`
	UserName        string                 `bson:"user_name"`
	Items           []itemDocument         `bson:"items"`
	Total           primitive.Decimal128   `bson:"total"`
	ShippingAddress models.ShippingAddress `bson:"shipping_address"`
	PaymentMethod   string                 `bson:"payment_method"`
	Status          string                 `bson:"status"`
	PaymentStatus   string                 `bson:"payment_status"`
	CreatedAt       time.Time              `bson:"created_at"`
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{collection: collection}
}

var _ Repository = (*MongoRepository)(nil)

func (r *MongoRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	doc, err := fromModel(order)
	if err != nil {
		return nil, err
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid.Hex()
	}
	return order, nil
}

func (r *MongoRepository) ListByOwnerEmail(ctx context.Context, email string) ([]*models.Order, error) {
	return r.find(ctx, bson.M{"user_email": email})
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]*models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]*models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	out := make([]*models.Order, 0, len(docs))
	for i := range docs {
		o, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func fromModel(o *models.Order) (*orderDocument, error) {
	total, err := mongox.ToDecimal128(o.Total)
	if err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}

	items := make([]itemDocument, 0, len(o.Items))
	for _, it := range o.Items {
		price, err := mongox.ToDecimal128(it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("item %s price: %w", it.ProductID, err)
		}
		items = append(items, itemDocument{ProductID: it.ProductID, Name: it.ProductName, Price: price, Quantity: it.Quantity})
	}

	return &orderDocument{
		User:            o.OwnerUserID,
		UserEmail:       o.OwnerEmail,
		UserName:        o.OwnerDisplayName,
		Items:           items,
		Total:           total,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		CreatedAt:       o.CreatedAt,
	}, nil
}

func (d *orderDocument) toModel() (*models.Order, error) {
	total, err := mongox.FromDecimal128(d.Total)
	if err != nil {
		return nil, fmt.Errorf("order %s total: %w", d.ID.Hex(), err)
	}

	items := make([]models.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		price, err := mongox.FromDecimal128(it.Price)
		if err != nil {
			return nil, fmt.Errorf("order %s item price: %w", d.ID.Hex(), err)
		}
		items = append(items, models.OrderItem{ProductID: it.ProductID, ProductName: it.Name, UnitPrice: price, Quantity: it.Quantity})
	}

	return &models.Order{
		ID:               d.ID.Hex(),
		OwnerUserID:      d.User,
		OwnerEmail:       d.UserEmail,
		OwnerDisplayName: d.UserName,
		Items:            items,
		Total:            total,
		ShippingAddress:  d.ShippingAddress,
		PaymentMethod:    d.PaymentMethod,
		Status:           models.OrderStatus(d.Status),
		PaymentStatus:    models.PaymentStatus(d.PaymentStatus),
		CreatedAt:        d.CreatedAt,
	}, nil
}
