package repomanager

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/mongox"
	"go.mongodb.org/mongo-driver/mongo"
)

// openMongo is a seam so tests can avoid dialing.
var openMongo = func(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	return mongox.Connect(ctx, uri, database)
}
