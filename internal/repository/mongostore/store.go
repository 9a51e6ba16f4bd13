// Package mongostore stores storefront documents in MongoDB, one collection per kind.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
	pkgconfig "github.com/cloud-wave-best-zizon/storefront-service/pkg/config"
)

const (
	productsCollection  = "products"
	cartsCollection     = "carts"
	checkoutsCollection = "checkouts"
	ordersCollection    = "orders"
	usersCollection     = "users"
)

func Connect(ctx context.Context, cfg *pkgconfig.Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	return client, nil
}

// New wires every repository onto db and creates the indexes they rely on.
func New(ctx context.Context, client *mongo.Client, database string) (repository.Repositories, error) {
	db := client.Database(database)
	if err := ensureIndexes(ctx, db); err != nil {
		return repository.Repositories{}, err
	}
	return repository.Repositories{
		Products:  NewProductRepository(db.Collection(productsCollection)),
		Carts:     NewCartRepository(db.Collection(cartsCollection)),
		Checkouts: NewCheckoutRepository(db.Collection(checkoutsCollection)),
		Orders:    NewOrderRepository(db.Collection(ordersCollection)),
		Users:     NewUserRepository(db.Collection(usersCollection)),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		Close: client.Disconnect,
	}, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		cartsCollection: {{
			Keys:    bson.D{{Key: "owner_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		ordersCollection: {{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}},
		}},
		productsCollection: {{
			Keys: bson.D{{Key: "category", Value: 1}, {Key: "gender", Value: 1}},
		}},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

// docs wraps a collection with the id-keyed operations every repository shares.
type docs[T any] struct {
	coll *mongo.Collection
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func (d docs[T]) insert(ctx context.Context, doc *T) error {
	if _, err := d.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert into %s: %w", d.coll.Name(), err)
	}
	return nil
}

func (d docs[T]) findOne(ctx context.Context, filter bson.D) (*T, error) {
	var doc T
	if err := d.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find in %s: %w", d.coll.Name(), err)
	}
	return &doc, nil
}

func (d docs[T]) replace(ctx context.Context, id string, doc *T) error {
	res, err := d.coll.ReplaceOne(ctx, byID(id), doc)
	if err != nil {
		return fmt.Errorf("failed to replace in %s: %w", d.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (d docs[T]) deleteOne(ctx context.Context, filter bson.D) error {
	res, err := d.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", d.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (d docs[T]) find(ctx context.Context, filter bson.D, opts ...*options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.D{}
	}
	cur, err := d.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", d.coll.Name(), err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", d.coll.Name(), err)
	}
	return out, nil
}
