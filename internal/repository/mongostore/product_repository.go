package mongostore

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/catalog"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

type ProductRepository struct {
	docs docs[domain.Product]
}

func NewProductRepository(coll *mongo.Collection) *ProductRepository {
	return &ProductRepository{docs: docs[domain.Product]{coll: coll}}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return r.docs.insert(ctx, p)
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	return r.docs.findOne(ctx, byID(id))
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	return r.docs.replace(ctx, p.ID, p)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.docs.deleteOne(ctx, byID(id))
}

func (r *ProductRepository) Find(ctx context.Context, q catalog.Query) ([]domain.Product, error) {
	opts := options.Find()
	if s := sortDocument(q.Sort); s != nil {
		opts.SetSort(s)
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return r.docs.find(ctx, filterDocument(q.Filter), opts)
}

func filterDocument(f catalog.Filter) bson.D {
	doc := bson.D{}
	eq := func(key, v string) {
		if v != "" {
			doc = append(doc, bson.E{Key: key, Value: v})
		}
	}
	in := func(key string, vs []string) {
		if len(vs) > 0 {
			doc = append(doc, bson.E{Key: key, Value: bson.D{{Key: "$in", Value: vs}}})
		}
	}

	eq("collections", f.Collection)
	eq("category", f.Category)
	in("brand", f.Brands)
	in("sizes", f.Sizes)
	in("colors", f.Colors)
	eq("gender", f.Gender)
	eq("material", f.Material)

	if f.MinPrice != nil || f.MaxPrice != nil {
		rng := bson.D{}
		if f.MinPrice != nil {
			rng = append(rng, bson.E{Key: "$gte", Value: *f.MinPrice})
		}
		if f.MaxPrice != nil {
			rng = append(rng, bson.E{Key: "$lte", Value: *f.MaxPrice})
		}
		doc = append(doc, bson.E{Key: "price", Value: rng})
	}

	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		doc = append(doc, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: re}},
			bson.D{{Key: "description", Value: re}},
		}})
	}
	if f.ExcludeID != "" {
		doc = append(doc, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: f.ExcludeID}}})
	}
	return doc
}

// sortDocument returns nil for natural order.
func sortDocument(key catalog.SortKey) bson.D {
	switch key {
	case catalog.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case catalog.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case catalog.SortPopularity:
		return bson.D{{Key: "rating", Value: -1}}
	case catalog.SortNewest:
		return bson.D{{Key: "created_at", Value: -1}}
	}
	return nil
}
