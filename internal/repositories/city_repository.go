package repositories

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/anonto42/eventmatch/backend/internal/metrics"
	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
)

// CityCollection is the MongoDB collection holding world cities.
const CityCollection = "worldcities"

// CityRepository defines the interface for world city lookups
type CityRepository interface {
	Search(ctx context.Context, name string, plan pagination.Plan) (pagination.Page[models.City], error)
}

// MongoCityRepository implements CityRepository for MongoDB
type MongoCityRepository struct {
	collection *mongo.Collection
}

// NewMongoCityRepository creates a new MongoCityRepository
func NewMongoCityRepository(db *mongo.Database) *MongoCityRepository {
	return &MongoCityRepository{collection: db.Collection(CityCollection)}
}

// Search lists cities whose name contains name, ignoring case, ordered by
// name then id. The cursor is the id of the last city seen.
func (r *MongoCityRepository) Search(ctx context.Context, name string, plan pagination.Plan) (pagination.Page[models.City], error) {
	start := time.Now()
	filter := cityFilter(name)

	var anchor *models.City
	if plan.HasCursor() {
		var c models.City
		err := r.collection.FindOne(ctx, bson.M{"id": plan.Cursor}).Decode(&c)
		switch {
		case err == nil:
			anchor = &c
		case !errors.Is(err, mongo.ErrNoDocuments):
			return pagination.Page[models.City]{}, err
		}
	}

	var (
		total  int64
		cities []models.City
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.collection.CountDocuments(gctx, filter)
		total = n
		return err
	})
	g.Go(func() error {
		opts := options.Find().
			SetSort(bson.D{{Key: "city", Value: 1}, {Key: "id", Value: 1}}).
			SetLimit(int64(plan.Take))
		cur, err := r.collection.Find(gctx, anchoredFilter(filter, anchor), opts)
		if err != nil {
			return err
		}
		return cur.All(gctx, &cities)
	})
	err := g.Wait()

	metrics.ListingQueryDuration.WithLabelValues("world_cities").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ListingQueriesTotal.WithLabelValues("world_cities", "error").Inc()
		return pagination.Page[models.City]{}, err
	}
	metrics.ListingQueriesTotal.WithLabelValues("world_cities", "ok").Inc()
	return pagination.CollectAnchored(plan, cities, total, func(c models.City) uint { return c.ID }), nil
}

// cityFilter matches city names containing name, ignoring case.
func cityFilter(name string) bson.M {
	if name == "" {
		return bson.M{}
	}
	return bson.M{"city": bson.M{"$regex": regexp.QuoteMeta(name), "$options": "i"}}
}

// anchoredFilter restricts filter to the anchor city and the ones after it
// in (city, id) order.
func anchoredFilter(filter bson.M, anchor *models.City) bson.M {
	if anchor == nil {
		return filter
	}
	after := bson.M{"$or": bson.A{
		bson.M{"city": bson.M{"$gt": anchor.City}},
		bson.M{"city": anchor.City, "id": bson.M{"$gte": anchor.ID}},
	}}
	if len(filter) == 0 {
		return after
	}
	return bson.M{"$and": bson.A{filter, after}}
}
