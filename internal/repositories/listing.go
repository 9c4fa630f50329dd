package repositories

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/anonto42/eventmatch/backend/internal/metrics"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
	"github.com/anonto42/eventmatch/backend/internal/visibility"
)

// listing describes one paginated read: base builds the filtered query
// (fresh on every call), fetch decorates the page read with preloads.
type listing struct {
	name     string
	idColumn string
	base     func(ctx context.Context) *gorm.DB
	fetch    func(q *gorm.DB) *gorm.DB
}

// paginate applies the plan to q: newest first, restricted to the cursor.
func paginate(q *gorm.DB, plan pagination.Plan, idColumn string) *gorm.DB {
	if plan.HasCursor() {
		q = q.Where(idColumn+" <= ?", plan.Cursor)
	}
	return q.Order(idColumn + " DESC").Limit(plan.Take)
}

// readPage issues the count and the page read concurrently. They share no
// snapshot; a failure of either fails the listing.
func readPage[T any](ctx context.Context, l listing, plan pagination.Plan, idOf func(T) uint) (pagination.Page[T], error) {
	start := time.Now()
	var (
		total int64
		rows  []T
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return l.base(gctx).Count(&total).Error
	})
	g.Go(func() error {
		q := paginate(l.base(gctx), plan, l.idColumn)
		if l.fetch != nil {
			q = l.fetch(q)
		}
		return q.Find(&rows).Error
	})
	err := g.Wait()

	metrics.ListingQueryDuration.WithLabelValues(l.name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ListingQueriesTotal.WithLabelValues(l.name, "error").Inc()
		return pagination.Page[T]{}, err
	}
	metrics.ListingQueriesTotal.WithLabelValues(l.name, "ok").Inc()
	return pagination.Collect(plan, rows, total, idOf), nil
}

// where applies a compiled visibility predicate to q.
func where(q *gorm.DB, p visibility.Predicate, s scope) *gorm.DB {
	sql, vars, err := compile(p, s)
	if err != nil {
		_ = q.AddError(err)
		return q
	}
	if sql == "" {
		return q
	}
	return q.Where(sql, vars...)
}

// leadPhoto restricts a photo preload to the order 0 photo.
func leadPhoto(db *gorm.DB) *gorm.DB {
	return db.Where("sort_order = 0")
}

// orderedPhotos loads every photo in display order.
func orderedPhotos(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}
