// Package store reads raw documents from the MongoDB backing store. It is
// strictly read-only: paginated listing and approximate counting, nothing
// else.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/mygymhq/adminboard/internal/explorer/collections"
	"github.com/mygymhq/adminboard/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
)

type CollectionCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type DashboardCounts struct {
	TotalActivities        int64 `json:"totalActivities"`
	TotalDailyStepsRecords int64 `json:"totalDailyStepsRecords"`
	TotalExercises         int64 `json:"totalExercises"`
	ActiveChallenges       int64 `json:"activeChallenges"`
	OpenCarts              int64 `json:"openCarts"`
	TotalConversations     int64 `json:"totalConversations"`
}

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{
		db: db,
	}
}

// List returns one page of documents, newest first (descending _id, i.e.
// descending creation time), together with the store's estimated total.
// The estimate and the page are fetched concurrently, so the total may be
// slightly stale relative to the docs.
func (s *Store) List(ctx context.Context, name string, page, limit int) (_ []bson.M, total int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("collection", name), attribute.Int("page", page))

	coll := s.db.Collection(name)
	skip := int64((page - 1) * limit)

	var (
		wg       sync.WaitGroup
		docs     []bson.M
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		findOpts := options.Find().
			SetSort(bson.D{{Key: "_id", Value: -1}}).
			SetSkip(skip).
			SetLimit(int64(limit))
		cursor, err := coll.Find(ctx, bson.M{}, findOpts)
		if err != nil {
			findErr = err
			return
		}
		findErr = cursor.All(ctx, &docs)
	}()
	go func() {
		defer wg.Done()
		total, countErr = coll.EstimatedDocumentCount(ctx)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, fmt.Errorf("find documents in %s: %w", name, findErr)
	}
	if countErr != nil {
		return nil, 0, fmt.Errorf("count documents in %s: %w", name, countErr)
	}

	if docs == nil {
		docs = []bson.M{}
	}
	return docs, total, nil
}

// Meta returns the estimated document count of every store collection.
func (s *Store) Meta(ctx context.Context) (_ []CollectionCount, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.meta")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	names, err := s.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	counts := make([]CollectionCount, 0, len(names))
	for _, name := range names {
		count, err := s.db.Collection(name).EstimatedDocumentCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("count collection %s: %w", name, err)
		}
		counts = append(counts, CollectionCount{Name: name, Count: count})
	}

	return counts, nil
}

// Dashboard returns the KPI card counts. A failing count degrades to zero
// instead of failing the whole dashboard.
func (s *Store) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.dashboard")
	defer span.End()

	return &DashboardCounts{
		TotalActivities:        s.countOrZero(ctx, collections.Activities),
		TotalDailyStepsRecords: s.countOrZero(ctx, collections.DailySteps),
		TotalExercises:         s.countOrZero(ctx, collections.Exercises),
		ActiveChallenges:       s.countOrZero(ctx, collections.Challenges),
		OpenCarts:              s.countOrZero(ctx, collections.Carts),
		TotalConversations:     s.countOrZero(ctx, collections.Conversations),
	}, nil
}

func (s *Store) countOrZero(ctx context.Context, name string) int64 {
	count, err := s.db.Collection(name).EstimatedDocumentCount(ctx)
	if err != nil {
		log.Errorf("dashboard count for %s: %s", name, err)
		return 0
	}
	return count
}
