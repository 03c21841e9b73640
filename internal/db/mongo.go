package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type NewMongoParams struct {
	URI    string
	DBName string
}

func NewMongoDatabase(ctx context.Context, params NewMongoParams) (*mongo.Database, func(context.Context) error, error) {
	if params.URI == "" {
		return nil, nil, fmt.Errorf("mongo URI is empty")
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(params.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	return mongoClient.Database(params.DBName), mongoClient.Disconnect, nil
}
