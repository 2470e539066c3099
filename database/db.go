package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dogworld/backend/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

var (
	MongoClient *mongo.Client
	DB          *mongo.Database
)

// ConnectWithConfig connects to MongoDB using the provided URI and database name.
func ConnectWithConfig(mongoURL, dbName string) error {
	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURL)

	client, err := mongo.Connect(timeoutCtx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(timeoutCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	MongoClient = client
	DB = client.Database(dbName)
	logger.Log.Info("Connected to MongoDB", zap.String("database", dbName))
	return nil
}

// Ping reports whether the primary is reachable.
func Ping(ctx context.Context) error {
	if MongoClient == nil {
		return errors.New("mongo client not initialized")
	}
	return MongoClient.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB
func Close() error {
	if MongoClient == nil {
		return nil
	}
	disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer disconnectCancel()

	if err := MongoClient.Disconnect(disconnectCtx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}

	logger.Log.Info("Disconnected from MongoDB")
	return nil
}
