package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"elderguard/internal/config"
	"elderguard/pkg/logger"
)

// UsersCollection holds user profiles
const UsersCollection = "users"

// MongoDB wraps the Mongo client and the application database
type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
	logger *logger.Logger
}

// NewMongo connects to MongoDB and verifies the connection
func NewMongo(ctx context.Context, cfg config.MongoConfig, log *logger.Logger) (*MongoDB, error) {
	log = log.WithComponent("mongo")
	log.Info().Str("database", cfg.Database).Msg("connecting to MongoDB")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(timeout)

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info().Msg("connected to MongoDB successfully")

	return &MongoDB{
		client: client,
		db:     client.Database(cfg.Database),
		logger: log,
	}, nil
}

// Database returns the application database
func (m *MongoDB) Database() *mongo.Database {
	return m.db
}

// Ping checks the connection
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// Close disconnects the client
func (m *MongoDB) Close(ctx context.Context) error {
	m.logger.Info().Msg("closing MongoDB connection")
	return m.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique email index on users
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_users_email").SetUnique(true),
	}
	if _, err := m.db.Collection(UsersCollection).Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	return nil
}
