package database

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"pedlop-auth/internal/config"
)

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func New(ctx context.Context, cfg *config.Config) (*DB, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(cfg.MongoConnectTimeout).
		SetMaxPoolSize(cfg.MongoMaxPoolSize).
		SetMinPoolSize(cfg.MongoMinPoolSize).
		SetRetryWrites(true).
		SetRetryReads(true))
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	slog.Info("database connected", "database", cfg.MongoDatabase,
		"max_pool", cfg.MongoMaxPoolSize, "min_pool", cfg.MongoMinPoolSize)

	return &DB{Client: client, Database: client.Database(cfg.MongoDatabase)}, nil
}

// EnsureIndexes creates the unique indexes that back the directory's
// uniqueness guarantees. The write path relies on these, not on a
// check-then-insert, so they must exist before the server accepts traffic.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	users := db.Database.Collection("auth_users")

	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_1"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_1"),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	return nil
}

func (db *DB) Close(ctx context.Context) {
	if db.Client != nil {
		_ = db.Client.Disconnect(ctx)
	}
}

func (db *DB) Health(ctx context.Context) error {
	return db.Client.Ping(ctx, nil)
}
