package mongo

import (
	"context"
	"fmt"
	"time"

	"ordercore/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const DefaultConnectTimeout = 10 * time.Second

type Config struct {
	URI            string        `mapstructure:"uri" json:"uri"`
	Database       string        `mapstructure:"database" json:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" json:"connect_timeout"`
}

// Connect opens a client and pings the primary. Callers own Disconnect on the returned client.
func (c *Config) Connect(ctx context.Context) (*driver.Client, *driver.Database, error) {
	if c.URI == "" {
		return nil, nil, fmt.Errorf("mongo uri is required")
	}
	if c.Database == "" {
		return nil, nil, fmt.Errorf("mongo database is required")
	}
	timeout := c.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := driver.Connect(ctx, options.Client().ApplyURI(c.URI).SetConnectTimeout(timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("Mongo connected", zap.String("database", c.Database))
	return client, client.Database(c.Database), nil
}

// EnsureIndexes creates the natural-key unique indexes and the common filter indexes.
// Only the composition root calls it, and only in development.
func EnsureIndexes(ctx context.Context, db *driver.Database) error {
	indexes := map[string][]driver.IndexModel{
		OrdersCollection: {
			{Keys: bson.D{{Key: "orderId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "customer.userId", Value: 1}}},
			{Keys: bson.D{{Key: "currentState", Value: 1}}},
		},
		UsersCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}
