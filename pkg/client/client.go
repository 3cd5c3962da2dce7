package client

import (
	"context"
	"fmt"
	"time"

	"contactnorm/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Client struct {
	Mongo *mongo.Client
}

func NewClient() *Client {
	return &Client{}
}

// Connect dials and pings MongoDB.
func (c *Client) Connect(ctx context.Context, mongoURI string, mongoConnTimeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	c.Mongo = client
	return nil
}

// SetMongo is Connect for long-running services, where a missing database is
// fatal.
func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	if err := c.Connect(context.Background(), mongoURI, mongoConnTimeout); err != nil {
		log.Fatal("MongoDB unavailable", "error", err)
	}
	log.Info("Successfully connected to MongoDB")
}

func (c *Client) GracefulShutdown(log *logger.Logger) {
	if c.Mongo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Mongo.Disconnect(ctx); err != nil {
		log.Error("Failed to disconnect from MongoDB", "error", err)
		return
	}
	c.Mongo = nil
	log.Info("Disconnected from MongoDB")
}
