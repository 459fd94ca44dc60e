package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ErrEmptyURI is returned when no connection string is configured.
var ErrEmptyURI = errors.New("mongo: connection URI is empty")

const defaultTimeout = 30 * time.Second

// Config describes a MongoDB deployment.
type Config struct {
	URI      string
	Database string
	AppName  string
	Timeout  time.Duration // per-operation timeout; 0 uses 30s
}

// Client wraps a driver client bound to one database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect validates cfg and creates a client. The driver dials lazily; call Ping to verify reachability.
func Connect(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, ErrEmptyURI
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	opts := options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	return &Client{client: client, db: client.Database(cfg.Database)}, nil
}

// Collection returns a handle to the named collection.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Ping checks that the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Disconnect closes all pooled connections.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
