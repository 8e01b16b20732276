package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "chat-api"
)

// Config holds the connection settings for the chat database.
type Config struct {
	URI      string
	Database string
	// Timeout bounds connecting, the initial ping and index creation.
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// Store is an open chat database with its repositories.
type Store struct {
	Client   *mongo.Client
	DB       *mongo.Database
	Accounts *AccountRepository
	Messages *MessageRepository
	timeout  time.Duration
}

// Open connects, pings and builds the repositories on top of the database.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.timeout()
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return newStore(client, client.Database(cfg.Database), timeout), nil
}

func newStore(client *mongo.Client, db *mongo.Database, timeout time.Duration) *Store {
	return &Store{
		Client:   client,
		DB:       db,
		Accounts: NewAccountRepository(db),
		Messages: NewMessageRepository(db),
		timeout:  timeout,
	}
}

// EnsureIndexes creates the unique email index and the thread index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.Accounts.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure %s indexes: %w", collectionAccounts, err)
	}
	if err := s.Messages.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure %s indexes: %w", collectionMessages, err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
