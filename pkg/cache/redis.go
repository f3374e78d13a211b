package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis configuration
type Config struct {
	Host        string
	Port        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	MinIdleConn int
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConn,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// Close gracefully closes the Redis client
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// Publisher publishes JSON payloads on a pub/sub channel and keeps the
// latest status of each ride under a short-lived key.
type Publisher struct {
	client    *redis.Client
	channel   string
	statusTTL time.Duration
}

// NewPublisher creates a publisher bound to channel
func NewPublisher(client *redis.Client, channel string, statusTTL time.Duration) *Publisher {
	return &Publisher{
		client:    client,
		channel:   channel,
		statusTTL: statusTTL,
	}
}

// Channel returns the pub/sub channel name
func (p *Publisher) Channel() string {
	return p.channel
}

// Publish marshals payload and publishes it on the channel
func (p *Publisher) Publish(ctx context.Context, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}

// SetRideStatus stores the ride's current status
func (p *Publisher) SetRideStatus(ctx context.Context, rideID int, status string) error {
	return p.client.Set(ctx, RideStatusKey(rideID), status, p.statusTTL).Err()
}

// RideStatusKey is the key under which a ride's status is cached
func RideStatusKey(rideID int) string {
	return fmt.Sprintf("carpool:ride:%d:status", rideID)
}
