// Package redisstore keeps the task document under a single Redis key.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"todo/internal/backend"
	"todo/internal/task"
)

// DefaultKey is used when no key is configured.
const DefaultKey = "todo:tasks"

// Backend stores the JSON task document as a Redis string.
type Backend struct {
	client *redis.Client
	key    string
	log    logrus.FieldLogger
}

// New wraps an existing client.
func New(client *redis.Client, key string, log logrus.FieldLogger) *Backend {
	if client == nil {
		panic("redisstore.New: client is nil")
	}
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Backend{
		client: client,
		key:    key,
		log:    log.WithFields(logrus.Fields{"backend": "redis", "key": key}),
	}
}

// Open parses a redis:// URL and connects.
func Open(ctx context.Context, url, key string, log logrus.FieldLogger) (*Backend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return New(client, key, log), nil
}

// Load implements backend.Backend.
func (b *Backend) Load(ctx context.Context) ([]task.Task, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, backend.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", b.key, err)
	}

	tasks, err := backend.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	b.log.WithField("count", len(tasks)).Debug("loaded tasks")
	return tasks, nil
}

// Save implements backend.Backend. SET replaces the value atomically.
func (b *Backend) Save(ctx context.Context, tasks []task.Task) error {
	data, err := backend.EncodeJSON(tasks)
	if err != nil {
		return err
	}
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", b.key, err)
	}
	b.log.WithField("count", len(tasks)).Debug("saved tasks")
	return nil
}

// Close closes the client.
func (b *Backend) Close() error {
	return b.client.Close()
}
