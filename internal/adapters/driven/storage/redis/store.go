// Package redis provides a Redis-backed implementation of driven.DraftStore,
// letting several inspectors' terminals share drafts through one server.
//
// Each draft is a hash under <prefix><key> with the fields data and savedAt.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
)

const (
	fieldData    = "data"
	fieldSavedAt = "savedAt"

	// scanCount is the SCAN page size hint.
	scanCount = 200
)

// Config holds connection parameters.
type Config struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces draft keys, for example "drafts/".
	Prefix string
}

// Store implements driven.DraftStore on Redis hashes.
type Store struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

var _ driven.DraftStore = (*Store)(nil)

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: redis address required", domain.ErrStorageUnavailable)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return NewWithClient(client, cfg.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix, now: time.Now}
}

// Save stores or replaces the draft under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	err := s.client.HSet(ctx, s.prefix+key,
		fieldData, data,
		fieldSavedAt, s.now().UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: saving draft: %v", domain.ErrStorage, err)
	}
	return nil
}

// Load returns the draft under key, or nil when none is stored.
func (s *Store) Load(ctx context.Context, key string) (*domain.Draft, error) {
	vals, err := s.client.HGetAll(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: loading draft: %v", domain.ErrStorage, err)
	}
	data, ok := vals[fieldData]
	if !ok {
		return nil, nil
	}
	d := &domain.Draft{Key: key, Data: []byte(data)}
	if t, err := time.Parse(time.RFC3339Nano, vals[fieldSavedAt]); err == nil {
		d.SavedAt = t
	}
	return d, nil
}

// Clear removes the draft under key.
func (s *Store) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: clearing draft: %v", domain.ErrStorage, err)
	}
	return nil
}

// List returns the stored keys with the given prefix in lexical order.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	pattern := escapeGlob(s.prefix+prefix) + "*"
	seen := make(map[string]bool)
	var keys []string
	var cursor uint64
	for {
		page, next, err := s.client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: listing drafts: %v", domain.ErrStorage, err)
		}
		for _, k := range page {
			k = strings.TrimPrefix(k, s.prefix)
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// escapeGlob quotes the characters SCAN MATCH treats as wildcards.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
