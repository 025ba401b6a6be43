// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package fileconv

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection settings for the stats store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore keeps each user's counters in one Redis hash.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "fileconv:stats:"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

const (
	fieldFiles    = "files"
	fieldConverts = "converts"
	fieldMessages = "messages"
)

func (s *RedisStore) Load(ctx context.Context, user string) (UsageStats, error) {
	values, err := s.client.HGetAll(ctx, s.prefix+user).Result()
	if err != nil {
		return UsageStats{}, fmt.Errorf("redis hgetall: %w", err)
	}
	var stats UsageStats
	for field, dst := range map[string]*int64{
		fieldFiles:    &stats.FilesProcessed,
		fieldConverts: &stats.ConversionsPerformed,
		fieldMessages: &stats.MessagesExchanged,
	} {
		raw, ok := values[field]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return UsageStats{}, fmt.Errorf("stats field %s: %w", field, err)
		}
		*dst = n
	}
	return stats, nil
}

func (s *RedisStore) Save(ctx context.Context, user string, stats UsageStats) error {
	err := s.client.HSet(ctx, s.prefix+user,
		fieldFiles, stats.FilesProcessed,
		fieldConverts, stats.ConversionsPerformed,
		fieldMessages, stats.MessagesExchanged,
	).Err()
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
