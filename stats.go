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
	"sync"
)

// UsageStats holds a user's monotonically increasing counters.
type UsageStats struct {
	FilesProcessed       int64 `json:"files"`
	ConversionsPerformed int64 `json:"converts"`
	MessagesExchanged    int64 `json:"messages"`
}

// StatsStore persists usage counters keyed by user name.
type StatsStore interface {
	// Load returns the stored counters for user, or zero counters when none
	// are stored.
	Load(ctx context.Context, user string) (UsageStats, error)
	Save(ctx context.Context, user string, stats UsageStats) error
}

// MemoryStore keeps counters in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	stats map[string]UsageStats
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{stats: make(map[string]UsageStats)}
}

func (s *MemoryStore) Load(_ context.Context, user string) (UsageStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats[user], nil
}

func (s *MemoryStore) Save(_ context.Context, user string, stats UsageStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[user] = stats
	return nil
}
