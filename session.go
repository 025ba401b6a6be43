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
	"sync/atomic"
	"time"
)

// DefaultSweepInterval is how often RunSweeper releases idle display handles.
const DefaultSweepInterval = time.Minute

// Upload is the content held by a session after a successful Submit.
type Upload struct {
	Descriptor *InputDescriptor
	Category   Category
	Content    ContentModel
	Analysis   *Analysis
	Targets    []string
}

// Session holds one user's current upload. At most one Submit or Convert runs
// at a time; a request arriving while another is in flight fails with ErrBusy
// instead of waiting.
type Session struct {
	engine   *Engine
	user     string
	displays *displayRegistry
	busy     atomic.Bool

	mu    sync.Mutex
	slot  *Upload
	stats UsageStats
}

// NewSession opens a session for user and loads the stored counters. A store
// that cannot be read is logged and the counters start at zero.
func (e *Engine) NewSession(ctx context.Context, user string) *Session {
	s := &Session{
		engine:   e,
		user:     user,
		displays: newDisplayRegistry(),
	}
	stats, err := e.store.Load(ctx, user)
	if err != nil {
		e.logger.Warn().Err(err).Str("user", user).Msg("usage stats could not be loaded")
	} else {
		s.stats = stats
	}
	return s
}

// Submit validates, extracts and analyzes an upload, then makes it the
// current one. A validation failure leaves the previous upload in place; an
// extraction failure clears it.
func (s *Session) Submit(ctx context.Context, data []byte, filename, mimeType string) (*Upload, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	var desc *InputDescriptor
	if filename != "" || data != nil {
		desc = DescribeUpload(filename, mimeType, data)
	}
	cat, err := s.engine.Validate(desc)
	if err != nil {
		return nil, err
	}
	s.bump(ctx, func(u *UsageStats) { u.FilesProcessed++ })

	content, err := s.engine.Extract(ctx, Source{
		Data:      data,
		Name:      filename,
		Extension: desc.DeclaredExtension,
		Category:  cat,
		Displays:  s.displays,
	})
	if err != nil {
		s.engine.logger.Warn().Err(err).Str("file", filename).Msg("extraction failed")
		s.replace(nil)
		return nil, err
	}

	up := &Upload{
		Descriptor: desc,
		Category:   cat,
		Content:    content,
		Analysis:   s.engine.Analyze(desc, content),
		Targets:    s.engine.ListTargets(desc.DeclaredExtension),
	}
	s.replace(up)
	return up, nil
}

// Current returns the current upload, or nil.
func (s *Session) Current() *Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot
}

// Convert converts the current upload to target.
func (s *Session) Convert(ctx context.Context, target string, opts ...ConvertOption) (*Artifact, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	up := s.Current()
	if up == nil {
		return nil, &ValidationError{Kind: KindNoFile, Detail: "no file has been loaded"}
	}
	art, err := s.engine.Convert(ctx, ConversionRequest{
		Content:         up.Content,
		SourceExtension: up.Descriptor.DeclaredExtension,
		Target:          target,
		BaseName:        BaseName(up.Descriptor.Name),
		SourceSize:      up.Descriptor.Size,
	}, opts...)
	if err != nil {
		return nil, err
	}
	s.bump(ctx, func(u *UsageStats) { u.ConversionsPerformed++ })
	return art, nil
}

// RecordMessage counts one chat message exchanged by the user.
func (s *Session) RecordMessage(ctx context.Context) {
	s.bump(ctx, func(u *UsageStats) { u.MessagesExchanged++ })
}

// Stats returns a snapshot of the user's counters.
func (s *Session) Stats() UsageStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Busy reports whether an operation is in flight.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Sweep releases every live display handle unless an operation is in flight,
// and returns how many were released. Image bytes stay available for
// conversion.
func (s *Session) Sweep() int {
	if s.busy.Load() {
		return 0
	}
	n := s.displays.releaseAll()
	if n > 0 {
		s.engine.logger.Debug().Int("released", n).Str("user", s.user).Msg("display handles swept")
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done. A non-positive
// interval means DefaultSweepInterval.
func (s *Session) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Close drops the current upload and releases all display handles.
func (s *Session) Close() {
	s.replace(nil)
	s.displays.releaseAll()
}

// replace swaps the current upload and releases the display handle of the one
// it replaces.
func (s *Session) replace(up *Upload) {
	s.mu.Lock()
	prev := s.slot
	s.slot = up
	s.mu.Unlock()

	if prev == nil {
		return
	}
	if img, ok := prev.Content.(*ImageRef); ok {
		img.Release()
		s.engine.logger.Debug().Str("file", img.Name).Msg("display handle released")
	}
}

// bump applies fn to the counters and persists them. A store failure is
// logged and does not fail the operation.
func (s *Session) bump(ctx context.Context, fn func(*UsageStats)) {
	s.mu.Lock()
	fn(&s.stats)
	snapshot := s.stats
	s.mu.Unlock()

	if err := s.engine.store.Save(ctx, s.user, snapshot); err != nil {
		s.engine.logger.Warn().Err(err).Str("user", s.user).Msg("usage stats could not be saved")
	}
}
