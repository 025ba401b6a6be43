package fileconv

import (
	"sync"

	"github.com/google/uuid"
)

// DisplayRef is a revocable preview handle for image bytes held by a session.
type DisplayRef struct {
	url      string
	registry *displayRegistry

	mu       sync.Mutex
	released bool
}

// URL returns the handle's locator. It stays readable after release.
func (d *DisplayRef) URL() string {
	return d.url
}

// Released reports whether Release has been called.
func (d *DisplayRef) Released() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

// Release revokes the handle. Calling it more than once is a no-op.
func (d *DisplayRef) Release() {
	d.mu.Lock()
	if d.released {
		d.mu.Unlock()
		return
	}
	d.released = true
	d.mu.Unlock()
	if d.registry != nil {
		d.registry.forget(d.url)
	}
}

// displayRegistry tracks the live handles minted for one session.
type displayRegistry struct {
	mu   sync.Mutex
	live map[string]*DisplayRef
}

func newDisplayRegistry() *displayRegistry {
	return &displayRegistry{live: make(map[string]*DisplayRef)}
}

// Acquire mints a new live handle.
func (r *displayRegistry) Acquire() *DisplayRef {
	ref := &DisplayRef{
		url:      "blob:fileconv/" + uuid.NewString(),
		registry: r,
	}
	r.mu.Lock()
	r.live[ref.url] = ref
	r.mu.Unlock()
	return ref
}

func (r *displayRegistry) forget(url string) {
	r.mu.Lock()
	delete(r.live, url)
	r.mu.Unlock()
}

// releaseAll revokes every live handle and returns how many were released.
func (r *displayRegistry) releaseAll() int {
	r.mu.Lock()
	refs := make([]*DisplayRef, 0, len(r.live))
	for _, ref := range r.live {
		refs = append(refs, ref)
	}
	r.mu.Unlock()
	for _, ref := range refs {
		ref.Release()
	}
	return len(refs)
}

func (r *displayRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}
