// Package cache keeps built growth series so repeated renders of an unchanged
// booklet skip the series builder.
//
// Entries are keyed by child, measurement type and a version hash of the
// child's visit log and the builder options. Editing a visit or changing an
// option changes the version, so stale entries are never served; a store keeps
// only the newest version per child and type.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/spektr-org/growthkit/engine"
)

// Key identifies one cached series.
type Key struct {
	ChildID string
	Type    engine.MeasurementType
	Version string
}

func (k Key) String() string {
	return k.ChildID + "/" + string(k.Type) + "@" + k.Version
}

// KeyFor computes the cache key of a child's series built with opts. The
// version covers the options, the birth date and, in order, every visit's
// date and mt text.
func KeyFor(child engine.Child, mt engine.MeasurementType, opts ...engine.Option) Key {
	return keyFor(child, mt, engine.Fingerprint(opts...))
}

func keyFor(child engine.Child, mt engine.MeasurementType, fingerprint string) Key {
	d := xxhash.New()
	_, _ = d.WriteString(fingerprint)
	_, _ = d.WriteString("\x1d")
	_, _ = d.WriteString(child.BirthDate)
	for _, v := range child.Visits {
		_, _ = d.WriteString("\x1e")
		_, _ = d.WriteString(v.Date)
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(v.Field(mt))
	}
	return Key{
		ChildID: child.ID,
		Type:    mt,
		Version: strconv.FormatUint(d.Sum64(), 16),
	}
}

// Store persists serialized series.
type Store interface {
	// Get returns the payload stored under key. A different version stored
	// for the same child and type is a miss.
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	// Put stores payload under key, replacing any other version.
	Put(ctx context.Context, key Key, payload []byte) error
	// Delete drops every version for a child and type.
	Delete(ctx context.Context, childID string, mt engine.MeasurementType) error
	Close() error
}

// ============================================================================
// MEMORY STORE
// ============================================================================

type slot struct {
	childID string
	mt      engine.MeasurementType
}

type memoryEntry struct {
	version string
	payload []byte
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[slot]memoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[slot]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key Key) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[slot{key.ChildID, key.Type}]
	if !ok || e.version != key.Version {
		return nil, false, nil
	}
	return append([]byte(nil), e.payload...), true, nil
}

func (s *MemoryStore) Put(_ context.Context, key Key, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("cache payload is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[slot{key.ChildID, key.Type}] = memoryEntry{
		version: key.Version,
		payload: append([]byte(nil), payload...),
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, childID string, mt engine.MeasurementType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, slot{childID, mt})
	return nil
}

// Len reports the number of cached series.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Close() error { return nil }

// ============================================================================
// BUILDER — read-through series cache
// ============================================================================

// Builder serves series from a Store, building and storing them on a miss.
// Builders with different options may share a store; their keys differ.
type Builder struct {
	store       Store
	opts        []engine.Option
	fingerprint string
	hits        atomic.Int64
	misses      atomic.Int64
}

// NewBuilder wraps store. opts are passed to engine.BuildSeries on a miss.
func NewBuilder(store Store, opts ...engine.Option) *Builder {
	return &Builder{store: store, opts: opts, fingerprint: engine.Fingerprint(opts...)}
}

// Series returns the child's series for mt. Store failures are returned;
// an undecodable cached payload is rebuilt.
func (b *Builder) Series(ctx context.Context, child engine.Child, mt engine.MeasurementType) (engine.GrowthSeries, error) {
	key := keyFor(child, mt, b.fingerprint)

	payload, ok, err := b.store.Get(ctx, key)
	if err != nil {
		return engine.GrowthSeries{}, fmt.Errorf("cache get %s: %w", key, err)
	}
	if ok {
		var series engine.GrowthSeries
		if err := json.Unmarshal(payload, &series); err == nil {
			b.hits.Add(1)
			return series, nil
		}
		log.Printf("⚠️ cache: dropping unreadable entry %s", key)
	}

	b.misses.Add(1)
	series := engine.BuildSeries(child, mt, b.opts...)
	payload, err = json.Marshal(series)
	if err != nil {
		return engine.GrowthSeries{}, fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := b.store.Put(ctx, key, payload); err != nil {
		return engine.GrowthSeries{}, fmt.Errorf("cache put %s: %w", key, err)
	}
	return series, nil
}

// Invalidate drops the cached series of a child for mt.
func (b *Builder) Invalidate(ctx context.Context, child engine.Child, mt engine.MeasurementType) error {
	if err := b.store.Delete(ctx, child.ID, mt); err != nil {
		return fmt.Errorf("cache delete %s/%s: %w", child.ID, mt, err)
	}
	return nil
}

// Stats reports cache hits and misses since the builder was created.
func (b *Builder) Stats() (hits, misses int64) {
	return b.hits.Load(), b.misses.Load()
}

var _ Store = (*MemoryStore)(nil)
