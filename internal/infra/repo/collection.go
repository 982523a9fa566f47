// Package repo implements the entity repositories. Each repository owns one
// JSON array in the store and is the only writer for it. Every operation is
// a full read-modify-write of the array; a per-collection mutex serializes
// overlapping writers.
package repo

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/digital-guild/guild/internal/domain"
	"github.com/digital-guild/guild/internal/infra/store"
)

// DeletePolicy controls how Delete treats a missing identifier. The policy
// is fixed per repository at construction.
type DeletePolicy int

const (
	// DeleteStrict fails with domain.ErrNotFound when the id is absent.
	DeleteStrict DeletePolicy = iota
	// DeleteIdempotent treats delete-of-missing as silent success.
	DeleteIdempotent
)

// Collection is a generic repository over one JSON array in the store.
// ID assignment (max existing + 1) and timestamp stamping are system-owned;
// callers never set them.
type Collection[T any] struct {
	store  *store.Store
	key    string
	policy DeletePolicy

	id      func(*T) int64
	setID   func(*T, int64)
	created func(*T, time.Time)
	updated func(*T, time.Time)

	mu sync.Mutex
}

// Hooks binds a record type's system-managed fields for the collection.
// Created and Updated may be nil for entities without that timestamp.
type Hooks[T any] struct {
	ID      func(*T) int64
	SetID   func(*T, int64)
	Created func(*T, time.Time)
	Updated func(*T, time.Time)
}

// NewCollection creates a repository for records stored under key.
func NewCollection[T any](s *store.Store, key string, policy DeletePolicy, h Hooks[T]) *Collection[T] {
	return &Collection[T]{
		store:   s,
		key:     key,
		policy:  policy,
		id:      h.ID,
		setID:   h.SetID,
		created: h.Created,
		updated: h.Updated,
	}
}

// Key returns the storage key this repository owns.
func (c *Collection[T]) Key() string { return c.key }

func (c *Collection[T]) load() ([]T, error) {
	raw, ok, err := c.store.GetCollection(c.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	if !ok {
		return nil, nil
	}
	var recs []T
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.key, err)
	}
	return recs, nil
}

func (c *Collection[T]) save(recs []T) error {
	if recs == nil {
		recs = []T{}
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.PutCollection(c.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}

// List returns all records. An absent collection is an empty list.
func (c *Collection[T]) List() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// GetByID returns the record with the given identifier.
func (c *Collection[T]) GetByID(id int64) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	recs, err := c.load()
	if err != nil {
		return zero, err
	}
	for i := range recs {
		if c.id(&recs[i]) == id {
			return recs[i], nil
		}
	}
	return zero, fmt.Errorf("%s id %d: %w", c.key, id, domain.ErrNotFound)
}

// Create assigns the next identifier, stamps timestamps, appends the record
// and persists the collection. The stored record is returned.
func (c *Collection[T]) Create(rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	recs, err := c.load()
	if err != nil {
		return zero, err
	}

	var maxID int64
	for i := range recs {
		if v := c.id(&recs[i]); v > maxID {
			maxID = v
		}
	}

	now := time.Now().UTC()
	c.setID(&rec, maxID+1)
	if c.created != nil {
		c.created(&rec, now)
	}
	if c.updated != nil {
		c.updated(&rec, now)
	}

	recs = append(recs, rec)
	if err := c.save(recs); err != nil {
		return zero, err
	}
	return rec, nil
}

// Apply looks up the record, runs mutate against it, re-stamps the update
// timestamp and persists. Mutate must not touch system-managed fields;
// repositories expose typed update commands on top of this.
func (c *Collection[T]) Apply(id int64, mutate func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	recs, err := c.load()
	if err != nil {
		return zero, err
	}
	for i := range recs {
		if c.id(&recs[i]) != id {
			continue
		}
		if err := mutate(&recs[i]); err != nil {
			return zero, err
		}
		if c.updated != nil {
			c.updated(&recs[i], time.Now().UTC())
		}
		if err := c.save(recs); err != nil {
			return zero, err
		}
		return recs[i], nil
	}
	return zero, fmt.Errorf("%s id %d: %w", c.key, id, domain.ErrNotFound)
}

// Delete removes the record with the given identifier. Behavior on a
// missing id follows the repository's DeletePolicy.
func (c *Collection[T]) Delete(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.load()
	if err != nil {
		return err
	}
	for i := range recs {
		if c.id(&recs[i]) == id {
			recs = append(recs[:i], recs[i+1:]...)
			return c.save(recs)
		}
	}
	if c.policy == DeleteIdempotent {
		return nil
	}
	return fmt.Errorf("%s id %d: %w", c.key, id, domain.ErrNotFound)
}

// Select returns all records matching the predicate, in stored order.
func (c *Collection[T]) Select(match func(*T) bool) ([]T, error) {
	recs, err := c.List()
	if err != nil {
		return nil, err
	}
	var out []T
	for i := range recs {
		if match(&recs[i]) {
			out = append(out, recs[i])
		}
	}
	return out, nil
}
