package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sadopc/otis/internal/kv"
	"go.uber.org/zap"
)

// Collection owns the in-memory list of one entity type and its durable
// key. The durable value is the source of truth across reloads; the list
// held here is a cache that is rewritten in full on every mutation.
type Collection[T any] struct {
	storage  kv.Storage
	key      string
	defaults func() []T
	logger   *zap.Logger

	mu     sync.Mutex
	items  []T
	loaded bool
}

// NewCollection binds a collection to key. defaults produces the bundled
// dataset written on first use.
func NewCollection[T any](storage kv.Storage, key string, defaults func() []T, logger *zap.Logger) *Collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults == nil {
		defaults = func() []T { return nil }
	}
	return &Collection[T]{
		storage:  storage,
		key:      key,
		defaults: defaults,
		logger:   logger.With(zap.String("collection", key)),
	}
}

func (c *Collection[T]) Key() string { return c.key }

// Seed writes the default dataset when the key is absent. Existing data is
// left untouched.
func (c *Collection[T]) Seed() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok, err := c.storage.Get(c.key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", c.key, err)
	}
	if ok {
		return false, nil
	}
	items := c.defaults()
	if err := c.write(items); err != nil {
		return false, err
	}
	c.items = items
	c.loaded = true
	c.logger.Debug("seeded defaults", zap.Int("count", len(items)))
	return true, nil
}

// Load reads the durable list, seeding it on first use. Data that cannot be
// decoded or fails validation is replaced by the defaults in memory only;
// the durable value is kept until the next Mutate.
func (c *Collection[T]) Load() ([]T, error) {
	c.mu.Lock()
	raw, ok, err := c.storage.Get(c.key)
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("read %s: %w", c.key, err)
	}
	if !ok {
		c.mu.Unlock()
		if _, err := c.Seed(); err != nil {
			return nil, err
		}
		return c.Items(), nil
	}
	defer c.mu.Unlock()

	items, err := decode[T](raw)
	if err != nil {
		c.logger.Warn("durable data unreadable, using defaults", zap.Error(err))
		items = c.defaults()
	}
	c.items = items
	c.loaded = true
	return clone(items), nil
}

// Mutate replaces the whole list and writes it back synchronously.
func (c *Collection[T]) Mutate(items []T) error {
	for i := range items {
		if err := Validate(items[i]); err != nil {
			return fmt.Errorf("%s[%d]: %w", c.key, i, err)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	items = clone(items)
	if err := c.write(items); err != nil {
		return err
	}
	c.items = items
	c.loaded = true
	return nil
}

// Items returns a copy of the cached list, loading it if needed.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	if c.loaded {
		defer c.mu.Unlock()
		return clone(c.items)
	}
	c.mu.Unlock()
	items, err := c.Load()
	if err != nil {
		c.logger.Warn("load failed", zap.Error(err))
		return nil
	}
	return items
}

func (c *Collection[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.storage.Set(c.key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

func decode[T any](raw string) ([]T, error) {
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	for i := range items {
		if err := Validate(items[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
