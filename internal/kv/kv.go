// Package kv provides the durable key-value region the rest of the
// application persists into. A region is shared by every tab (process or
// handle) attached to it; writes made through one tab are announced to the
// subscribers of every other tab.
package kv

// Storage is the get/set capability handed to stores at construction.
type Storage interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	// Clear removes every key in the region.
	Clear() error
	Keys() ([]string, error)
}

// Event describes a change made to the region by another tab.
type Event struct {
	Key      string
	OldValue string
	NewValue string
	Removed  bool
}

// Notifier delivers change events written by other tabs. The writing tab
// never observes its own writes.
type Notifier interface {
	Subscribe(fn func(Event)) (unsubscribe func())
}

// Region is a Storage that also reports foreign changes.
type Region interface {
	Storage
	Notifier
}

var (
	_ Region = (*Tab)(nil)
	_ Region = (*SQLite)(nil)
)
