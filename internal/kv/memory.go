package kv

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-memdb"
)

const entriesTable = "entries"

type entry struct {
	Key   string
	Value string
}

func memorySchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			entriesTable: {
				Name: entriesTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}
}

type subscription struct {
	tab int
	fn  func(Event)
}

// Memory is an in-process region. Tabs opened with Tab share its data.
type Memory struct {
	db *memdb.MemDB

	mu      sync.Mutex
	subs    map[int]subscription
	nextSub int
	nextTab int
}

// NewMemory creates an empty region.
func NewMemory() *Memory {
	db, err := memdb.NewMemDB(memorySchema())
	if err != nil {
		// The schema is static; failing here is a programming error.
		panic(fmt.Sprintf("kv: memory schema: %v", err))
	}
	return &Memory{db: db, subs: make(map[int]subscription)}
}

// Tab attaches a new tab to the region.
func (m *Memory) Tab() *Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTab++
	return &Tab{m: m, id: m.nextTab}
}

func (m *Memory) get(key string) (string, bool, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(entriesTable, "id", key)
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	if raw == nil {
		return "", false, nil
	}
	return raw.(*entry).Value, true, nil
}

func (m *Memory) set(tab int, key, value string) error {
	txn := m.db.Txn(true)
	raw, err := txn.First(entriesTable, "id", key)
	if err != nil {
		txn.Abort()
		return fmt.Errorf("set %q: %w", key, err)
	}
	if err := txn.Insert(entriesTable, &entry{Key: key, Value: value}); err != nil {
		txn.Abort()
		return fmt.Errorf("set %q: %w", key, err)
	}
	txn.Commit()

	ev := Event{Key: key, NewValue: value}
	if raw != nil {
		ev.OldValue = raw.(*entry).Value
		if ev.OldValue == value {
			return nil
		}
	}
	m.notify(tab, []Event{ev})
	return nil
}

func (m *Memory) remove(tab int, key string) error {
	txn := m.db.Txn(true)
	raw, err := txn.First(entriesTable, "id", key)
	if err != nil {
		txn.Abort()
		return fmt.Errorf("remove %q: %w", key, err)
	}
	if raw == nil {
		txn.Abort()
		return nil
	}
	if err := txn.Delete(entriesTable, raw); err != nil {
		txn.Abort()
		return fmt.Errorf("remove %q: %w", key, err)
	}
	txn.Commit()
	m.notify(tab, []Event{{Key: key, OldValue: raw.(*entry).Value, Removed: true}})
	return nil
}

func (m *Memory) clear(tab int) error {
	txn := m.db.Txn(true)
	it, err := txn.Get(entriesTable, "id")
	if err != nil {
		txn.Abort()
		return fmt.Errorf("clear: %w", err)
	}
	var events []Event
	for obj := it.Next(); obj != nil; obj = it.Next() {
		e := obj.(*entry)
		events = append(events, Event{Key: e.Key, OldValue: e.Value, Removed: true})
	}
	if _, err := txn.DeleteAll(entriesTable, "id"); err != nil {
		txn.Abort()
		return fmt.Errorf("clear: %w", err)
	}
	txn.Commit()
	m.notify(tab, events)
	return nil
}

func (m *Memory) keys() ([]string, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(entriesTable, "id")
	if err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}
	var keys []string
	for obj := it.Next(); obj != nil; obj = it.Next() {
		keys = append(keys, obj.(*entry).Key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) subscribe(tab int, fn func(Event)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = subscription{tab: tab, fn: fn}
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// notify delivers events to subscribers of every tab except the writer.
func (m *Memory) notify(writer int, events []Event) {
	if len(events) == 0 {
		return
	}
	m.mu.Lock()
	var targets []func(Event)
	for _, s := range m.subs {
		if s.tab != writer {
			targets = append(targets, s.fn)
		}
	}
	m.mu.Unlock()

	for _, ev := range events {
		for _, fn := range targets {
			fn(ev)
		}
	}
}

// Tab is one view onto a Memory region.
type Tab struct {
	m  *Memory
	id int
}

func (t *Tab) Get(key string) (string, bool, error) { return t.m.get(key) }
func (t *Tab) Set(key, value string) error         { return t.m.set(t.id, key, value) }
func (t *Tab) Remove(key string) error             { return t.m.remove(t.id, key) }
func (t *Tab) Clear() error                        { return t.m.clear(t.id) }
func (t *Tab) Keys() ([]string, error)             { return t.m.keys() }

func (t *Tab) Subscribe(fn func(Event)) func() { return t.m.subscribe(t.id, fn) }
