package kv

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

type rowState struct {
	value   string
	deleted bool
	origin  string
}

type snapshot map[string]rowState

// Subscribe registers fn for changes committed by other tabs. The first
// subscriber starts a poller on PRAGMA data_version; the last unsubscribe
// stops it.
func (s *SQLite) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	if s.cancel == nil {
		if err := s.startWatcher(); err != nil {
			s.logger.Warn("kv watcher not started", zap.Error(err))
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			if len(s.subs) == 0 && s.cancel != nil {
				s.cancel()
				s.cancel = nil
			}
		})
	}
}

// startWatcher takes the baseline synchronously so that any commit after
// Subscribe returns is reported. Callers hold s.mu.
func (s *SQLite) startWatcher() error {
	version, err := s.dataVersion()
	if err != nil {
		return err
	}
	base, err := s.snapshot()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	go s.watch(ctx, done, version, base)
	return nil
}

func (s *SQLite) watch(ctx context.Context, done chan<- struct{}, version int64, snap snapshot) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		v, err := s.dataVersion()
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn("kv data_version poll failed", zap.Error(err))
			}
			continue
		}
		if v == version {
			continue
		}
		version = v

		next, err := s.snapshot()
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn("kv snapshot failed", zap.Error(err))
			}
			continue
		}
		events := diff(snap, next, s.origin)
		snap = next
		if len(events) > 0 {
			s.logger.Debug("kv foreign changes", zap.Int("events", len(events)))
			s.dispatch(ctx, events)
		}
	}
}

func (s *SQLite) dispatch(ctx context.Context, events []Event) {
	s.mu.Lock()
	targets := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		targets = append(targets, fn)
	}
	s.mu.Unlock()

	for _, ev := range events {
		if ctx.Err() != nil {
			return
		}
		for _, fn := range targets {
			fn(ev)
		}
	}
}

func (s *SQLite) dataVersion() (int64, error) {
	var v int64
	err := s.db.QueryRow("PRAGMA data_version").Scan(&v)
	return v, err
}

func (s *SQLite) snapshot() (snapshot, error) {
	rows, err := s.db.Query(`SELECT key, value, deleted, origin FROM kv_entries`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap := make(snapshot)
	for rows.Next() {
		var key string
		var st rowState
		var deleted int
		if err := rows.Scan(&key, &st.value, &deleted, &st.origin); err != nil {
			return nil, err
		}
		st.deleted = deleted == 1
		snap[key] = st
	}
	return snap, rows.Err()
}

// diff returns the changes between two snapshots that were not written by
// self, ordered by key.
func diff(old, next snapshot, self string) []Event {
	var events []Event
	for key, n := range next {
		if n.origin == self {
			continue
		}
		o, had := old[key]
		live := had && !o.deleted
		switch {
		case n.deleted && live:
			events = append(events, Event{Key: key, OldValue: o.value, Removed: true})
		case n.deleted:
		case !live:
			events = append(events, Event{Key: key, NewValue: n.value})
		case o.value != n.value:
			events = append(events, Event{Key: key, OldValue: o.value, NewValue: n.value})
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Key < events[j].Key })
	return events
}
