package store

import (
	"time"

	"github.com/sadopc/otis/internal/kv"
	"go.uber.org/zap"
)

// Durable keys of the entity collections.
const (
	KeyInstallations = "otis_installations"
	KeyInteractions  = "otis_interactions"
	KeyFeedback      = "otis_feedbacks"
)

// Store groups the record stores of every entity type. It is the only
// component allowed to write entity data.
type Store struct {
	installations *Collection[Installation]
	interactions  *Collection[Interaction]
	feedback      *Collection[Feedback]

	now    func() time.Time
	logger *zap.Logger
}

type StoreOption func(*Store)

// WithClock overrides the time source used for generated identifiers and
// dates.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func New(storage kv.Storage, logger *zap.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		installations: NewCollection(storage, KeyInstallations, DefaultInstallations, logger),
		interactions:  NewCollection(storage, KeyInteractions, DefaultInteractions, logger),
		feedback:      NewCollection(storage, KeyFeedback, DefaultFeedback, logger),
		now:           time.Now,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed writes the default dataset of every collection whose key is absent.
func (s *Store) Seed() error {
	if _, err := s.installations.Seed(); err != nil {
		return err
	}
	if _, err := s.interactions.Seed(); err != nil {
		return err
	}
	if _, err := s.feedback.Seed(); err != nil {
		return err
	}
	return nil
}
