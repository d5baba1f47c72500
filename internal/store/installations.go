package store

import (
	"fmt"

	"go.uber.org/zap"
)

func (s *Store) ListInstallations() ([]Installation, error) {
	return s.installations.Load()
}

func (s *Store) GetInstallation(id string) (*Installation, error) {
	items, err := s.installations.Load()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("get installation %s: %w", id, ErrNotFound)
}

// CreateInstallation assigns the next INST-### identifier and appends the
// installation. Blank status and start date default to pending / today.
func (s *Store) CreateInstallation(in Installation) (*Installation, error) {
	items, err := s.installations.Load()
	if err != nil {
		return nil, err
	}
	in.ID = NextInstallationID(items)
	if in.Status == "" {
		in.Status = StatusPending
	}
	if in.StartDate.IsZero() {
		in.StartDate = DateOf(s.now())
	}
	if err := Validate(in); err != nil {
		return nil, fmt.Errorf("create installation: %w", err)
	}
	if err := s.installations.Mutate(append(items, in)); err != nil {
		return nil, fmt.Errorf("create installation: %w", err)
	}
	s.logger.Info("installation created", zap.String("id", in.ID))
	return &in, nil
}
