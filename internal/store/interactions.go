package store

import (
	"fmt"

	"go.uber.org/zap"
)

func (s *Store) ListInteractions() ([]Interaction, error) {
	return s.interactions.Load()
}

func (s *Store) GetInteraction(id int) (*Interaction, error) {
	items, err := s.interactions.Load()
	if err != nil {
		return nil, err
	}
	if i := indexOfInteraction(items, id); i >= 0 {
		return &items[i], nil
	}
	return nil, fmt.Errorf("get interaction %d: %w", id, ErrNotFound)
}

func (s *Store) CreateInteraction(in Interaction) (*Interaction, error) {
	items, err := s.interactions.Load()
	if err != nil {
		return nil, err
	}
	in.ID = NextNumericID(items, func(it Interaction) int { return it.ID })
	if in.Status == "" {
		in.Status = InteractionPending
	}
	if in.Type == "" {
		in.Type = InteractionMeeting
	}
	if err := Validate(in); err != nil {
		return nil, fmt.Errorf("create interaction: %w", err)
	}
	if err := s.interactions.Mutate(append(items, in)); err != nil {
		return nil, fmt.Errorf("create interaction: %w", err)
	}
	s.logger.Info("interaction created", zap.Int("id", in.ID))
	return &in, nil
}

// UpdateInteraction replaces the fields of interaction id in place. The
// identifier and position in the list are preserved.
func (s *Store) UpdateInteraction(id int, in Interaction) (*Interaction, error) {
	items, err := s.interactions.Load()
	if err != nil {
		return nil, err
	}
	i := indexOfInteraction(items, id)
	if i < 0 {
		return nil, fmt.Errorf("update interaction %d: %w", id, ErrNotFound)
	}
	in.ID = id
	if err := Validate(in); err != nil {
		return nil, fmt.Errorf("update interaction %d: %w", id, err)
	}
	items[i] = in
	if err := s.interactions.Mutate(items); err != nil {
		return nil, fmt.Errorf("update interaction %d: %w", id, err)
	}
	return &in, nil
}

func (s *Store) DeleteInteraction(id int) error {
	items, err := s.interactions.Load()
	if err != nil {
		return err
	}
	i := indexOfInteraction(items, id)
	if i < 0 {
		return fmt.Errorf("delete interaction %d: %w", id, ErrNotFound)
	}
	items = append(items[:i], items[i+1:]...)
	if err := s.interactions.Mutate(items); err != nil {
		return fmt.Errorf("delete interaction %d: %w", id, err)
	}
	s.logger.Info("interaction deleted", zap.Int("id", id))
	return nil
}

func indexOfInteraction(items []Interaction, id int) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
