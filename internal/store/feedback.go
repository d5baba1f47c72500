package store

import (
	"fmt"
	"strings"
)

const (
	defaultFeedbackCountry     = "Brasil"
	defaultFeedbackResponsible = "Sistema"
)

func (s *Store) ListFeedback() ([]Feedback, error) {
	return s.feedback.Load()
}

func (s *Store) GetFeedback(id int64) (*Feedback, error) {
	items, err := s.feedback.Load()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("get feedback %d: %w", id, ErrNotFound)
}

// SubmitFeedback records a client's rating. Identifiers derive from the
// submission time in milliseconds; feedback is read-only afterwards.
func (s *Store) SubmitFeedback(sub FeedbackSubmission) (*Feedback, error) {
	items, err := s.feedback.Load()
	if err != nil {
		return nil, err
	}
	now := s.now()
	id := now.UnixMilli()
	// Two submissions within the same millisecond must not collide.
	if next := NextNumericID(items, func(f Feedback) int64 { return f.ID }); id < next {
		id = next
	}
	fb := Feedback{
		ID:          id,
		ClientName:  strings.TrimSpace(sub.ClientName),
		ClientID:    fmt.Sprintf("CLIENT-%d", id),
		Country:     defaultFeedbackCountry,
		ProjectName: strings.TrimSpace(sub.ProjectName),
		Rating:      sub.Rating,
		Comment:     sub.Comment,
		Status:      FeedbackPending,
		Date:        DateOf(now),
		Responsible: defaultFeedbackResponsible,
	}
	if err := Validate(fb); err != nil {
		return nil, fmt.Errorf("submit feedback: %w", err)
	}
	if err := s.feedback.Mutate(append(items, fb)); err != nil {
		return nil, fmt.Errorf("submit feedback: %w", err)
	}
	return &fb, nil
}
