package store

import (
	"errors"
	"testing"
	"time"

	"github.com/sadopc/otis/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2024, time.December, 1, 10, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *kv.Tab) {
	t.Helper()
	tab := kv.NewMemory().Tab()
	s := New(tab, zaptest.NewLogger(t), WithClock(func() time.Time { return fixedNow }))
	return s, tab
}

// failingStorage rejects every write, like a full browser quota.
type failingStorage struct {
	kv.Storage
}

func (failingStorage) Set(string, string) error { return errors.New("quota exceeded") }

// ============================================================
// Collection
// ============================================================

func TestCollectionSeedOnFirstLoad(t *testing.T) {
	tab := kv.NewMemory().Tab()
	c := NewCollection(tab, KeyInteractions, DefaultInteractions, zaptest.NewLogger(t))

	items, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultInteractions(), items)

	raw, ok, err := tab.Get(KeyInteractions)
	require.NoError(t, err)
	require.True(t, ok, "first load must write the defaults")
	assert.Contains(t, raw, "João Silva")
}

func TestCollectionSeedIsExplicitAndIdempotent(t *testing.T) {
	tab := kv.NewMemory().Tab()
	c := NewCollection(tab, KeyInstallations, DefaultInstallations, nil)

	seeded, err := c.Seed()
	require.NoError(t, err)
	assert.True(t, seeded)

	require.NoError(t, c.Mutate(DefaultInstallations()[:2]))

	seeded, err = c.Seed()
	require.NoError(t, err)
	assert.False(t, seeded, "existing data must not be reseeded")

	items, err := c.Load()
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCollectionRoundTripIsStable(t *testing.T) {
	tab := kv.NewMemory().Tab()
	installations := NewCollection(tab, KeyInstallations, DefaultInstallations, nil)
	interactions := NewCollection(tab, KeyInteractions, DefaultInteractions, nil)
	feedback := NewCollection(tab, KeyFeedback, DefaultFeedback, nil)

	roundTrip := func(key string, mutate func() error) {
		before, _, err := tab.Get(key)
		require.NoError(t, err)
		require.NoError(t, mutate())
		after, _, err := tab.Get(key)
		require.NoError(t, err)
		assert.Equal(t, before, after, key)
	}

	list, err := installations.Load()
	require.NoError(t, err)
	roundTrip(KeyInstallations, func() error { return installations.Mutate(list) })

	ilist, err := interactions.Load()
	require.NoError(t, err)
	roundTrip(KeyInteractions, func() error { return interactions.Mutate(ilist) })

	flist, err := feedback.Load()
	require.NoError(t, err)
	roundTrip(KeyFeedback, func() error { return feedback.Mutate(flist) })
}

func TestCollectionMalformedFallsBackToDefaults(t *testing.T) {
	tab := kv.NewMemory().Tab()
	require.NoError(t, tab.Set(KeyInteractions, "{not json"))
	c := NewCollection(tab, KeyInteractions, DefaultInteractions, zaptest.NewLogger(t))

	items, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultInteractions(), items)

	raw, _, _ := tab.Get(KeyInteractions)
	assert.Equal(t, "{not json", raw, "durable value is kept until the next mutation")
}

func TestCollectionInvalidRecordFallsBackToDefaults(t *testing.T) {
	tab := kv.NewMemory().Tab()
	require.NoError(t, tab.Set(KeyFeedback, `[{"id":1,"clientName":"x","rating":9,"status":"pending","date":"2024-01-01"}]`))
	c := NewCollection(tab, KeyFeedback, DefaultFeedback, nil)

	items, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultFeedback(), items)
}

func TestCollectionMutateRejectsInvalid(t *testing.T) {
	tab := kv.NewMemory().Tab()
	c := NewCollection(tab, KeyInstallations, DefaultInstallations, nil)
	list, err := c.Load()
	require.NoError(t, err)

	list[0].Progress = 120
	err = c.Mutate(list)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRecord)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Progress")
}

func TestCollectionWriteFailurePropagates(t *testing.T) {
	c := NewCollection[Interaction](failingStorage{kv.NewMemory().Tab()}, KeyInteractions, DefaultInteractions, nil)

	_, err := c.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestCollectionItemsIsACopy(t *testing.T) {
	c := NewCollection(kv.NewMemory().Tab(), KeyInteractions, DefaultInteractions, nil)
	items := c.Items()
	require.NotEmpty(t, items)
	items[0].ClientName = "changed"
	assert.NotEqual(t, "changed", c.Items()[0].ClientName)
}

// ============================================================
// Identifiers
// ============================================================

func TestNextNumericID(t *testing.T) {
	id := func(it Interaction) int { return it.ID }
	assert.Equal(t, 1, NextNumericID([]Interaction{}, id))
	assert.Equal(t, 8, NextNumericID([]Interaction{{ID: 3}, {ID: 7}, {ID: 2}}, id))
}

func TestNextInstallationID(t *testing.T) {
	tests := []struct {
		name  string
		items []Installation
		want  string
	}{
		{"empty", nil, "INST-001"},
		{"sequential", []Installation{{ID: "INST-001"}, {ID: "INST-002"}}, "INST-003"},
		{"gap", []Installation{{ID: "INST-010"}, {ID: "INST-002"}}, "INST-011"},
		{"malformed ignored", []Installation{{ID: "legacy"}, {ID: "INST-004"}}, "INST-005"},
		{"wide", []Installation{{ID: "INST-999"}}, "INST-1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextInstallationID(tt.items))
		})
	}
}

// ============================================================
// Installations
// ============================================================

func TestCreateInstallation(t *testing.T) {
	s, _ := newTestStore(t)

	inst, err := s.CreateInstallation(Installation{
		Client: "Torre Norte", Country: "Peru", City: "Lima",
		ElevatorType: ElevatorFreight, Deadline: NewDate(2025, time.June, 1), Cost: 42000,
	})
	require.NoError(t, err)
	assert.Equal(t, "INST-011", inst.ID)
	assert.Equal(t, StatusPending, inst.Status)
	assert.Equal(t, "2024-12-01", inst.StartDate.String())

	got, err := s.GetInstallation("INST-011")
	require.NoError(t, err)
	assert.Equal(t, "Torre Norte", got.Client)

	list, err := s.ListInstallations()
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, i := range list {
		assert.False(t, seen[i.ID], "duplicate id %s", i.ID)
		seen[i.ID] = true
	}
}

func TestCreateInstallationInvalid(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.CreateInstallation(Installation{Client: "X", Country: "Chile", ElevatorType: ElevatorPersonal, Cost: -1})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestGetInstallationNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.GetInstallation("INST-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ============================================================
// Interactions
// ============================================================

func TestInteractionCRUD(t *testing.T) {
	s, _ := newTestStore(t)

	created, err := s.CreateInteraction(Interaction{
		ClientName: "Carla Dias", Description: "Contract review",
		Date: NewDate(2024, time.February, 2), Type: InteractionNegotiation,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)
	assert.Equal(t, InteractionPending, created.Status)

	updated, err := s.UpdateInteraction(created.ID, Interaction{
		ClientName: "Carla Dias", Description: "Contract signed",
		Date: NewDate(2024, time.February, 3), Status: InteractionCompleted, Type: InteractionNegotiation,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.ID)

	list, err := s.ListInteractions()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Contract signed", list[2].Description, "update keeps position")

	require.NoError(t, s.DeleteInteraction(1))
	list, err = s.ListInteractions()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].ID)

	_, err = s.GetInteraction(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInteractionMissingTargets(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.UpdateInteraction(99, Interaction{ClientName: "x", Date: NewDate(2024, 1, 1), Status: InteractionPending, Type: InteractionSupport})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteInteraction(99), ErrNotFound)
}

func TestCreateInteractionOnEmptyCollection(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.DeleteInteraction(1))
	require.NoError(t, s.DeleteInteraction(2))

	created, err := s.CreateInteraction(Interaction{ClientName: "First", Date: NewDate(2024, 3, 1)})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
}

// ============================================================
// Feedback
// ============================================================

func TestSubmitFeedback(t *testing.T) {
	s, tab := newTestStore(t)

	fb, err := s.SubmitFeedback(FeedbackSubmission{ClientName: " ana ", Rating: 5, Comment: "Great"})
	require.NoError(t, err)
	assert.Equal(t, fixedNow.UnixMilli(), fb.ID)
	assert.Equal(t, "ana", fb.ClientName)
	assert.Equal(t, "Brasil", fb.Country)
	assert.Equal(t, FeedbackPending, fb.Status)
	assert.Equal(t, "Sistema", fb.Responsible)
	assert.Nil(t, fb.Response)
	assert.Equal(t, "2024-12-01", fb.Date.String())

	again, err := s.SubmitFeedback(FeedbackSubmission{ClientName: "bo", Rating: 3})
	require.NoError(t, err)
	assert.Greater(t, again.ID, fb.ID)

	raw, ok, err := tab.Get(KeyFeedback)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"clientId":"CLIENT-`)
}

func TestSubmitFeedbackRatingBounds(t *testing.T) {
	s, _ := newTestStore(t)
	for _, rating := range []int{0, 6} {
		_, err := s.SubmitFeedback(FeedbackSubmission{ClientName: "x", Rating: rating})
		assert.ErrorIs(t, err, ErrInvalidRecord, "rating %d", rating)
	}
}

func TestStoreSeed(t *testing.T) {
	s, tab := newTestStore(t)
	require.NoError(t, s.Seed())

	keys, err := tab.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{KeyFeedback, KeyInstallations, KeyInteractions}, keys)
}

// ============================================================
// Dates
// ============================================================

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.March, 5)
	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(data))

	var back Date
	require.NoError(t, back.UnmarshalJSON(data))
	assert.True(t, back.Equal(d.Time))

	require.NoError(t, back.UnmarshalJSON([]byte("null")))
	assert.True(t, back.IsZero())

	assert.Error(t, back.UnmarshalJSON([]byte(`"05/03/2024"`)))
}
