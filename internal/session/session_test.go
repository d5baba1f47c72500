package session

import (
	"errors"
	"testing"

	"github.com/sadopc/otis/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestSession(t *testing.T, tab *kv.Tab) *Session {
	t.Helper()
	s, err := New(tab, tab, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

type brokenStorage struct {
	kv.Storage
}

func (brokenStorage) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }

func TestInitialStateAnonymous(t *testing.T) {
	s := newTestSession(t, kv.NewMemory().Tab())
	assert.Equal(t, StateAnonymous, s.State())
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Email())
	assert.Empty(t, s.Role())
}

func TestInitialStateRestoredFromFlag(t *testing.T) {
	tab := kv.NewMemory().Tab()
	require.NoError(t, tab.Set(KeyLoggedIn, "true"))
	s := newTestSession(t, tab)
	assert.True(t, s.LoggedIn())
}

func TestNewReadFailure(t *testing.T) {
	_, err := New(brokenStorage{}, nil, nil)
	assert.Error(t, err)
}

func TestLoginLogoutRoundTrip(t *testing.T) {
	tab := kv.NewMemory().Tab()
	s := newTestSession(t, tab)

	screen, err := s.Login("a@b.com", "secret", RoleClient)
	require.NoError(t, err)
	assert.Equal(t, ScreenClientFeedback, screen)
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, "a@b.com", s.Email())
	assert.Equal(t, RoleClient, s.Role())

	flag, _, _ := tab.Get(KeyLoggedIn)
	assert.Equal(t, "true", flag)

	require.NoError(t, s.Logout())
	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Email())
	_, ok, _ := tab.Get(KeyEmail)
	assert.False(t, ok)
}

func TestLoginRequiresCredentials(t *testing.T) {
	tab := kv.NewMemory().Tab()
	s := newTestSession(t, tab)

	for _, c := range [][2]string{{"", "pw"}, {"a@b.com", ""}, {"   ", "pw"}, {"a@b.com", "  "}} {
		_, err := s.Login(c[0], c[1], RoleEmployee)
		assert.ErrorIs(t, err, ErrMissingCredentials)
	}
	assert.False(t, s.LoggedIn())
	keys, err := tab.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLoginLanding(t *testing.T) {
	s := newTestSession(t, kv.NewMemory().Tab())

	screen, err := s.Login("e@otis.com", "x", RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, ScreenDashboard, screen)

	screen, err = s.Login("e@otis.com", "x", "")
	require.NoError(t, err)
	assert.Equal(t, ScreenDashboard, screen)
	assert.Equal(t, RoleEmployee, s.Role())
}

func TestLogoutWipesEverything(t *testing.T) {
	tab := kv.NewMemory().Tab()
	require.NoError(t, tab.Set("otis_installations", "[]"))
	s := newTestSession(t, tab)
	_, err := s.Login("a@b.com", "pw", RoleEmployee)
	require.NoError(t, err)

	require.NoError(t, s.Logout())
	keys, err := tab.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestCrossTabMirroring(t *testing.T) {
	mem := kv.NewMemory()
	a := newTestSession(t, mem.Tab())
	b := newTestSession(t, mem.Tab())

	var seen []bool
	b.OnChange(func(loggedIn bool) { seen = append(seen, loggedIn) })

	_, err := a.Login("a@b.com", "pw", RoleEmployee)
	require.NoError(t, err)
	assert.True(t, b.LoggedIn())
	assert.Equal(t, "a@b.com", b.Email())

	require.NoError(t, a.Logout())
	assert.False(t, b.LoggedIn())
	assert.Equal(t, []bool{true, false}, seen)
}

func TestExternalFlagChange(t *testing.T) {
	mem := kv.NewMemory()
	other := mem.Tab()
	s := newTestSession(t, mem.Tab())

	require.NoError(t, other.Set(KeyLoggedIn, "true"))
	assert.True(t, s.LoggedIn())

	require.NoError(t, other.Set(KeyLoggedIn, "false"))
	assert.False(t, s.LoggedIn())

	require.NoError(t, other.Set(KeyLoggedIn, "true"))
	require.NoError(t, other.Remove(KeyLoggedIn))
	assert.False(t, s.LoggedIn())
}

func TestOtherKeysNotMirrored(t *testing.T) {
	mem := kv.NewMemory()
	other := mem.Tab()
	s := newTestSession(t, mem.Tab())

	calls := 0
	s.OnChange(func(bool) { calls++ })
	require.NoError(t, other.Set(KeyEmail, "x@y.com"))
	assert.False(t, s.LoggedIn())
	assert.Zero(t, calls)
}

func TestCloseStopsMirroring(t *testing.T) {
	mem := kv.NewMemory()
	other := mem.Tab()
	tab := mem.Tab()
	s, err := New(tab, tab, nil)
	require.NoError(t, err)
	s.Close()
	s.Close()

	require.NoError(t, other.Set(KeyLoggedIn, "true"))
	assert.False(t, s.LoggedIn())
}

func TestAllowed(t *testing.T) {
	s := newTestSession(t, kv.NewMemory().Tab())
	assert.True(t, s.Allowed(ScreenLogin))
	assert.False(t, s.Allowed(ScreenDashboard))
	assert.Equal(t, ScreenLogin, s.Resolve(ScreenBudget))

	_, err := s.Login("a@b.com", "pw", RoleEmployee)
	require.NoError(t, err)
	assert.True(t, s.Allowed(ScreenInstallationDetail))
	assert.Equal(t, ScreenBudget, s.Resolve(ScreenBudget))
}
