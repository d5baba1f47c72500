// Package session tracks whether the user is logged in. The logged-in flag
// lives in the shared durable region so that every tab attached to it
// agrees on it.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/looplab/fsm"
	"github.com/sadopc/otis/internal/kv"
	"go.uber.org/zap"
)

// Durable keys written by the session.
const (
	KeyLoggedIn = "isLoggedIn"
	KeyEmail    = "userEmail"
	KeyRole     = "userRole"
)

const (
	StateAnonymous     = "anonymous"
	StateAuthenticated = "authenticated"

	eventLogin  = "login"
	eventLogout = "logout"
)

var ErrMissingCredentials = errors.New("email and password are required")

type Role string

const (
	RoleEmployee Role = "employee"
	RoleClient   Role = "client"
)

var Roles = []Role{RoleEmployee, RoleClient}

func (r Role) Label() string {
	if r == RoleClient {
		return "Client"
	}
	return "Employee"
}

// Session is the two-state login machine. It is safe for concurrent use;
// foreign changes arrive on the notifier's goroutine.
type Session struct {
	storage kv.Storage
	machine *fsm.FSM
	logger  *zap.Logger

	mu          sync.Mutex
	listeners   []func(bool)
	unsubscribe func()
}

// New restores the state from the durable flag and, when notifier is not
// nil, subscribes to changes made by other tabs. Call Close to unsubscribe.
func New(storage kv.Storage, notifier kv.Notifier, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	flag, _, err := storage.Get(KeyLoggedIn)
	if err != nil {
		return nil, fmt.Errorf("read login flag: %w", err)
	}
	initial := StateAnonymous
	if flag == "true" {
		initial = StateAuthenticated
	}
	s := &Session{
		storage: storage,
		logger:  logger.With(zap.String("component", "session")),
		machine: fsm.NewFSM(initial, fsm.Events{
			{Name: eventLogin, Src: []string{StateAnonymous, StateAuthenticated}, Dst: StateAuthenticated},
			{Name: eventLogout, Src: []string{StateAnonymous, StateAuthenticated}, Dst: StateAnonymous},
		}, fsm.Callbacks{}),
	}
	if notifier != nil {
		s.unsubscribe = notifier.Subscribe(s.handle)
	}
	return s, nil
}

// Close stops mirroring foreign changes.
func (s *Session) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Session) State() string { return s.machine.Current() }

func (s *Session) LoggedIn() bool { return s.machine.Is(StateAuthenticated) }

// Email reads the stored address. It is empty when nobody is logged in.
func (s *Session) Email() string {
	v, _, err := s.storage.Get(KeyEmail)
	if err != nil {
		s.logger.Warn("read email", zap.Error(err))
	}
	return v
}

func (s *Session) Role() Role {
	v, ok, err := s.storage.Get(KeyRole)
	if err != nil {
		s.logger.Warn("read role", zap.Error(err))
	}
	if !ok || v == "" {
		return ""
	}
	return Role(v)
}

// Login accepts any non-blank email and password; no credentials are
// verified. It returns the screen the role lands on.
func (s *Session) Login(email, password string, role Role) (Screen, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return "", ErrMissingCredentials
	}
	if role != RoleClient {
		role = RoleEmployee
	}
	for _, kvp := range [][2]string{
		{KeyLoggedIn, "true"},
		{KeyEmail, email},
		{KeyRole, string(role)},
	} {
		if err := s.storage.Set(kvp[0], kvp[1]); err != nil {
			return "", fmt.Errorf("login: %w", err)
		}
	}
	if err := s.transition(eventLogin); err != nil {
		return "", err
	}
	s.logger.Info("logged in", zap.String("role", string(role)))
	return Landing(role), nil
}

// Logout returns to the anonymous state and wipes the whole durable region,
// entity collections included.
func (s *Session) Logout() error {
	if err := s.storage.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := s.transition(eventLogout); err != nil {
		return err
	}
	s.logger.Info("logged out")
	return nil
}

// OnChange registers fn to run whenever the logged-in value changes, by a
// local transition or a mirrored one. fn may run on another goroutine.
func (s *Session) OnChange(fn func(loggedIn bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) transition(event string) error {
	before := s.LoggedIn()
	err := s.machine.Event(context.Background(), event)
	var noop fsm.NoTransitionError
	if err != nil && !errors.As(err, &noop) {
		return fmt.Errorf("%s: %w", event, err)
	}
	if after := s.LoggedIn(); after != before {
		s.notify(after)
	}
	return nil
}

// handle mirrors the login flag written by another tab. Only the flag is
// mirrored; email and role are read through storage on demand.
func (s *Session) handle(ev kv.Event) {
	if ev.Key != KeyLoggedIn {
		return
	}
	loggedIn := !ev.Removed && ev.NewValue == "true"
	if loggedIn == s.LoggedIn() {
		return
	}
	if loggedIn {
		s.machine.SetState(StateAuthenticated)
	} else {
		s.machine.SetState(StateAnonymous)
	}
	s.logger.Debug("mirrored login flag", zap.Bool("logged_in", loggedIn))
	s.notify(loggedIn)
}

func (s *Session) notify(loggedIn bool) {
	s.mu.Lock()
	listeners := append([]func(bool){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(loggedIn)
	}
}
