package session

import (
	"context"
	"log"
	"strings"
	"sync"
)

// State is the lifecycle phase of the session manager
type State string

const (
	StateUninitialized   State = "uninitialized"
	StateLoading         State = "loading"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
	StateSigningOut      State = "signing-out"
)

// ProfileCreator is the slice of the data access layer the manager needs for
// the lazy profile bootstrap.
type ProfileCreator interface {
	CreateUserProfile(userID, email, name string) error
}

// Manager is the explicitly-owned session context object: constructed once at
// application start, injected into consumers, and closed at shutdown. It
// tracks the most recent authenticated identity and subscribes to the
// credential service's auth-state stream so that a profile row is created on
// first sign-in no matter which path the sign-in took. The bootstrap result
// is only logged; it never blocks the transition to authenticated.
type Manager struct {
	sessions *Service
	profiles ProfileCreator

	mu          sync.RWMutex
	state       State
	current     *Session
	unsubscribe func()
}

// NewManager creates a Manager in the uninitialized state
func NewManager(sessions *Service, profiles ProfileCreator) *Manager {
	return &Manager{
		sessions: sessions,
		profiles: profiles,
		state:    StateUninitialized,
	}
}

// Start resolves the initial session from a restored token (empty for a cold
// start) and subscribes to auth-state changes. It must be called exactly
// once.
func (m *Manager) Start(restoredToken string) {
	m.setState(StateLoading, nil)

	if restoredToken != "" {
		if sess, err := m.sessions.GetSession(restoredToken); err == nil {
			m.setState(StateAuthenticated, sess)
		} else {
			log.Printf("session: restored token rejected: %v", err)
			m.setState(StateUnauthenticated, nil)
		}
	} else {
		m.setState(StateUnauthenticated, nil)
	}

	m.unsubscribe = m.sessions.OnAuthStateChange(m.handleAuthEvent)
}

// Close cancels the auth-state subscription
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// State returns the current lifecycle phase
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Current returns the most recent authenticated session, or nil
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SignUp registers a new identity, transitions to authenticated, and creates
// the profile row. A failed bootstrap does not fail the signup; the profile
// is retried on the next sign-in.
func (m *Manager) SignUp(email, password, username, fullName string) (*Session, error) {
	sess, err := m.sessions.SignUp(email, password, username, fullName)
	if err != nil {
		return nil, err
	}
	m.setState(StateAuthenticated, sess)

	if err := m.profiles.CreateUserProfile(sess.UserID, sess.Email, displayName(sess)); err != nil {
		log.Printf("session: profile bootstrap after signup failed for %s: %v", sess.UserID, err)
	}
	return sess, nil
}

// SignIn authenticates an email/password pair and transitions to
// authenticated
func (m *Manager) SignIn(email, password string) (*Session, error) {
	sess, err := m.sessions.SignInWithPassword(email, password)
	if err != nil {
		return nil, err
	}
	m.setState(StateAuthenticated, sess)
	return sess, nil
}

// SignInWithIDToken authenticates a Firebase ID token and transitions to
// authenticated
func (m *Manager) SignInWithIDToken(ctx context.Context, idToken string) (*Session, error) {
	sess, err := m.sessions.SignInWithIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	m.setState(StateAuthenticated, sess)
	return sess, nil
}

// SignOut invalidates the given token and transitions back to
// unauthenticated
func (m *Manager) SignOut(token string) error {
	m.setState(StateSigningOut, m.Current())
	err := m.sessions.SignOut(token)
	m.setState(StateUnauthenticated, nil)
	return err
}

func (m *Manager) handleAuthEvent(ev AuthEvent) {
	switch ev.Type {
	case EventSignedIn:
		if ev.Session == nil {
			return
		}
		m.setState(StateAuthenticated, ev.Session)
		if err := m.profiles.CreateUserProfile(ev.Session.UserID, ev.Session.Email, displayName(ev.Session)); err != nil {
			log.Printf("session: profile bootstrap failed for %s: %v", ev.Session.UserID, err)
		}
	case EventSignedOut:
		m.setState(StateUnauthenticated, nil)
	}
}

func (m *Manager) setState(state State, sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.current = sess
}

// displayName picks the best-effort profile name: signup full name, then the
// email local-part, then a generic fallback.
func displayName(sess *Session) string {
	if sess.FullName != "" {
		return sess.FullName
	}
	if at := strings.Index(sess.Email, "@"); at > 0 {
		return sess.Email[:at]
	}
	return "User"
}
