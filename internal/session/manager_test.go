package session

import (
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfiles struct {
	mu      sync.Mutex
	created map[string]string // user id -> display name
	err     error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{created: make(map[string]string)}
}

func (f *fakeProfiles) CreateUserProfile(userID, _, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created[userID] = name
	return nil
}

func (f *fakeProfiles) nameFor(userID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.created[userID]
	return name, ok
}

func setupManager(t *testing.T) (*Manager, *fakeProfiles) {
	t.Helper()
	svc, _ := setupSessionService(t)
	profiles := newFakeProfiles()
	m := NewManager(svc, profiles)
	t.Cleanup(m.Close)
	return m, profiles
}

func TestManagerStartColdIsUnauthenticated(t *testing.T) {
	m, _ := setupManager(t)
	assert.Equal(t, StateUninitialized, m.State())

	m.Start("")
	assert.Equal(t, StateUnauthenticated, m.State())
	assert.Nil(t, m.Current())
}

func TestManagerStartWithRestoredToken(t *testing.T) {
	m, _ := setupManager(t)
	m.Start("")

	sess, err := m.SignUp(gofakeit.Email(), "secret123", "jdoe", "Jane Doe")
	require.NoError(t, err)

	m2 := NewManager(m.sessions, newFakeProfiles())
	t.Cleanup(m2.Close)
	m2.Start(sess.Token)
	assert.Equal(t, StateAuthenticated, m2.State())
	require.NotNil(t, m2.Current())
	assert.Equal(t, sess.UserID, m2.Current().UserID)

	// A token signed under a different secret is rejected.
	other := NewManager(NewService(m.sessions.authUsers, nil, []byte("other-secret")), newFakeProfiles())
	t.Cleanup(other.Close)
	other.Start(sess.Token)
	assert.Equal(t, StateUnauthenticated, other.State())
}

func TestManagerSignUpBootstrapsProfile(t *testing.T) {
	m, profiles := setupManager(t)
	m.Start("")

	sess, err := m.SignUp(gofakeit.Email(), "secret123", "jdoe", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, m.State())

	name, ok := profiles.nameFor(sess.UserID)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", name)
}

func TestManagerBootstrapsOnExternalSignIn(t *testing.T) {
	m, profiles := setupManager(t)
	m.Start("")

	// A sign-in through the credential service directly (e.g. an HTTP
	// handler) must still trigger the lazy profile bootstrap via the
	// auth-state stream.
	sess, err := m.sessions.SignUp(gofakeit.Email(), "secret123", "jdoe", "Jane Doe")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := profiles.nameFor(sess.UserID)
		return ok
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, StateAuthenticated, m.State())
}

func TestManagerSignUpSurvivesBootstrapFailure(t *testing.T) {
	m, profiles := setupManager(t)
	profiles.err = assert.AnError
	m.Start("")

	_, err := m.SignUp(gofakeit.Email(), "secret123", "jdoe", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, m.State())
}

func TestManagerSignInAndOut(t *testing.T) {
	m, _ := setupManager(t)
	m.Start("")

	email := gofakeit.Email()
	_, err := m.SignUp(email, "secret123", "jdoe", "Jane Doe")
	require.NoError(t, err)

	sess, err := m.SignIn(email, "secret123")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, m.State())

	require.NoError(t, m.SignOut(sess.Token))
	// The SIGNED_OUT event is the last one queued, so the state settles on
	// unauthenticated once the subscriber drains.
	require.Eventually(t, func() bool {
		return m.State() == StateUnauthenticated && m.Current() == nil
	}, time.Second, 10*time.Millisecond)
}

func TestDisplayNameFallbacks(t *testing.T) {
	assert.Equal(t, "Jane Doe", displayName(&Session{FullName: "Jane Doe", Email: "jane@example.com"}))
	assert.Equal(t, "jane", displayName(&Session{Email: "jane@example.com"}))
	assert.Equal(t, "User", displayName(&Session{Email: ""}))
	assert.Equal(t, "User", displayName(&Session{Email: "@nolocal"}))
}
