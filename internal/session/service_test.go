package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/mahinuzzaman/pulsefeed/internal/models"
	"github.com/mahinuzzaman/pulsefeed/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSessionService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AuthUser{}))

	svc := NewService(repositories.NewPostgresAuthUserRepository(db), nil, []byte("test-secret"))
	return svc, db
}

func authCode(t *testing.T, err error) AuthErrorCode {
	t.Helper()
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	return authErr.Code
}

func TestSignUpIssuesSession(t *testing.T) {
	svc, _ := setupSessionService(t)

	email := gofakeit.Email()
	sess, err := svc.SignUp(email, "secret123", "jdoe", "Jane Doe")
	require.NoError(t, err)

	assert.NotEmpty(t, sess.Token)
	assert.NotEmpty(t, sess.UserID)
	assert.Equal(t, email, sess.Email)
	assert.Equal(t, "Jane Doe", sess.FullName)
	assert.True(t, sess.ExpiresAt.After(time.Now()))
}

func TestSignUpRejectsShortPasswordWithoutStoreCall(t *testing.T) {
	svc, db := setupSessionService(t)

	_, err := svc.SignUp(gofakeit.Email(), "12345", "jdoe", "Jane Doe")
	assert.Equal(t, CodeWeakPassword, authCode(t, err))

	// Nothing may reach the credential store when validation fails.
	var count int64
	require.NoError(t, db.Model(&models.AuthUser{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc, _ := setupSessionService(t)

	email := gofakeit.Email()
	_, err := svc.SignUp(email, "secret123", "jdoe", "Jane Doe")
	require.NoError(t, err)

	_, err = svc.SignUp(email, "secret456", "other", "Other Name")
	assert.Equal(t, CodeUserAlreadyExists, authCode(t, err))
}

func TestSignInWithPassword(t *testing.T) {
	svc, _ := setupSessionService(t)

	email := gofakeit.Email()
	_, err := svc.SignUp(email, "secret123", "jdoe", "Jane Doe")
	require.NoError(t, err)

	sess, err := svc.SignInWithPassword(email, "secret123")
	require.NoError(t, err)
	assert.Equal(t, email, sess.Email)

	_, err = svc.SignInWithPassword(email, "wrong-password")
	assert.Equal(t, CodeInvalidCredentials, authCode(t, err))

	// Unknown emails report the same code as wrong passwords.
	_, err = svc.SignInWithPassword("nobody@example.com", "secret123")
	assert.Equal(t, CodeInvalidCredentials, authCode(t, err))
}

func TestGetSessionRoundTrip(t *testing.T) {
	svc, _ := setupSessionService(t)

	issued, err := svc.SignUp(gofakeit.Email(), "secret123", "jdoe", "Jane Doe")
	require.NoError(t, err)

	sess, err := svc.GetSession(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, issued.UserID, sess.UserID)
	assert.Equal(t, issued.Email, sess.Email)
	assert.Equal(t, "jdoe", sess.Username)
	assert.Equal(t, "Jane Doe", sess.FullName)

	_, err = svc.GetSession("not-a-token")
	assert.Equal(t, CodeInvalidToken, authCode(t, err))
}

func TestSignInWithIDTokenDisabledWithoutProvider(t *testing.T) {
	svc, _ := setupSessionService(t)

	_, err := svc.SignInWithIDToken(t.Context(), "some-token")
	assert.Equal(t, CodeProviderDisabled, authCode(t, err))
}

func TestOnAuthStateChangeDeliversEvents(t *testing.T) {
	svc, _ := setupSessionService(t)

	events := make(chan AuthEvent, 4)
	unsubscribe := svc.OnAuthStateChange(func(ev AuthEvent) {
		events <- ev
	})
	defer unsubscribe()

	sess, err := svc.SignUp(gofakeit.Email(), "secret123", "jdoe", "Jane Doe")
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, EventSignedIn, ev.Type)
		require.NotNil(t, ev.Session)
		assert.Equal(t, sess.UserID, ev.Session.UserID)
	case <-time.After(time.Second):
		t.Fatal("no SIGNED_IN event delivered")
	}

	require.NoError(t, svc.SignOut(sess.Token))

	select {
	case ev := <-events:
		assert.Equal(t, EventSignedOut, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("no SIGNED_OUT event delivered")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	svc, _ := setupSessionService(t)

	events := make(chan AuthEvent, 4)
	unsubscribe := svc.OnAuthStateChange(func(ev AuthEvent) {
		events <- ev
	})
	unsubscribe()
	// Calling it again must be harmless.
	unsubscribe()

	_, err := svc.SignUp(gofakeit.Email(), "secret123", "jdoe", "Jane Doe")
	require.NoError(t, err)

	select {
	case <-events:
		t.Fatal("event delivered after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}
