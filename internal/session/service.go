package session

import (
	"context"
	"errors"
	"sync"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/mahinuzzaman/pulsefeed/internal/models"
	"github.com/mahinuzzaman/pulsefeed/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 6
	tokenTTL       = 72 * time.Hour
)

// Service is the credential provider: it owns the auth_users table, issues
// HS256 session tokens, and pushes auth-state changes to subscribers. The
// Firebase client is optional; when nil, federated sign-in is disabled.
type Service struct {
	authUsers    repositories.AuthUserRepository
	firebaseAuth *fbauth.Client
	jwtSecret    []byte

	mu      sync.Mutex
	subs    map[uint64]chan AuthEvent
	nextSub uint64
}

// NewService creates a new session Service
func NewService(authUsers repositories.AuthUserRepository, firebaseAuth *fbauth.Client, jwtSecret []byte) *Service {
	return &Service{
		authUsers:    authUsers,
		firebaseAuth: firebaseAuth,
		jwtSecret:    jwtSecret,
		subs:         make(map[uint64]chan AuthEvent),
	}
}

// OnAuthStateChange subscribes fn to auth-state events. Events are delivered
// on a dedicated goroutine per subscriber. The returned function cancels the
// subscription.
func (s *Service) OnAuthStateChange(fn func(AuthEvent)) func() {
	ch := make(chan AuthEvent, 16)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		for ev := range ch {
			fn(ev)
		}
	}()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if ch, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

func (s *Service) emit(ev AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// subscriber is not draining; drop rather than wedge sign-in
		}
	}
}

// SignUp registers a new email/password identity and returns a signed-in
// session. Username and full name are kept as signup metadata for the lazy
// profile bootstrap.
func (s *Service) SignUp(email, password, username, fullName string) (*Session, error) {
	if len(password) < minPasswordLen {
		return nil, authErr(CodeWeakPassword, "password must be at least %d characters", minPasswordLen)
	}

	_, err := s.authUsers.GetAuthUserByEmail(email)
	if err == nil {
		return nil, authErr(CodeUserAlreadyExists, "user %s already registered", email)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.AuthUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Username:     username,
		FullName:     fullName,
	}
	if err := s.authUsers.CreateAuthUser(user); err != nil {
		return nil, err
	}

	sess, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}
	s.emit(AuthEvent{Type: EventSignedIn, Session: sess})
	return sess, nil
}

// SignInWithPassword authenticates an email/password pair. Unknown emails and
// wrong passwords are reported with the same code.
func (s *Service) SignInWithPassword(email, password string) (*Session, error) {
	user, err := s.authUsers.GetAuthUserByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, authErr(CodeInvalidCredentials, "invalid login credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, authErr(CodeInvalidCredentials, "invalid login credentials")
	}

	sess, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}
	s.emit(AuthEvent{Type: EventSignedIn, Session: sess})
	return sess, nil
}

// SignInWithIDToken verifies a Firebase ID token and signs its identity in,
// provisioning a credential record on first use. The record carries no
// password hash, so it cannot be used for password sign-in.
func (s *Service) SignInWithIDToken(ctx context.Context, idToken string) (*Session, error) {
	if s.firebaseAuth == nil {
		return nil, authErr(CodeProviderDisabled, "federated sign-in is not configured")
	}

	token, err := s.firebaseAuth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, authErr(CodeInvalidToken, "invalid or expired ID token")
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	if email == "" {
		return nil, authErr(CodeInvalidToken, "ID token carries no email claim")
	}

	user, err := s.authUsers.GetAuthUserByEmail(email)
	if errors.Is(err, repositories.ErrNotFound) {
		user = &models.AuthUser{
			ID:       uuid.NewString(),
			Email:    email,
			FullName: name,
		}
		if err := s.authUsers.CreateAuthUser(user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	sess, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}
	s.emit(AuthEvent{Type: EventSignedIn, Session: sess})
	return sess, nil
}

// SignOut validates the token and announces the sign-out. Tokens are
// stateless, so nothing is revoked server-side; the caller discards the
// token.
func (s *Service) SignOut(token string) error {
	sess, err := s.GetSession(token)
	if err != nil {
		return err
	}
	s.emit(AuthEvent{Type: EventSignedOut, Session: sess})
	return nil
}

// GetSession parses and validates a bearer token, returning the session it
// represents. Signup metadata is attached best-effort from the credential
// record.
func (s *Service) GetSession(token string) (*Session, error) {
	claims := &models.JwtCustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, authErr(CodeInvalidToken, "unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, authErr(CodeInvalidToken, "invalid or expired token")
	}

	sess := &Session{
		Token:  token,
		UserID: claims.UserID,
		Email:  claims.Email,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	if user, err := s.authUsers.GetAuthUserByID(claims.UserID); err == nil {
		sess.Username = user.Username
		sess.FullName = user.FullName
	}
	return sess, nil
}

func (s *Service) issueSession(user *models.AuthUser) (*Session, error) {
	now := time.Now()
	expires := now.Add(tokenTTL)
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FullName:  user.FullName,
		ExpiresAt: expires,
	}, nil
}
