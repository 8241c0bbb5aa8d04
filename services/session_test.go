package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startsnapfun/startsnap-backend/errs"
	"github.com/startsnapfun/startsnap-backend/models"
)

type memUserStore struct {
	byID    map[uuid.UUID]*models.User
	byEmail map[string]*models.User
	byOAuth map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		byID:    map[uuid.UUID]*models.User{},
		byEmail: map[string]*models.User{},
		byOAuth: map[string]*models.User{},
	}
}

func (s *memUserStore) FindByID(id uuid.UUID) (*models.User, error) { return s.byID[id], nil }
func (s *memUserStore) FindByEmail(email string) (*models.User, error) {
	return s.byEmail[email], nil
}
func (s *memUserStore) FindByOAuth(provider, subject string) (*models.User, error) {
	return s.byOAuth[provider+":"+subject], nil
}
func (s *memUserStore) Add(user *models.User) error {
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	if user.OAuthProvider != "" {
		s.byOAuth[user.OAuthProvider+":"+user.OAuthSubject] = user
	}
	return nil
}

type memSessionStore struct {
	byID    map[uuid.UUID]*models.Session
	findErr error
	touched int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{byID: map[uuid.UUID]*models.Session{}}
}

func (s *memSessionStore) FindByID(id uuid.UUID) (*models.Session, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.byID[id], nil
}
func (s *memSessionStore) Add(session *models.Session) error {
	s.byID[session.ID] = session
	return nil
}
func (s *memSessionStore) Touch(id uuid.UUID, seen time.Time) error {
	s.touched++
	if session, ok := s.byID[id]; ok {
		session.LastSeen = seen
	}
	return nil
}
func (s *memSessionStore) Delete(id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}
func (s *memSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for id, session := range s.byID {
		if session.Expired(now) {
			delete(s.byID, id)
			n++
		}
	}
	return n, nil
}

type memProfileStore struct {
	byUsername map[string]*models.Profile
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{byUsername: map[string]*models.Profile{}}
}

func (s *memProfileStore) Upsert(profile *models.Profile) error {
	s.byUsername[profile.Username] = profile
	return nil
}
func (s *memProfileStore) FindByUsername(username string) (*models.Profile, error) {
	return s.byUsername[username], nil
}

func newTestSessions(t *testing.T, env map[string]string) (*Sessions, *memUserStore, *memSessionStore, *memProfileStore, *fakeRecorder) {
	t.Helper()
	if env == nil {
		env = map[string]string{}
	}
	if env["SESSION_SECRET"] == "" {
		env["SESSION_SECRET"] = "test-secret"
	}
	users := newMemUserStore()
	sessions := newMemSessionStore()
	profiles := newMemProfileStore()
	recorder := &fakeRecorder{}
	s, err := NewSessions(users, sessions, profiles, recorder, env)
	require.NoError(t, err)
	return s, users, sessions, profiles, recorder
}

func TestNewSessionsRequiresSecret(t *testing.T) {
	_, err := NewSessions(newMemUserStore(), newMemSessionStore(), newMemProfileStore(), &fakeRecorder{}, map[string]string{})
	assert.Error(t, err)
}

func TestSignUpAndVerifyRoundTrip(t *testing.T) {
	s, _, store, profiles, recorder := newTestSessions(t, nil)

	user, token, err := s.SignUp("Vibe@Example.com", "hunter2hunter2", "vibecoder")
	require.NoError(t, err)
	assert.Equal(t, "vibe@example.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotNil(t, profiles.byUsername["vibecoder"])

	require.Len(t, recorder.events, 1)
	assert.Equal(t, models.ActivityUserJoined, recorder.events[0].Type)

	userID, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, 1, store.touched)
}

func TestSignUpValidation(t *testing.T) {
	s, _, _, _, _ := newTestSessions(t, nil)

	tests := []struct {
		name                      string
		email, password, username string
	}{
		{"bad email", "not-an-email", "hunter2hunter2", "vibecoder"},
		{"short password", "vibe@example.com", "short", "vibecoder"},
		{"short username", "vibe@example.com", "hunter2hunter2", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.SignUp(tt.email, tt.password, tt.username)
			assert.Error(t, err)
		})
	}
}

func TestSignUpRejectsTakenIdentity(t *testing.T) {
	s, _, _, _, _ := newTestSessions(t, nil)
	_, _, err := s.SignUp("vibe@example.com", "hunter2hunter2", "vibecoder")
	require.NoError(t, err)

	_, _, err = s.SignUp("vibe@example.com", "hunter2hunter2", "someoneelse")
	require.Error(t, err)
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)

	_, _, err = s.SignUp("other@example.com", "hunter2hunter2", "vibecoder")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrUsernameTaken))
}

func TestSignInWrongPassword(t *testing.T) {
	s, _, _, _, _ := newTestSessions(t, nil)
	_, _, err := s.SignUp("vibe@example.com", "hunter2hunter2", "vibecoder")
	require.NoError(t, err)

	_, _, err = s.SignIn("vibe@example.com", "wrongwrongwrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrBadCredentials))

	_, _, err = s.SignIn("nobody@example.com", "hunter2hunter2")
	assert.True(t, errors.Is(err, errs.ErrBadCredentials))
}

func TestDemoSignInAcceptsOnlyConfiguredPair(t *testing.T) {
	s, _, _, _, _ := newTestSessions(t, map[string]string{
		"DEMO_EMAIL":    "demo@example.com",
		"DEMO_PASSWORD": "demo-password",
	})
	_, _, err := s.SignUp("demo@example.com", "demo-password", "demouser")
	require.NoError(t, err)

	_, token, err := s.DemoSignIn("demo@example.com", "demo-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = s.DemoSignIn("demo@example.com", "other-password")
	assert.True(t, errors.Is(err, errs.ErrBadCredentials))

	_, _, err = s.DemoSignIn("attacker@example.com", "demo-password")
	assert.True(t, errors.Is(err, errs.ErrBadCredentials))
}

func TestDemoSignInDisabledWithoutConfig(t *testing.T) {
	s, _, _, _, _ := newTestSessions(t, nil)
	_, _, err := s.DemoSignIn("", "")
	assert.True(t, errors.Is(err, errs.ErrBadCredentials))
}

func TestVerifyExpiredToken(t *testing.T) {
	s, _, _, _, _ := newTestSessions(t, nil)
	_, token, err := s.SignUp("vibe@example.com", "hunter2hunter2", "vibecoder")
	require.NoError(t, err)

	// Move the clock past the session TTL.
	s.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	_, err = s.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrSessionExpired))
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestVerifyRevokedSession(t *testing.T) {
	s, _, _, _, _ := newTestSessions(t, nil)
	_, token, err := s.SignUp("vibe@example.com", "hunter2hunter2", "vibecoder")
	require.NoError(t, err)

	require.NoError(t, s.SignOut(token))

	_, err = s.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrSessionRevoked))
}

func TestVerifyDistinguishesBackendFailureFromBadLogin(t *testing.T) {
	s, _, store, _, _ := newTestSessions(t, nil)
	_, token, err := s.SignUp("vibe@example.com", "hunter2hunter2", "vibecoder")
	require.NoError(t, err)

	store.findErr = errors.New("connection refused")

	_, err = s.Verify(token)
	require.Error(t, err)
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.GreaterOrEqual(t, apiErr.StatusCode, 500,
		"a backend failure must not read as an auth failure")
}

func TestVerifyGarbageToken(t *testing.T) {
	s, _, _, _, _ := newTestSessions(t, nil)
	_, err := s.Verify("not.a.jwt")
	require.Error(t, err)
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestVerifyRejectsTokenSignedWithOtherSecret(t *testing.T) {
	s, _, _, _, _ := newTestSessions(t, nil)
	other, _, _, _, _ := newTestSessions(t, map[string]string{"SESSION_SECRET": "different-secret"})

	_, token, err := other.SignUp("vibe@example.com", "hunter2hunter2", "vibecoder")
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidToken))
}

func TestSignOutToleratesDeadToken(t *testing.T) {
	s, _, _, _, _ := newTestSessions(t, nil)
	assert.NoError(t, s.SignOut("garbage"))
}

func TestOAuthDisabledWithoutConfig(t *testing.T) {
	s, _, _, _, _ := newTestSessions(t, nil)
	assert.False(t, s.OAuthEnabled())
	assert.Empty(t, s.OAuthURL("state"))
	_, _, err := s.OAuthSignIn(context.Background(), "code")
	assert.Error(t, err)
}

func TestSweeperRemovesExpiredSessions(t *testing.T) {
	store := newMemSessionStore()
	expired := &models.Session{ID: uuid.New(), UserID: uuid.New(), ExpiresAt: time.Now().Add(-time.Hour)}
	live := &models.Session{ID: uuid.New(), UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Add(expired))
	require.NoError(t, store.Add(live))

	sweeper := NewSweeper(store, time.Hour, time.Second)
	sweeper.Start()
	defer sweeper.Stop()

	// Start runs one sweep synchronously before the ticker takes over.
	assert.Nil(t, store.byID[expired.ID])
	assert.NotNil(t, store.byID[live.ID])
}
