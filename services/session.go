package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	configpkg "github.com/startsnapfun/startsnap-backend/config"
	"github.com/startsnapfun/startsnap-backend/errs"
	"github.com/startsnapfun/startsnap-backend/models"
)

// UserStore is the persistence the session manager needs for accounts.
type UserStore interface {
	FindByID(id uuid.UUID) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByOAuth(provider, subject string) (*models.User, error)
	Add(user *models.User) error
}

// SessionStore is the persistence for server-side sessions.
type SessionStore interface {
	FindByID(id uuid.UUID) (*models.Session, error)
	Add(session *models.Session) error
	Touch(id uuid.UUID, seen time.Time) error
	Delete(id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ProfileStore is the slice of profile persistence sign-up uses.
type ProfileStore interface {
	Upsert(profile *models.Profile) error
	FindByUsername(username string) (*models.Profile, error)
}

const oauthProviderGithub = "github"

// Sessions owns login state: account creation, credential checks, token
// issuance and verification, OAuth sign-in, and the demo bypass. Every
// token is bound to a session row so a login can be revoked server-side.
type Sessions struct {
	users    UserStore
	sessions SessionStore
	profiles ProfileStore
	activity ActivityRecorder

	secret []byte
	ttl    time.Duration
	now    func() time.Time

	oauth *oauth2.Config

	demoEmail    string
	demoPassword string

	logger zerolog.Logger
}

// NewSessions builds the session manager from the environment:
// SESSION_SECRET (required), SESSION_TTL, DEMO_EMAIL/DEMO_PASSWORD, and
// GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET/OAUTH_REDIRECT_URL for OAuth.
func NewSessions(users UserStore, sessions SessionStore, profiles ProfileStore, activity ActivityRecorder, c map[string]string) (*Sessions, error) {
	secret := configpkg.GetString(c, "SESSION_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not set")
	}

	s := &Sessions{
		users:        users,
		sessions:     sessions,
		profiles:     profiles,
		activity:     activity,
		secret:       []byte(secret),
		ttl:          configpkg.GetDuration(c, "SESSION_TTL", 7*24*time.Hour),
		now:          time.Now,
		demoEmail:    configpkg.GetString(c, "DEMO_EMAIL", ""),
		demoPassword: configpkg.GetString(c, "DEMO_PASSWORD", ""),
		logger:       log.With().Str("serviceName", "sessions").Logger(),
	}

	clientID := configpkg.GetString(c, "GITHUB_CLIENT_ID", "")
	clientSecret := configpkg.GetString(c, "GITHUB_CLIENT_SECRET", "")
	if clientID != "" && clientSecret != "" {
		s.oauth = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     github.Endpoint,
			RedirectURL:  configpkg.GetString(c, "OAUTH_REDIRECT_URL", ""),
			Scopes:       []string{"read:user", "user:email"},
		}
	}

	return s, nil
}

// SignUp creates an account with its profile and signs the user in.
func (s *Sessions) SignUp(email, password, username string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, "", errs.NewValidationError("email", "email address is not valid")
	}
	if len(password) < 8 {
		return nil, "", errs.NewValidationError("password", "password must be at least 8 characters")
	}
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return nil, "", errs.NewValidationError("username", "username must be at least 3 characters")
	}

	if existing, err := s.users.FindByEmail(email); err != nil {
		return nil, "", errs.NewDatabaseError("find", "user", err)
	} else if existing != nil {
		return nil, "", errs.NewAlreadyExists("account")
	}
	if existing, err := s.profiles.FindByUsername(username); err != nil {
		return nil, "", errs.NewDatabaseError("find", "profile", err)
	} else if existing != nil {
		return nil, "", errs.NewUsernameTakenError(username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errs.NewInternalError("could not hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Add(user); err != nil {
		return nil, "", errs.NewDatabaseError("create", "user", err)
	}
	if err := s.profiles.Upsert(&models.Profile{UserID: user.ID, Username: username}); err != nil {
		return nil, "", errs.NewDatabaseError("create", "profile", err)
	}

	s.activity.Record(models.ActivityEvent{
		Type:    models.ActivityUserJoined,
		Display: fmt.Sprintf("%s joined", username),
		ActorID: user.ID,
		Public:  true,
	})

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SignIn checks credentials and issues a token.
func (s *Sessions) SignIn(email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, "", errs.NewDatabaseError("find", "user", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, "", errs.NewBadCredentialsError()
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", errs.NewBadCredentialsError()
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// DemoSignIn accepts exactly the configured demo credential pair and
// nothing else. It exists so evaluators can skip manual sign-in.
func (s *Sessions) DemoSignIn(email, password string) (*models.User, string, error) {
	if s.demoEmail == "" || email != s.demoEmail || password != s.demoPassword {
		return nil, "", errs.NewBadCredentialsError()
	}
	return s.SignIn(email, password)
}

// SignOut revokes the session behind a token. An already-dead token is not
// an error; the caller wanted it gone either way.
func (s *Sessions) SignOut(token string) error {
	_, sessionID, err := s.parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(sessionID); err != nil {
		return errs.NewDatabaseError("delete", "session", err)
	}
	return nil
}

// Verify authenticates a token: signature and expiry first, then the
// session row it names. It distinguishes an invalid login (ApiErr 401, the
// client must reset) from backend trouble (ApiErr 5xx, the client keeps its
// session) so transient connectivity never forces a logout.
func (s *Sessions) Verify(token string) (uuid.UUID, error) {
	userID, sessionID, err := s.parse(token)
	if err != nil {
		return uuid.Nil, err
	}

	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return uuid.Nil, errs.NewDatabaseError("find", "session", err)
	}
	if session == nil {
		return uuid.Nil, errs.NewSessionRevokedError()
	}
	if session.Expired(s.now()) {
		return uuid.Nil, errs.NewSessionExpiredError()
	}
	if session.UserID != userID {
		return uuid.Nil, errs.NewInvalidTokenError()
	}

	if err := s.sessions.Touch(sessionID, s.now()); err != nil {
		s.logger.Warn().Err(err).Msg("failed to touch session")
	}
	return userID, nil
}

func (s *Sessions) issue(userID uuid.UUID) (string, error) {
	now := s.now()
	session := &models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		LastSeen:  now,
	}
	if err := s.sessions.Add(session); err != nil {
		return "", errs.NewDatabaseError("create", "session", err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ID:        session.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errs.NewInternalError("could not sign token")
	}
	return signed, nil
}

func (s *Sessions) parse(token string) (userID, sessionID uuid.UUID, err error) {
	var claims jwt.RegisteredClaims
	parsed, parseErr := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if parseErr != nil {
		if errors.Is(parseErr, jwt.ErrTokenExpired) {
			return uuid.Nil, uuid.Nil, errs.NewSessionExpiredError()
		}
		return uuid.Nil, uuid.Nil, errs.NewInvalidTokenError()
	}
	if !parsed.Valid {
		return uuid.Nil, uuid.Nil, errs.NewInvalidTokenError()
	}

	userID, err = uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, uuid.Nil, errs.NewInvalidTokenError()
	}
	sessionID, err = uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, uuid.Nil, errs.NewInvalidTokenError()
	}
	return userID, sessionID, nil
}

// OAuthEnabled reports whether the OAuth provider is configured.
func (s *Sessions) OAuthEnabled() bool {
	return s.oauth != nil
}

// OAuthURL returns the provider's authorization URL for the given state.
func (s *Sessions) OAuthURL(state string) string {
	if s.oauth == nil {
		return ""
	}
	return s.oauth.AuthCodeURL(state)
}

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

// OAuthSignIn exchanges the callback code, resolves the provider identity,
// and finds or creates the matching account.
func (s *Sessions) OAuthSignIn(ctx context.Context, code string) (*models.User, string, error) {
	if s.oauth == nil {
		return nil, "", errs.NewBadRequestError("OAuth sign-in is not configured")
	}

	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, "", errs.NewUnauthorizedError("OAuth code exchange failed")
	}

	gh, err := s.fetchGithubUser(ctx, tok)
	if err != nil {
		return nil, "", err
	}
	subject := fmt.Sprintf("%d", gh.ID)

	user, err := s.users.FindByOAuth(oauthProviderGithub, subject)
	if err != nil {
		return nil, "", errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		email := gh.Email
		if email == "" {
			email = fmt.Sprintf("%s@users.noreply.github.com", gh.Login)
		}
		user = &models.User{
			ID:            uuid.New(),
			Email:         strings.ToLower(email),
			OAuthProvider: oauthProviderGithub,
			OAuthSubject:  subject,
		}
		if err := s.users.Add(user); err != nil {
			return nil, "", errs.NewDatabaseError("create", "user", err)
		}
		if err := s.profiles.Upsert(&models.Profile{UserID: user.ID, Username: gh.Login}); err != nil {
			s.logger.Warn().Err(err).Str("username", gh.Login).Msg("could not create profile for OAuth user")
		}
		s.activity.Record(models.ActivityEvent{
			Type:    models.ActivityUserJoined,
			Display: fmt.Sprintf("%s joined", gh.Login),
			ActorID: user.ID,
			Public:  true,
		})
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Sessions) fetchGithubUser(ctx context.Context, tok *oauth2.Token) (*githubUser, error) {
	client := s.oauth.Client(ctx, tok)
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		return nil, errs.NewInternalError("could not reach the OAuth provider")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewUnauthorizedError("OAuth provider rejected the token")
	}
	var gh githubUser
	if err := json.NewDecoder(resp.Body).Decode(&gh); err != nil {
		return nil, errs.NewInternalError("malformed OAuth provider response")
	}
	return &gh, nil
}
