package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startsnapfun/startsnap-backend/errs"
)

type fakeVerifier struct {
	userID uuid.UUID
	err    error
}

func (v fakeVerifier) Verify(token string) (uuid.UUID, error) {
	if v.err != nil {
		return uuid.Nil, v.err
	}
	return v.userID, nil
}

func echoUserHandler(t *testing.T, want uuid.UUID) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		require.NoError(t, err)
		assert.Equal(t, want, userID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatePassesValidToken(t *testing.T) {
	userID := uuid.New()
	mw := newAuthMiddleware(fakeVerifier{userID: userID})

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/session", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	mw.authenticate(echoUserHandler(t, userID)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	mw := newAuthMiddleware(fakeVerifier{userID: uuid.New()})

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/auth/session", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			called := false
			mw.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called, "handler must not run without a token")
		})
	}
}

func TestAuthenticatePropagatesVerifierStatus(t *testing.T) {
	mw := newAuthMiddleware(fakeVerifier{err: errs.NewSessionExpiredError()})

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/session", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec := httptest.NewRecorder()
	mw.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestAuthenticateOptional(t *testing.T) {
	userID := uuid.New()

	t.Run("valid token resolves the viewer", func(t *testing.T) {
		mw := newAuthMiddleware(fakeVerifier{userID: userID})
		req := httptest.NewRequest(http.MethodGet, "/v1/activity/stream", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		mw.authenticateOptional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, userID, ctxViewerID(r.Context()))
		})).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no token stays anonymous", func(t *testing.T) {
		mw := newAuthMiddleware(fakeVerifier{userID: userID})
		req := httptest.NewRequest(http.MethodGet, "/v1/activity/stream", nil)
		rec := httptest.NewRecorder()
		mw.authenticateOptional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, uuid.Nil, ctxViewerID(r.Context()))
		})).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad token stays anonymous instead of failing", func(t *testing.T) {
		mw := newAuthMiddleware(fakeVerifier{err: errs.NewInvalidTokenError()})
		req := httptest.NewRequest(http.MethodGet, "/v1/activity/stream", nil)
		req.Header.Set("Authorization", "Bearer whatever")
		rec := httptest.NewRecorder()
		mw.authenticateOptional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, uuid.Nil, ctxViewerID(r.Context()))
		})).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
