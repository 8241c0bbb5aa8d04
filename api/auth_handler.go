package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/startsnapfun/startsnap-backend/errs"
	"github.com/startsnapfun/startsnap-backend/models"
	"github.com/startsnapfun/startsnap-backend/services"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	sessions  *services.Sessions
}

func newAuthHandler(sessions *services.Sessions) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		sessions:  sessions,
	}
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// signUp creates an account plus its profile and returns a session token
func (h authHandler) signUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload credentialsPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.Malformed("sign-up payload"))
			return
		}

		user, token, err := h.sessions.SignUp(payload.Email, payload.Password, payload.Username)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, sessionResponse{User: user, Token: token})
	}
}

// signIn checks email+password credentials and returns a session token
func (h authHandler) signIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload credentialsPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.responder.WriteError(w, errs.Malformed("sign-in payload"))
			return
		}

		user, token, err := h.sessions.SignIn(payload.Email, payload.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, sessionResponse{User: user, Token: token})
	}
}

// demoSignIn accepts the one configured demo credential pair via query
// parameters so evaluators can skip the sign-in form. Clients are expected
// to strip the parameters from their location bar after the exchange.
func (h authHandler) demoSignIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		password := r.URL.Query().Get("password")

		user, token, err := h.sessions.DemoSignIn(email, password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, sessionResponse{User: user, Token: token})
	}
}

// signOut revokes the session behind the presented token
func (h authHandler) signOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.sessions.SignOut(bearerToken(r)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "signed out",
		})
	}
}

// sessionHealth is the lightweight probe clients poll. Reaching it at all
// means the token passed the auth middleware, so the session is healthy; an
// invalid token never gets here and surfaces as 401 instead.
func (h authHandler) sessionHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"status":  "ok",
			"user_id": userID,
		})
	}
}

const oauthStateCookie = "oauth_state"

// oauthRedirect sends the browser to the OAuth provider with a fresh
// anti-forgery state bound to a short-lived cookie
func (h authHandler) oauthRedirect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.sessions.OAuthEnabled() {
			h.responder.WriteError(w, errs.NewBadRequestError("OAuth sign-in is not configured"))
			return
		}

		var buf [16]byte
		if _, err := rand.Read(buf[:]); err != nil {
			h.responder.WriteError(w, errs.NewInternalError("could not generate OAuth state"))
			return
		}
		state := hex.EncodeToString(buf[:])

		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/",
			MaxAge:   int((10 * time.Minute).Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, h.sessions.OAuthURL(state), http.StatusTemporaryRedirect)
	}
}

// oauthCallback finishes the OAuth flow and returns a session token
func (h authHandler) oauthCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stateCookie, err := r.Cookie(oauthStateCookie)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
			h.responder.WriteError(w, errs.NewUnauthorizedError("OAuth state mismatch"))
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing OAuth code"))
			return
		}

		user, token, err := h.sessions.OAuthSignIn(r.Context(), code)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, sessionResponse{User: user, Token: token})
	}
}
