package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/service"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/httputil"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/validator"
)

// AuthHandler exposes login, registration, and logout.
type AuthHandler struct {
	auth         *service.AuthService
	logger       *slog.Logger
	secureCookie bool
	sessionTTL   time.Duration
}

// NewAuthHandler creates an auth handler. secureCookie should be true behind
// TLS; sessionTTL bounds the cookie lifetime to the server-side session's.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger, secureCookie bool, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		logger:       logger,
		secureCookie: secureCookie,
		sessionTTL:   sessionTTL,
	}
}

type authResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login exchanges credentials for a storefront session and sets the session
// cookie. The commerce token stays server-side.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess, err := h.auth.Login(r.Context(), input)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	h.setSessionCookie(w, sess.ID)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: authResponse{Name: sess.Name, Email: sess.Email},
	})
}

// Register creates an account and logs it in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess, err := h.auth.Register(r.Context(), input)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	h.setSessionCookie(w, sess.ID)
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: authResponse{Name: sess.Name, Email: sess.Email},
	})
}

// Logout clears the server-side session and expires the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	if err := h.auth.Logout(r.Context(), sess); err != nil {
		httputil.WriteError(w, r, err, h.logger, nil)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		httputil.WriteValidationError(w, err)
		return
	}
	httputil.WriteError(w, r, err, h.logger, nil)
}
