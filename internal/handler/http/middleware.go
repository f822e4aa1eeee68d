package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/session"
	apperrors "github.com/YousefAboschwaly/ecommerce-V2/pkg/errors"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/httputil"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/logger"
)

// SessionCookie is the cookie carrying the storefront session ID. The
// commerce token itself never leaves the server.
const SessionCookie = "storefront_session"

type sessionCtxKey struct{}

// RequireSession resolves the session cookie into a rehydrated session and
// rejects the request when none exists. Cart, wishlist, checkout, and order
// routes all sit behind it: without a session there is no token to act with.
func RequireSession(sessions *session.Manager, l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("login required"), l, nil)
				return
			}

			sess, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, session.ErrNotFound) {
					httputil.WriteError(w, r, apperrors.Unauthorized("session expired, login again"), l, nil)
					return
				}
				httputil.WriteError(w, r, err, l, nil)
				return
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
			ctx = logger.WithSessionID(ctx, sess.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFrom returns the session attached by RequireSession. Handlers behind
// the middleware can assume it is present.
func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionCtxKey{}).(*session.Session)
	return sess
}
