package middleware

import (
	"context"
	"net/http"

	"github.com/mirrorpersona/backend/internal/model/chat"
	"github.com/mirrorpersona/backend/internal/service/session"
)

type contextKey struct{ name string }

var sessionKey = &contextKey{"session"}

// CookieName carries the opaque session identifier.
const CookieName = "persona_session"

// Session attaches the caller's session to the request context,
// issuing a fresh cookie on first contact. The store lazily recreates
// sessions whose server-side state was reset.
func Session(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
				id = cookie.Value
			}
			if id == "" {
				id = store.NewID()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			sess := store.GetOrCreate(id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
		})
	}
}

// SessionFrom extracts the session placed by the Session middleware.
func SessionFrom(ctx context.Context) (*chat.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*chat.Session)
	return sess, ok
}
