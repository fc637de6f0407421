package middleware

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"sweeper/internal/config"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
)

// Auth parses the player's auth cookies and, when they hold a valid token,
// stores the claims on the request context. Requests without valid cookies
// pass through anonymously with the cookies cleared.
func Auth(log *logrus.Logger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParsePlayerClaims(r)
			if err != nil {
				cookies.Clear(w)
				h.ServeHTTP(w, r)
				return
			}
			log.Debug("authenticated player ", claims.Username)
			ctx := context.WithValue(r.Context(), CtxPlayerClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
