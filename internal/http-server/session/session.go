// Package session extracts the requester identity from the forwarded
// headers the auth proxy sets in front of the gateway.
package session

import (
	"context"
	"net/http"
	"strconv"

	"roombook-gateway/internal/models"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
	HeaderEmail    = "X-User-Email"
)

type ctxKey struct{}

// Middleware reads the identity headers into the request context. Requests
// without identity pass through; handlers that need a session decide
// whether to reject them.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(HeaderUserID)
		if rawID == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		sess := models.Session{
			UserID:   userID,
			UserName: r.Header.Get(HeaderUserName),
			Email:    r.Header.Get(HeaderEmail),
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func FromContext(ctx context.Context) (models.Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(models.Session)
	return sess, ok
}
