package guard

import (
	"context"
	"net/http"

	"github.com/atinyakov/GophStay/internal/client/session"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// Middleware checks r against gates before every request. On denial it
// answers 303 See Other to the gate's redirect and never calls next. On
// success the session's claims are put in the request context.
func Middleware(sess session.Session, r Route, gates ...Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if d := Evaluate(sess, r, gates...); !d.Allow {
				http.Redirect(w, req, d.Redirect, http.StatusSeeOther)
				return
			}
			ctx := context.WithValue(req.Context(), claimsKey, sess.Claims())
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims Middleware stored, or the zero value.
func ClaimsFromContext(ctx context.Context) session.Claims {
	c, _ := ctx.Value(claimsKey).(session.Claims)
	return c
}
