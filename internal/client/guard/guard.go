// Package guard decides whether a screen may be shown for the current session.
package guard

import (
	"github.com/atinyakov/GophStay/internal/client/session"
)

// Paths guards redirect to.
const (
	LoginPath     = "/login"
	ForbiddenPath = "/forbidden"
)

// Route is what a gate knows about the screen being opened.
type Route struct {
	Path string
	// Login marks screens that need an unexpired session.
	Login bool
	// Role, when set, is the only role allowed in.
	Role string
}

// Decision is a gate's verdict. A denial carries where to go instead.
type Decision struct {
	Allow    bool
	Redirect string
}

// Allowed lets the navigation through.
var Allowed = Decision{Allow: true}

// Gate inspects the session and route. Gates never modify the session.
type Gate func(sess session.Session, r Route) Decision

// LoginGate sends visitors without an unexpired session to the login screen.
func LoginGate(sess session.Session, r Route) Decision {
	if !r.Login || sess.IsLogged() {
		return Allowed
	}
	return Decision{Redirect: LoginPath}
}

// RoleGate sends sessions whose role differs from the route's to the
// forbidden screen. Routes without a role let everyone through.
func RoleGate(sess session.Session, r Route) Decision {
	if r.Role == "" || sess.Claims().Role == r.Role {
		return Allowed
	}
	return Decision{Redirect: ForbiddenPath}
}

// Default is the gate chain every screen is checked with.
var Default = []Gate{LoginGate, RoleGate}

// Evaluate runs gates in order; the first denial wins.
func Evaluate(sess session.Session, r Route, gates ...Gate) Decision {
	for _, g := range gates {
		if d := g(sess, r); !d.Allow {
			return d
		}
	}
	return Allowed
}
