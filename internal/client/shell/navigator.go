// Package shell is the interactive terminal front end. Screens are reached by
// path through a chi router served in-process; guards run as router
// middleware and redirect the way a browser would be redirected.
package shell

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/GophStay/internal/client/guard"
	"github.com/atinyakov/GophStay/internal/client/session"
)

// maxHops bounds how many redirects one navigation follows.
const maxHops = 8

// ErrTooManyRedirects is returned when a navigation keeps redirecting.
var ErrTooManyRedirects = errors.New("too many redirects")

// Page is one screen.
type Page interface {
	// Enter loads and prints the screen. Returning a Redirect moves on to
	// another screen.
	Enter(ctx context.Context) error
	// Handle runs a screen command and reports whether it knew it.
	Handle(ctx context.Context, cmd string, args []string) (bool, error)
	// Help lists the screen's commands.
	Help() []string
}

// Redirect is returned by factories and pages to send the user elsewhere.
type Redirect struct{ To string }

func (r Redirect) Error() string { return "redirect to " + r.To }

// Params are the path parameters of the matched route.
type Params map[string]string

// Factory builds a screen; it is only called once every guard allowed.
type Factory func(ctx context.Context, params Params) (Page, error)

// Route binds a path pattern to a screen and its access rules.
type Route struct {
	Pattern string
	Login   bool
	Role    string
	Factory Factory
}

// resolution carries a handler's result back to Navigate.
type resolution struct {
	page Page
	err  error
}

type resolutionKey struct{}

// Navigator owns the current screen and the history.
type Navigator struct {
	mux  *chi.Mux
	root context.Context
	log  *zap.Logger

	mu      sync.Mutex
	path    string
	page    Page
	ctx     context.Context
	cancel  context.CancelFunc
	history []string
}

// NewNavigator mounts routes behind the default gates of sess. Unmatched
// paths redirect to "/".
func NewNavigator(root context.Context, sess session.Session, routes []Route, log *zap.Logger) *Navigator {
	if log == nil {
		log = zap.NewNop()
	}
	mux := chi.NewRouter()
	for _, rt := range routes {
		g := guard.Route{Path: rt.Pattern, Login: rt.Login, Role: rt.Role}
		mux.With(guard.Middleware(sess, g, guard.Default...)).Get(rt.Pattern, pageHandler(rt.Factory))
	}
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	return &Navigator{mux: mux, root: root, log: log}
}

func pageHandler(factory Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, _ := r.Context().Value(resolutionKey{}).(*resolution)
		if res == nil {
			http.Error(w, "no resolution", http.StatusInternalServerError)
			return
		}
		params := Params{}
		if rc := chi.RouteContext(r.Context()); rc != nil {
			for i, k := range rc.URLParams.Keys {
				params[k] = rc.URLParams.Values[i]
			}
		}
		page, err := factory(r.Context(), params)
		var redirect Redirect
		if errors.As(err, &redirect) {
			http.Redirect(w, r, redirect.To, http.StatusSeeOther)
			return
		}
		res.page, res.err = page, err
		w.WriteHeader(http.StatusOK)
	}
}

// Path is the current screen's path.
func (n *Navigator) Path() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// Page is the current screen.
func (n *Navigator) Page() Page {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.page
}

// pageContext is the current screen's context; it is canceled when the
// user navigates away.
func (n *Navigator) pageContext() context.Context {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ctx == nil {
		return n.root
	}
	return n.ctx
}

// Navigate resolves path, following redirects, and enters the resulting
// screen. The previous screen's context is canceled once the new screen is
// built, so its in-flight requests are abandoned. When resolution fails the
// previous screen stays current and usable.
func (n *Navigator) Navigate(path string) error {
	return n.navigate(path, true)
}

// Back returns to the previous screen. With no history it stays put.
func (n *Navigator) Back() error {
	n.mu.Lock()
	if len(n.history) == 0 {
		n.mu.Unlock()
		return nil
	}
	prev := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	n.mu.Unlock()
	return n.navigate(prev, false)
}

func (n *Navigator) navigate(path string, record bool) error {
	n.mu.Lock()
	from := n.path
	n.mu.Unlock()

	for hop := 0; hop < maxHops; hop++ {
		ctx, cancel := context.WithCancel(n.root)
		page, next, err := n.resolve(ctx, path)
		if err != nil {
			cancel()
			return err
		}
		if next != "" {
			cancel()
			n.log.Debug("redirect", zap.String("from", path), zap.String("to", next))
			path = next
			continue
		}

		// The current screen stays live until a new one replaces it.
		n.mu.Lock()
		if n.cancel != nil {
			n.cancel()
		}
		if record && from != "" && from != path {
			n.history = append(n.history, from)
		}
		n.path, n.page, n.ctx, n.cancel = path, page, ctx, cancel
		n.mu.Unlock()

		err = page.Enter(ctx)
		var redirect Redirect
		if errors.As(err, &redirect) {
			path, from, record = redirect.To, "", false
			continue
		}
		return err
	}
	return ErrTooManyRedirects
}

// resolve dispatches path through the router. It returns either a page or
// the location the router redirected to.
func (n *Navigator) resolve(ctx context.Context, path string) (Page, string, error) {
	res := &resolution{}
	req, err := http.NewRequestWithContext(context.WithValue(ctx, resolutionKey{}, res), http.MethodGet, path, nil)
	if err != nil {
		return nil, "", fmt.Errorf("bad path %q: %w", path, err)
	}
	w := &recorder{header: http.Header{}}
	n.mux.ServeHTTP(w, req)

	switch {
	case w.status == http.StatusSeeOther || w.status == http.StatusFound:
		loc, err := url.Parse(w.header.Get("Location"))
		if err != nil {
			return nil, "", fmt.Errorf("bad redirect from %q: %w", path, err)
		}
		return nil, loc.RequestURI(), nil
	case res.err != nil:
		return nil, "", res.err
	case res.page == nil:
		return nil, "", fmt.Errorf("no screen for %q", path)
	}
	return res.page, "", nil
}

// recorder is the minimal ResponseWriter the router writes into.
type recorder struct {
	header http.Header
	status int
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return len(b), nil
}

func (r *recorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}
