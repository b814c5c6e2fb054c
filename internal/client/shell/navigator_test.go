package shell

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophStay/internal/client/session"
)

type fakeSession struct {
	logged bool
	role   string
}

func (f *fakeSession) Token() (string, bool) { return "tok", f.logged }
func (f *fakeSession) IsLogged() bool        { return f.logged }
func (f *fakeSession) Login(string) error    { f.logged = true; return nil }
func (f *fakeSession) Logout() error         { f.logged = false; return nil }
func (f *fakeSession) Claims() session.Claims {
	if !f.logged {
		return session.Claims{}
	}
	return session.Claims{Role: f.role}
}

// stubPage records its context and lets tests script Enter.
type stubPage struct {
	name  string
	ctx   context.Context
	enter func() error
}

func (s *stubPage) Enter(ctx context.Context) error {
	s.ctx = ctx
	if s.enter != nil {
		return s.enter()
	}
	return nil
}

func (s *stubPage) Handle(context.Context, string, []string) (bool, error) { return false, nil }
func (s *stubPage) Help() []string                                         { return nil }

type stubRoutes struct {
	built  map[string]int
	pages  map[string]*stubPage
	params map[string]Params
}

func newStubRoutes() *stubRoutes {
	return &stubRoutes{built: map[string]int{}, pages: map[string]*stubPage{}, params: map[string]Params{}}
}

func (s *stubRoutes) factory(name string) Factory {
	return func(_ context.Context, params Params) (Page, error) {
		s.built[name]++
		s.params[name] = params
		p := &stubPage{name: name}
		if existing, ok := s.pages[name]; ok && existing.enter != nil {
			p.enter = existing.enter
		}
		s.pages[name] = p
		return p, nil
	}
}

func (s *stubRoutes) table() []Route {
	return []Route{
		{Pattern: "/", Factory: s.factory("home")},
		{Pattern: "/login", Factory: s.factory("login")},
		{Pattern: "/forbidden", Factory: s.factory("forbidden")},
		{Pattern: "/place/{id}", Factory: s.factory("place")},
		{Pattern: "/bookings", Login: true, Factory: s.factory("bookings")},
		{Pattern: "/my-places", Login: true, Role: "HOST", Factory: s.factory("my-places")},
	}
}

func TestNavigate_Guards(t *testing.T) {
	tests := []struct {
		name       string
		sess       *fakeSession
		path       string
		wantPath   string
		neverBuilt string
	}{
		{"public", &fakeSession{}, "/place/7", "/place/7", ""},
		{"login required", &fakeSession{}, "/bookings", "/login", "bookings"},
		{"logged in", &fakeSession{logged: true, role: "USER"}, "/bookings", "/bookings", ""},
		{"user on host route", &fakeSession{logged: true, role: "USER"}, "/my-places", "/forbidden", "my-places"},
		{"host on host route", &fakeSession{logged: true, role: "HOST"}, "/my-places", "/my-places", ""},
		{"anonymous on host route", &fakeSession{}, "/my-places", "/login", "my-places"},
		{"unknown path", &fakeSession{}, "/nowhere", "/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes := newStubRoutes()
			nav := NewNavigator(context.Background(), tt.sess, routes.table(), nil)

			require.NoError(t, nav.Navigate(tt.path))
			assert.Equal(t, tt.wantPath, nav.Path())
			if tt.neverBuilt != "" {
				assert.Zero(t, routes.built[tt.neverBuilt], "guarded screen must not be constructed")
			}
		})
	}
}

func TestNavigate_Params(t *testing.T) {
	routes := newStubRoutes()
	nav := NewNavigator(context.Background(), &fakeSession{}, routes.table(), nil)
	require.NoError(t, nav.Navigate("/place/abc-123"))
	assert.Equal(t, Params{"id": "abc-123"}, routes.params["place"])
}

func TestNavigate_CancelsPreviousScreen(t *testing.T) {
	routes := newStubRoutes()
	nav := NewNavigator(context.Background(), &fakeSession{}, routes.table(), nil)

	require.NoError(t, nav.Navigate("/place/1"))
	first := routes.pages["place"]
	require.NoError(t, first.ctx.Err())

	require.NoError(t, nav.Navigate("/"))
	assert.ErrorIs(t, first.ctx.Err(), context.Canceled)
	assert.NoError(t, routes.pages["home"].ctx.Err())
}

func TestNavigate_EnterRedirect(t *testing.T) {
	routes := newStubRoutes()
	routes.pages["login"] = &stubPage{enter: func() error { return Redirect{To: "/"} }}
	nav := NewNavigator(context.Background(), &fakeSession{}, routes.table(), nil)

	require.NoError(t, nav.Navigate("/login"))
	assert.Equal(t, "/", nav.Path())
	assert.Equal(t, 1, routes.built["home"])
}

func TestNavigate_RedirectLoop(t *testing.T) {
	routes := []Route{
		{Pattern: "/a", Factory: func(context.Context, Params) (Page, error) { return nil, Redirect{To: "/b"} }},
		{Pattern: "/b", Factory: func(context.Context, Params) (Page, error) { return nil, Redirect{To: "/a"} }},
	}
	nav := NewNavigator(context.Background(), &fakeSession{}, routes, nil)
	assert.ErrorIs(t, nav.Navigate("/a"), ErrTooManyRedirects)
}

func TestNavigate_EnterError(t *testing.T) {
	boom := errors.New("boom")
	routes := newStubRoutes()
	routes.pages["place"] = &stubPage{enter: func() error { return boom }}
	nav := NewNavigator(context.Background(), &fakeSession{}, routes.table(), nil)
	assert.ErrorIs(t, nav.Navigate("/place/1"), boom)
}

func TestBack(t *testing.T) {
	routes := newStubRoutes()
	nav := NewNavigator(context.Background(), &fakeSession{}, routes.table(), nil)

	require.NoError(t, nav.Back())
	assert.Empty(t, nav.Path())

	require.NoError(t, nav.Navigate("/"))
	require.NoError(t, nav.Navigate("/place/1"))
	require.NoError(t, nav.Navigate("/place/2"))

	require.NoError(t, nav.Back())
	assert.Equal(t, "/place/1", nav.Path())
	require.NoError(t, nav.Back())
	assert.Equal(t, "/", nav.Path())
}

func TestNavigate_FailureKeepsCurrentScreen(t *testing.T) {
	tests := []struct {
		name   string
		routes func(*stubRoutes) []Route
		path   string
	}{
		{"bad escape", func(s *stubRoutes) []Route { return s.table() }, "/place/%zz"},
		{"redirect loop", func(s *stubRoutes) []Route {
			return append(s.table(),
				Route{Pattern: "/a", Factory: func(context.Context, Params) (Page, error) { return nil, Redirect{To: "/b"} }},
				Route{Pattern: "/b", Factory: func(context.Context, Params) (Page, error) { return nil, Redirect{To: "/a"} }},
			)
		}, "/a"},
		{"factory error", func(s *stubRoutes) []Route {
			return append(s.table(),
				Route{Pattern: "/broken", Factory: func(context.Context, Params) (Page, error) { return nil, errors.New("storage down") }},
			)
		}, "/broken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes := newStubRoutes()
			nav := NewNavigator(context.Background(), &fakeSession{}, tt.routes(routes), nil)

			require.NoError(t, nav.Navigate("/place/1"))
			current := routes.pages["place"]

			assert.Error(t, nav.Navigate(tt.path))
			assert.Equal(t, "/place/1", nav.Path())
			assert.Same(t, current, nav.Page())
			assert.NoError(t, current.ctx.Err())
			assert.NoError(t, nav.pageContext().Err())
		})
	}
}
