package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cristalhq/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophStay/internal/client/api"
	"github.com/atinyakov/GophStay/internal/client/session"
)

func mintToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	signer, err := jwt.NewSignerHS(jwt.HS256, []byte("test-key"))
	require.NoError(t, err)
	tok, err := jwt.NewBuilder(signer).Build(claims)
	require.NoError(t, err)
	return tok.String()
}

// backend is a scripted REST server that records what it was asked.
type backend struct {
	mu       sync.Mutex
	requests []string
	token    string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path+"?"+r.URL.RawQuery)
	b.mu.Unlock()

	switch {
	case r.URL.Path == "/auth/login":
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":true,"message":"Wrong credentials"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"error": false, "message": b.token})
	case r.URL.Path == "/accommodations/search":
		page := r.URL.Query().Get("page")
		_, _ = io.WriteString(w, `{"error":false,"message":[{"id":"a`+page+`","title":"Casa `+page+`","city":"Cali","price":80}]}`)
	case r.URL.Path == "/accommodations/expired":
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":true,"message":"Token expired"}`)
	case r.URL.Path == "/bookings/me":
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"error":false,"message":[],"totalPages":1}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *backend) seen() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func runShell(t *testing.T, b *backend, start, script string) (string, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	store := session.NewStore(session.NewMemoryStorage())
	client := api.New(srv.URL, store, api.WithHTTPClient(srv.Client()))

	var out bytes.Buffer
	env := NewEnv(store, client, NewPrompter(strings.NewReader(script), &out), nil)
	ctx := context.Background()
	require.NoError(t, New(ctx, env).Run(ctx, start))
	return out.String(), store
}

func TestShell_LoginFlow(t *testing.T) {
	b := &backend{token: mintToken(t, map[string]any{
		"userId": "7", "name": "Ana", "email": "ana@example.com", "role": "HOST",
		"exp": time.Now().Add(time.Hour).Unix(),
	})}

	script := strings.Join([]string{
		"go /bookings",   // guarded: lands on login
		"ana@example.com", "wrong",
		"submit",
		"ana@example.com", "secret",
		"whoami",
		"go /bookings",
		"exit",
	}, "\n") + "\n"

	out, store := runShell(t, b, "/", script)

	assert.Contains(t, out, "✗ Wrong credentials")
	assert.Contains(t, out, "✓ Welcome, Ana")
	assert.Contains(t, out, "Ana <ana@example.com> id=7 role=HOST")
	assert.Contains(t, out, "No bookings.")
	assert.True(t, store.IsLogged())
	assert.Contains(t, b.seen(), "GET /bookings/me?page=0")
}

func TestShell_SearchPaging(t *testing.T) {
	b := &backend{}
	// city, check-in, check-out, guests, min, max, amenities
	script := "Cali\n2025-12-01\n\n\n\n\n\nnext\npage 1\nexit\n"

	out, _ := runShell(t, b, "/search", script)

	assert.Contains(t, out, "both check-in and check-out are needed")
	assert.Contains(t, out, "Casa 0")
	assert.Contains(t, out, "Casa 1")
	assert.Contains(t, out, "Page [1] 2 3 4 5 of ~10")
	assert.Equal(t, []string{
		"POST /accommodations/search?page=0",
		"POST /accommodations/search?page=1",
		"POST /accommodations/search?page=0",
	}, b.seen())
}

func TestShell_UnknownCommandAndLogout(t *testing.T) {
	b := &backend{}
	out, _ := runShell(t, b, "/nowhere", "dance\ngo /logout\nwhoami\n")

	assert.Contains(t, out, "Welcome to GophStay")
	assert.Contains(t, out, "Unknown command")
	assert.Contains(t, out, "✓ Logged out")
	assert.Contains(t, out, "Not logged in.")
}

func TestShell_UnauthorizedOnPlaceLogsOut(t *testing.T) {
	b := &backend{token: mintToken(t, map[string]any{
		"userId": "7", "name": "Ana", "role": "USER",
		"exp": time.Now().Add(time.Hour).Unix(),
	})}
	script := strings.Join([]string{
		"ana@example.com", "secret",
		"go /place/expired",
		"ana@example.com", "secret",
		"exit",
	}, "\n") + "\n"

	out, store := runShell(t, b, "/login", script)

	assert.Contains(t, out, "Your session has expired, please log in again.")
	assert.NotContains(t, out, "Could not load the accommodation")
	assert.Equal(t, 2, strings.Count(out, "Welcome, Ana"))
	assert.True(t, store.IsLogged())
	for _, req := range b.seen() {
		assert.NotContains(t, req, "/comments/list", "reviews must not load for a rejected session")
	}
}
