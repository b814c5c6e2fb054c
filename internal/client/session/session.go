// Package session holds the bearer token the client authenticates with and
// the identity claims decoded from it.
//
// The token is never verified here; the backend does that. Claims are only
// read to drive navigation and display, and are trusted only while the
// token's exp claim lies in the future.
package session

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cristalhq/jwt/v4"
	"go.uber.org/zap"
)

// TokenKey is the storage key the bearer token lives under.
const TokenKey = "AuthToken"

// Session is what call sites depend on: guards, the API transport and pages.
type Session interface {
	// Token returns the stored token, if any, expired or not.
	Token() (string, bool)
	// IsLogged reports whether a token is stored and not expired.
	IsLogged() bool
	// Login stores token without validating it.
	Login(token string) error
	// Logout removes the stored token.
	Logout() error
	// Claims returns the decoded identity, or the zero value when the
	// session is absent, malformed or expired.
	Claims() Claims
}

// Claims is the identity carried in the token payload.
type Claims struct {
	UserID    string
	Role      string
	Name      string
	Email     string
	ExpiresAt time.Time
}

// Store is the Session backed by a Storage.
type Store struct {
	storage Storage
	now     func() time.Time
	log     *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for storage failures.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// NewStore creates a Store over storage.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{storage: storage, now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login stores token under TokenKey.
func (s *Store) Login(token string) error {
	return s.storage.Set(TokenKey, token)
}

// Token returns the stored token. A storage failure reads as no token.
func (s *Store) Token() (string, bool) {
	tok, ok, err := s.storage.Get(TokenKey)
	if err != nil {
		s.log.Warn("read session token", zap.Error(err))
		return "", false
	}
	if !ok || tok == "" {
		return "", false
	}
	return tok, true
}

// IsLogged reports whether a non-expired token is stored.
func (s *Store) IsLogged() bool {
	_, ok := s.Token()
	return ok && !s.IsTokenExpired()
}

// IsTokenExpired reports true when there is no token, when its payload
// cannot be decoded, when it has no exp claim, or when exp is not in the future.
func (s *Store) IsTokenExpired() bool {
	p, ok := s.payload()
	if !ok || p.ExpiresAt == nil {
		return true
	}
	return !s.now().Before(p.ExpiresAt.Time)
}

// Logout removes the token. Other keys in the storage are left alone.
func (s *Store) Logout() error {
	return s.storage.Delete(TokenKey)
}

// UserID returns the userId claim, falling back to id and then sub.
func (s *Store) UserID() string {
	p, _ := s.payload()
	return p.userID()
}

// Role returns the role claim.
func (s *Store) Role() string {
	p, _ := s.payload()
	return string(p.Role)
}

// Name returns the name claim, falling back to username and then user_name.
func (s *Store) Name() string {
	p, _ := s.payload()
	return p.name()
}

// Email returns the email claim.
func (s *Store) Email() string {
	p, _ := s.payload()
	return string(p.Email)
}

// Claims returns the identity only while the token is unexpired.
func (s *Store) Claims() Claims {
	p, ok := s.payload()
	if !ok || p.ExpiresAt == nil || !s.now().Before(p.ExpiresAt.Time) {
		return Claims{}
	}
	return Claims{
		UserID:    p.userID(),
		Role:      string(p.Role),
		Name:      p.name(),
		Email:     string(p.Email),
		ExpiresAt: p.ExpiresAt.Time,
	}
}

func (s *Store) payload() (payload, bool) {
	tok, ok := s.Token()
	if !ok {
		return payload{}, false
	}
	p, err := decodePayload(tok)
	if err != nil {
		s.log.Debug("decode session token", zap.Error(err))
		return payload{}, false
	}
	return p, true
}

type payload struct {
	jwt.RegisteredClaims
	UserIDClaim claim `json:"userId"`
	IDClaim     claim `json:"id"`
	Role        claim `json:"role"`
	NameClaim   claim `json:"name"`
	Username    claim `json:"username"`
	UserName    claim `json:"user_name"`
	Email       claim `json:"email"`
}

func (p payload) userID() string {
	return first(string(p.UserIDClaim), string(p.IDClaim), p.Subject)
}

func (p payload) name() string {
	return first(string(p.NameClaim), string(p.Username), string(p.UserName))
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// decodePayload reads the base64url middle segment. The header and signature
// are not inspected.
func decodePayload(token string) (payload, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return payload{}, errors.New("token has no payload segment")
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return payload{}, fmt.Errorf("decode payload: %w", err)
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return payload{}, fmt.Errorf("unmarshal payload: %w", err)
	}
	return p, nil
}

// claim accepts a JSON string or number; backends disagree on id types.
type claim string

func (c *claim) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = claim(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*c = claim(strconv.FormatInt(i, 10))
		return nil
	}
	*c = claim(n.String())
	return nil
}
