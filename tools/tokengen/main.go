// Package main mints HS256 bearer tokens carrying the claims the client reads,
// for exercising the shell against a development backend.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cristalhq/jwt/v4"
)

// tokenClaims are the claims the client decodes from a bearer token.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
}

// mint signs claims for userID valid from now for ttl. A negative ttl yields
// an already expired token.
func mint(secret []byte, c tokenClaims, now time.Time, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("secret must not be empty")
	}
	signer, err := jwt.NewSignerHS(jwt.HS256, secret)
	if err != nil {
		return "", fmt.Errorf("create signer: %w", err)
	}
	c.Subject = c.UserID
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	tok, err := jwt.NewBuilder(signer).Build(c)
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}
	return tok.String(), nil
}

func main() {
	var (
		c      tokenClaims
		secret string
		ttl    time.Duration
	)
	flag.StringVar(&secret, "secret", "dev-secret", "HMAC signing secret")
	flag.StringVar(&c.UserID, "user", "1", "user id")
	flag.StringVar(&c.Name, "name", "Dev User", "display name")
	flag.StringVar(&c.Email, "email", "dev@example.com", "email")
	flag.StringVar(&c.Role, "role", "USER", "role: USER | HOST")
	flag.DurationVar(&ttl, "ttl", time.Hour, "validity; negative for an expired token")
	flag.Parse()

	tok, err := mint([]byte(secret), c, time.Now(), ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
