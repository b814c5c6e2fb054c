package main

import (
	"testing"
	"time"

	"github.com/cristalhq/jwt/v4"

	"github.com/atinyakov/GophStay/internal/client/session"
)

func TestMint_ReadableBySession(t *testing.T) {
	now := time.Now()
	tok, err := mint([]byte("k"), tokenClaims{UserID: "9", Name: "Eva", Email: "eva@example.com", Role: "HOST"}, now, time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	store := session.NewStore(session.NewMemoryStorage())
	if err := store.Login(tok); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !store.IsLogged() {
		t.Fatal("fresh token should be logged in")
	}
	c := store.Claims()
	if c.UserID != "9" || c.Name != "Eva" || c.Role != "HOST" || c.Email != "eva@example.com" {
		t.Errorf("claims = %+v", c)
	}
}

func TestMint_Expired(t *testing.T) {
	tok, err := mint([]byte("k"), tokenClaims{UserID: "9"}, time.Now(), -time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	store := session.NewStore(session.NewMemoryStorage())
	_ = store.Login(tok)
	if store.IsLogged() {
		t.Error("expired token should not be logged in")
	}
}

func TestMint_Signature(t *testing.T) {
	tok, err := mint([]byte("k"), tokenClaims{UserID: "9"}, time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	verifier, err := jwt.NewVerifierHS(jwt.HS256, []byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jwt.Parse([]byte(tok), verifier); err != nil {
		t.Errorf("token does not verify: %v", err)
	}
}

func TestMint_EmptySecret(t *testing.T) {
	if _, err := mint(nil, tokenClaims{}, time.Now(), time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}
