package api

import (
	"context"
	"net/http"

	"github.com/atinyakov/GophStay/internal/models"
)

// AuthService covers login, registration and password recovery.
type AuthService struct{ c *Client }

// Login exchanges credentials for a bearer token.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (string, error) {
	data, err := s.c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: creds})
	if err != nil {
		return "", err
	}
	return decodeToken(data)
}

// Register creates an account and returns the backend's confirmation message.
func (s *AuthService) Register(ctx context.Context, u models.NewUser) (string, error) {
	data, err := s.c.do(ctx, request{method: http.MethodPost, path: "/auth", body: u})
	if err != nil {
		return "", err
	}
	return decodeText(data)
}

// ForgotPassword asks the backend to mail a reset code to email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	data, err := s.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/forgot-password",
		body:   map[string]string{"email": email},
	})
	if err != nil {
		return "", err
	}
	return decodeText(data)
}

// ResetPassword sets a new password using the mailed code.
func (s *AuthService) ResetPassword(ctx context.Context, r models.PasswordReset) (string, error) {
	data, err := s.c.do(ctx, request{method: http.MethodPost, path: "/auth/reset-password", body: r})
	if err != nil {
		return "", err
	}
	return decodeText(data)
}
