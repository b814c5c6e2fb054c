package api

import (
	"context"
	"net/http"

	"github.com/atinyakov/GophStay/internal/models"
)

// UserService edits the current user.
type UserService struct{ c *Client }

// UpdateProfile replaces the editable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, p models.Profile) (string, error) {
	data, err := s.c.do(ctx, request{method: http.MethodPut, path: "/users/me", body: p})
	if err != nil {
		return "", err
	}
	return decodeText(data)
}

// ChangePassword changes the password of the logged-in user.
func (s *UserService) ChangePassword(ctx context.Context, p models.PasswordChange) (string, error) {
	data, err := s.c.do(ctx, request{method: http.MethodPatch, path: "/users/me/password", body: p})
	if err != nil {
		return "", err
	}
	return decodeText(data)
}
