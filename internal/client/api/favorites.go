package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/atinyakov/GophStay/internal/models"
)

// FavoriteService manages the logged-in user's saved accommodations.
type FavoriteService struct{ c *Client }

// Add saves the accommodation id.
func (s *FavoriteService) Add(ctx context.Context, id string) (string, error) {
	data, err := s.c.do(ctx, request{method: http.MethodPost, path: "/favorites/" + url.PathEscape(id)})
	if err != nil {
		return "", err
	}
	return decodeText(data)
}

// Remove unsaves the accommodation id.
func (s *FavoriteService) Remove(ctx context.Context, id string) (string, error) {
	data, err := s.c.do(ctx, request{method: http.MethodDelete, path: "/favorites/" + url.PathEscape(id)})
	if err != nil {
		return "", err
	}
	return decodeText(data)
}

// List returns one page of favorites. The page number is part of the path.
func (s *FavoriteService) List(ctx context.Context, page int) (Page[models.Listing], error) {
	data, err := s.c.do(ctx, request{method: http.MethodGet, path: "/favorites/" + strconv.Itoa(page)})
	if err != nil {
		return Page[models.Listing]{}, err
	}
	return decodePage[models.Listing](data)
}
