package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/atinyakov/GophStay/internal/models"
)

// CommentService reads and writes reviews.
type CommentService struct{ c *Client }

// List returns one page of reviews of the accommodation id.
func (s *CommentService) List(ctx context.Context, accommodationID string, page int) (Page[models.Comment], error) {
	q := pageQuery(page)
	q.Set("accommodationId", accommodationID)
	data, err := s.c.do(ctx, request{method: http.MethodGet, path: "/comments/list", query: q})
	if err != nil {
		return Page[models.Comment]{}, err
	}
	return decodePage[models.Comment](data)
}

// Create reviews the accommodation id.
func (s *CommentService) Create(ctx context.Context, accommodationID string, c models.NewComment) (string, error) {
	data, err := s.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/accommodations/" + url.PathEscape(accommodationID) + "/comments",
		body:   c,
	})
	if err != nil {
		return "", err
	}
	return decodeText(data)
}
