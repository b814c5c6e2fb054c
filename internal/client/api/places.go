package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/atinyakov/GophStay/internal/models"
)

// PlaceService covers accommodation search and host management.
type PlaceService struct{ c *Client }

func pageQuery(page int) url.Values {
	return url.Values{"page": {strconv.Itoa(page)}}
}

// Search returns one page of listings matching f. Pages start at 0.
func (s *PlaceService) Search(ctx context.Context, f models.SearchFilter, page int) (Page[models.Listing], error) {
	data, err := s.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/accommodations/search",
		query:  pageQuery(page),
		body:   f,
	})
	if err != nil {
		return Page[models.Listing]{}, err
	}
	return decodePage[models.Listing](data)
}

// Get returns one accommodation.
func (s *PlaceService) Get(ctx context.Context, id string) (models.AccommodationDetail, error) {
	data, err := s.c.do(ctx, request{method: http.MethodGet, path: "/accommodations/" + url.PathEscape(id)})
	if err != nil {
		return models.AccommodationDetail{}, err
	}
	return decodeEnvelope[models.AccommodationDetail](data)
}

// Create publishes a new accommodation for the logged-in host.
func (s *PlaceService) Create(ctx context.Context, p models.Place) (string, error) {
	data, err := s.c.do(ctx, request{method: http.MethodPost, path: "/accommodations", body: p})
	if err != nil {
		return "", err
	}
	return decodeText(data)
}

// Update replaces the accommodation id.
func (s *PlaceService) Update(ctx context.Context, id string, p models.Place) (string, error) {
	data, err := s.c.do(ctx, request{method: http.MethodPut, path: "/accommodations/" + url.PathEscape(id), body: p})
	if err != nil {
		return "", err
	}
	return decodeText(data)
}

// Delete removes the accommodation id.
func (s *PlaceService) Delete(ctx context.Context, id string) (string, error) {
	data, err := s.c.do(ctx, request{method: http.MethodDelete, path: "/accommodations/" + url.PathEscape(id)})
	if err != nil {
		return "", err
	}
	return decodeText(data)
}

// Mine lists the logged-in host's accommodations.
func (s *PlaceService) Mine(ctx context.Context, page int) (Page[models.Listing], error) {
	data, err := s.c.do(ctx, request{method: http.MethodGet, path: "/accommodations/me", query: pageQuery(page)})
	if err != nil {
		return Page[models.Listing]{}, err
	}
	return decodePage[models.Listing](data)
}

// Stats summarises the accommodation id over period. An empty period means
// all time.
func (s *PlaceService) Stats(ctx context.Context, id string, period models.StatsPeriod) (models.Stats, error) {
	q := url.Values{}
	if period.StartDate != "" {
		q.Set("startDate", period.StartDate)
	}
	if period.EndDate != "" {
		q.Set("endDate", period.EndDate)
	}
	data, err := s.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/accommodations/" + url.PathEscape(id) + "/stats",
		query:  q,
	})
	if err != nil {
		return models.Stats{}, err
	}
	return decodeEnvelope[models.Stats](data)
}
