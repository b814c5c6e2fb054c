package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/atinyakov/GophStay/internal/models"
)

// BookingService covers reservations for guests and hosts.
type BookingService struct{ c *Client }

// Create books an accommodation.
func (s *BookingService) Create(ctx context.Context, b models.NewBooking) (string, error) {
	data, err := s.c.do(ctx, request{method: http.MethodPost, path: "/bookings", body: b})
	if err != nil {
		return "", err
	}
	return decodeText(data)
}

// Cancel cancels the booking id.
func (s *BookingService) Cancel(ctx context.Context, id string) (string, error) {
	data, err := s.c.do(ctx, request{method: http.MethodDelete, path: "/bookings/" + url.PathEscape(id)})
	if err != nil {
		return "", err
	}
	return decodeText(data)
}

// Mine lists the logged-in guest's bookings.
func (s *BookingService) Mine(ctx context.Context, f models.BookingFilter, page int) (Page[models.Booking], error) {
	data, err := s.c.do(ctx, request{method: http.MethodGet, path: "/bookings/me", query: filterQuery(f, page)})
	if err != nil {
		return Page[models.Booking]{}, err
	}
	return decodePage[models.Booking](data)
}

// ForPlace lists the bookings of the host's accommodation id.
func (s *BookingService) ForPlace(ctx context.Context, id string, f models.BookingFilter, page int) (Page[models.Booking], error) {
	data, err := s.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/accommodations/" + url.PathEscape(id) + "/bookings",
		query:  filterQuery(f, page),
	})
	if err != nil {
		return Page[models.Booking]{}, err
	}
	return decodePage[models.Booking](data)
}

// filterQuery sends only the filter fields that are set.
func filterQuery(f models.BookingFilter, page int) url.Values {
	q := pageQuery(page)
	if f.State != "" {
		q.Set("state", f.State)
	}
	if f.CheckIn != "" {
		q.Set("checkIn", f.CheckIn)
	}
	if f.CheckOut != "" {
		q.Set("checkOut", f.CheckOut)
	}
	if f.GuestCount > 0 {
		q.Set("guest_number", strconv.Itoa(f.GuestCount))
	}
	return q
}
