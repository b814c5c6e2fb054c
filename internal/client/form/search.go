package form

import (
	"strconv"
	"time"

	"github.com/atinyakov/GophStay/internal/models"
)

// SearchForm is the accommodation search input. Prices are kept as typed.
type SearchForm struct {
	City      string   `json:"city" validate:"omitempty,max=100"`
	CheckIn   string   `json:"checkIn" validate:"omitempty,datetime=2006-01-02"`
	CheckOut  string   `json:"checkOut" validate:"omitempty,datetime=2006-01-02"`
	Guests    int      `json:"guest_number" validate:"gte=0,lte=50"`
	MinPrice  string   `json:"minPrice" validate:"omitempty,price"`
	MaxPrice  string   `json:"maxPrice" validate:"omitempty,price"`
	Amenities []string `json:"amenities" validate:"dive,amenity"`
}

// Normalize builds the search filter. Invalid input is not rejected: a bad
// field is dropped and a half-filled or out-of-order range is reset to
// empty. The returned Errors says what was dropped.
func (f SearchForm) Normalize() (models.SearchFilter, Errors) {
	var errs Errors
	checkFields(f, &errs)

	out := models.SearchFilter{}
	if len(errs.Field("city")) == 0 {
		out.City = f.City
	}
	if len(errs.Field("guest_number")) == 0 {
		out.GuestCount = f.Guests
	}
	if len(errs.Field("amenities")) == 0 && len(f.Amenities) > 0 {
		out.Amenities = append([]string(nil), f.Amenities...)
	}

	checkIn, checkOut := f.CheckIn, f.CheckOut
	if len(errs.Field("checkIn")) > 0 {
		checkIn = ""
	}
	if len(errs.Field("checkOut")) > 0 {
		checkOut = ""
	}
	if checkDates(checkIn, checkOut, &errs) {
		out.CheckIn, out.CheckOut = checkIn, checkOut
	}

	var minPrice, maxPrice *float64
	if len(errs.Field("minPrice")) == 0 {
		minPrice = parsePrice(f.MinPrice)
	}
	if len(errs.Field("maxPrice")) == 0 {
		maxPrice = parsePrice(f.MaxPrice)
	}
	switch {
	case PriceRange(minPrice, maxPrice) != nil:
		errs.addGroup(CodePriceRangeIncomplete)
	case minPrice != nil && *minPrice > *maxPrice:
		errs.addGroup(CodeInvalidPriceRange)
	default:
		out.MinPrice, out.MaxPrice = minPrice, maxPrice
	}
	return out, errs
}

func parsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// BookingFilterForm narrows a booking list, for guests and hosts alike.
type BookingFilterForm struct {
	State    string `json:"state" validate:"omitempty,oneof=PENDING CANCELED COMPLETED"`
	CheckIn  string `json:"checkIn" validate:"omitempty,datetime=2006-01-02"`
	CheckOut string `json:"checkOut" validate:"omitempty,datetime=2006-01-02"`
	Guests   int    `json:"guest_number" validate:"gte=0"`
}

// Normalize builds the booking filter with the same reset policy as
// SearchForm.
func (f BookingFilterForm) Normalize() (models.BookingFilter, Errors) {
	var errs Errors
	checkFields(f, &errs)

	out := models.BookingFilter{}
	if len(errs.Field("state")) == 0 {
		out.State = f.State
	}
	if len(errs.Field("guest_number")) == 0 {
		out.GuestCount = f.Guests
	}
	checkIn, checkOut := f.CheckIn, f.CheckOut
	if len(errs.Field("checkIn")) > 0 {
		checkIn = ""
	}
	if len(errs.Field("checkOut")) > 0 {
		checkOut = ""
	}
	if checkDates(checkIn, checkOut, &errs) {
		out.CheckIn, out.CheckOut = checkIn, checkOut
	}
	return out, errs
}

// StatsForm picks the period of a host's stats view.
type StatsForm struct {
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// Period validates the form and returns the query period. Unlike the filters,
// a bad period is rejected rather than reset.
func (f StatsForm) Period() (models.StatsPeriod, error) {
	var errs Errors
	checkFields(f, &errs)
	if errs.Empty() {
		checkDates(f.StartDate, f.EndDate, &errs)
	}
	if !errs.Empty() {
		return models.StatsPeriod{}, errs
	}
	if f.StartDate == "" {
		return models.StatsPeriod{}, nil
	}
	start, _ := ParseDate(f.StartDate)
	end, _ := ParseDate(f.EndDate)
	return models.StatsPeriod{
		StartDate: start.UTC().Format(time.RFC3339),
		EndDate:   end.UTC().Format(time.RFC3339),
	}, nil
}
