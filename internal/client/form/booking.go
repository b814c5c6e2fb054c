package form

import (
	"time"

	"github.com/atinyakov/GophStay/internal/models"
)

// Check-in and check-out hours applied to the chosen days.
const (
	CheckInHour  = 13
	CheckOutHour = 12
)

const bookingLayout = "2006-01-02T15:04:05"

// BookingForm books one accommodation. Capacity, when known, caps Guests.
type BookingForm struct {
	AccommodationID string `json:"accommodationCode" validate:"required"`
	CheckIn         string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut        string `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Guests          int    `json:"guest_number" validate:"required,min=1"`
	Capacity        int    `json:"-"`
}

// Validate checks the form against today's date.
func (f BookingForm) Validate(now time.Time) error {
	var errs Errors
	checkFields(f, &errs)
	if f.Capacity > 0 && f.Guests > f.Capacity {
		errs.addField("guest_number", "max")
	}
	if len(errs.Field("checkIn")) == 0 && len(errs.Field("checkOut")) == 0 {
		if checkDates(f.CheckIn, f.CheckOut, &errs) {
			if in, _ := ParseDate(f.CheckIn); in.Before(startOfDay(now)) {
				errs.addField("checkIn", CodePastDate)
			}
		}
	}
	return errs.Err()
}

// Payload returns the request body. Call it only after Validate passed.
func (f BookingForm) Payload() models.NewBooking {
	return models.NewBooking{
		CheckIn:           atHour(f.CheckIn, CheckInHour),
		CheckOut:          atHour(f.CheckOut, CheckOutHour),
		GuestCount:        f.Guests,
		AccommodationCode: f.AccommodationID,
	}
}

func atHour(day string, hour int) string {
	d, err := ParseDate(day)
	if err != nil {
		return day
	}
	y, m, dd := d.Date()
	return time.Date(y, m, dd, hour, 0, 0, 0, time.UTC).Format(bookingLayout)
}

// CommentForm reviews a completed stay.
type CommentForm struct {
	Comment   string `json:"comment" validate:"required,max=500"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	BookingID string `json:"bookingId" validate:"required"`
}

// Validate checks the field rules.
func (f CommentForm) Validate() error {
	var errs Errors
	checkFields(f, &errs)
	return errs.Err()
}

// Payload returns the request body.
func (f CommentForm) Payload() models.NewComment {
	return models.NewComment{Comment: f.Comment, Rating: f.Rating, BookingID: f.BookingID}
}
