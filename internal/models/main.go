// Package models defines the data structures exchanged with the booking backend.
package models

// Role names carried in the bearer token.
const (
	RoleUser = "USER"
	RoleHost = "HOST"
)

// Listing is the card projection of an accommodation returned by search,
// favorites and host listings.
type Listing struct {
	// ID is the accommodation identifier.
	ID string `json:"id"`
	// Title is the display name.
	Title string `json:"title"`
	// Price is the nightly price.
	Price float64 `json:"price"`
	// PhotoURL is the cover image.
	PhotoURL string `json:"photo_url"`
	// Rating is the average review score (0-5).
	Rating float64 `json:"average_rating"`
	// City is where the accommodation is.
	City string `json:"city"`
	// Latitude and Longitude place the map marker.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AccommodationDetail is the full view of one accommodation.
type AccommodationDetail struct {
	Listing
	Description       string   `json:"description"`
	Capacity          int      `json:"capacity"`
	AccommodationType string   `json:"accommodationType"`
	Amenities         []string `json:"amenities"`
	Images            []string `json:"images"`
	HostID            string   `json:"hostId"`
}

// AccommodationType values accepted by the backend.
var AccommodationTypes = []string{"HOUSE", "APARTMENT", "FARM"}

// Amenities accepted by the backend.
var Amenities = []string{
	"WIFI",
	"PARKING_AND_FACILITIES",
	"SERVICES",
	"BEDROOM_AND_LAUNDRY",
	"SERVICE_ANIMALS_ALLOWED",
	"FREEZER",
	"HOT_WATER",
	"KITCHEN",
	"ENTERTAINMENT",
}

// Place is the create/update body for an accommodation.
type Place struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Price             float64  `json:"price"`
	PicsURL           []string `json:"picsUrl"`
	AccommodationType string   `json:"accommodationType"`
	Capacity          int      `json:"capacity"`
	Country           string   `json:"country"`
	Department        string   `json:"department"`
	City              string   `json:"city"`
	Neighborhood      string   `json:"neighborhood,omitempty"`
	Street            string   `json:"street,omitempty"`
	PostalCode        string   `json:"postalCode"`
	Amenities         []string `json:"amenities"`
	Latitude          float64  `json:"latitude,omitempty"`
	Longitude         float64  `json:"longitude,omitempty"`
}

// SearchFilter is the body of an accommodation search. Nil or empty fields
// are omitted so the backend applies no constraint for them.
type SearchFilter struct {
	City       string   `json:"city,omitempty"`
	CheckIn    string   `json:"checkIn,omitempty"`
	CheckOut   string   `json:"checkOut,omitempty"`
	GuestCount int      `json:"guest_number,omitempty"`
	MinPrice   *float64 `json:"minPrice,omitempty"`
	MaxPrice   *float64 `json:"maxPrice,omitempty"`
	Amenities  []string `json:"amenities,omitempty"`
}

// Booking states.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCanceled  = "CANCELED"
	BookingCompleted = "COMPLETED"
)

// BookingStates lists the states a booking filter may select.
var BookingStates = []string{BookingPending, BookingCanceled, BookingCompleted}

// UserRef is the guest summary embedded in a booking.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Booking is a reservation as returned by the backend.
type Booking struct {
	ID              string  `json:"id"`
	State           string  `json:"bookingState"`
	User            UserRef `json:"user"`
	CheckIn         string  `json:"checkIn"`
	CheckOut        string  `json:"checkOut"`
	GuestCount      int     `json:"guest_number"`
	AccommodationID string  `json:"accommodationId,omitempty"`
}

// NewBooking is the create-booking body.
type NewBooking struct {
	CheckIn           string `json:"checkIn"`
	CheckOut          string `json:"checkOut"`
	GuestCount        int    `json:"guest_number"`
	AccommodationCode string `json:"accommodationCode"`
}

// BookingFilter narrows a booking list. Empty fields are not sent.
type BookingFilter struct {
	State      string
	CheckIn    string
	CheckOut   string
	GuestCount int
}

// Comment is a review on an accommodation.
type Comment struct {
	ID        string `json:"id"`
	Comment   string `json:"comment"`
	Rating    int    `json:"rating"`
	UserName  string `json:"userName,omitempty"`
	Reply     string `json:"reply,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// NewComment is the create-comment body. The accommodation is part of the path.
type NewComment struct {
	Comment   string `json:"comment"`
	Rating    int    `json:"rating"`
	BookingID string `json:"bookingId"`
}

// Stats summarises an accommodation's bookings and reviews over a period.
type Stats struct {
	TotalBookings int     `json:"totalBookings"`
	AverageRating float64 `json:"averageRating"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// StatsPeriod bounds a stats query. Both are RFC 3339 or both empty.
type StatsPeriod struct {
	StartDate string
	EndDate   string
}

// Credentials is the login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewUser is the registration body.
type NewUser struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birthDate"`
	Password  string `json:"password"`
	PhotoURL  string `json:"photoUrl,omitempty"`
	City      string `json:"city"`
	Role      string `json:"role"`
}

// Profile is the editable part of the current user.
type Profile struct {
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	PhotoURL  string `json:"photoUrl,omitempty"`
	BirthDate string `json:"birthDate"`
}

// PasswordChange is the change-password body.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// PasswordReset is the reset-password body of the forgot-password flow.
type PasswordReset struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}
