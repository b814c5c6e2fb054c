package form

import (
	"strconv"

	"github.com/atinyakov/GophStay/internal/models"
)

// PlaceForm creates or edits an accommodation. Files are local paths still to
// be uploaded; Kept are URLs of pictures already stored.
type PlaceForm struct {
	Title             string   `json:"title" validate:"required,min=3,max=100"`
	Description       string   `json:"description" validate:"required,min=10,max=2000"`
	Price             string   `json:"price" validate:"required,price"`
	AccommodationType string   `json:"accommodationType" validate:"required,accommodationtype"`
	Capacity          int      `json:"capacity" validate:"required,min=1,max=50"`
	Country           string   `json:"country" validate:"required"`
	Department        string   `json:"department" validate:"required"`
	City              string   `json:"city" validate:"required"`
	Neighborhood      string   `json:"neighborhood"`
	Street            string   `json:"street"`
	PostalCode        string   `json:"postalCode" validate:"required,postalcode"`
	Amenities         []string `json:"amenities" validate:"dive,amenity"`
	Latitude          float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude         float64  `json:"longitude" validate:"gte=-180,lte=180"`
	Files             []string `json:"files" validate:"dive,required"`
	Kept              []string `json:"kept" validate:"dive,url"`
}

// picturesField collects the "at least one picture" error.
const picturesField = "files"

// Validate checks the field rules and that the place has at least one picture.
func (f PlaceForm) Validate() error {
	var errs Errors
	checkFields(f, &errs)
	if len(f.Files)+len(f.Kept) == 0 {
		errs.addField(picturesField, "required")
	}
	return errs.Err()
}

// Payload returns the request body with the kept pictures followed by the
// newly uploaded ones.
func (f PlaceForm) Payload(uploaded []string) models.Place {
	price, _ := strconv.ParseFloat(f.Price, 64)
	pics := make([]string, 0, len(f.Kept)+len(uploaded))
	pics = append(pics, f.Kept...)
	pics = append(pics, uploaded...)
	return models.Place{
		Title:             f.Title,
		Description:       f.Description,
		Price:             price,
		PicsURL:           pics,
		AccommodationType: f.AccommodationType,
		Capacity:          f.Capacity,
		Country:           f.Country,
		Department:        f.Department,
		City:              f.City,
		Neighborhood:      f.Neighborhood,
		Street:            f.Street,
		PostalCode:        f.PostalCode,
		Amenities:         append([]string(nil), f.Amenities...),
		Latitude:          f.Latitude,
		Longitude:         f.Longitude,
	}
}
