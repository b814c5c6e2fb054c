package form

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/atinyakov/GophStay/internal/models"
)

// DateLayout is how dates are typed in.
const DateLayout = "2006-01-02"

var (
	postalCodeRe = regexp.MustCompile(`^[0-9]{5}$`)
	priceRe      = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "postalcode", func(fl validator.FieldLevel) bool {
		return postalCodeRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "price", func(fl validator.FieldLevel) bool {
		return priceRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "amenity", func(fl validator.FieldLevel) bool {
		return contains(models.Amenities, fl.Field().String())
	})
	mustRegister(v, "accommodationtype", func(fl validator.FieldLevel) bool {
		return contains(models.AccommodationTypes, fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// checkFields runs the struct tag rules on form and records failures by field.
func checkFields(form any, errs *Errors) {
	err := validate.Struct(form)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.addGroup(err.Error())
		return
	}
	for _, fe := range verrs {
		errs.addField(fieldName(fe), fe.Tag())
	}
}

// fieldName drops the struct prefix and any slice index, so every element of
// a list reports under the list's name.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

// ParseDate accepts a plain date or a full timestamp.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{DateLayout, "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// DateRange accepts both ends empty, or both set with checkIn strictly before
// checkOut.
func DateRange(checkIn, checkOut string) error {
	switch {
	case checkIn == "" && checkOut == "":
		return nil
	case checkIn == "" || checkOut == "":
		return ErrRangeIncomplete
	}
	in, err := ParseDate(checkIn)
	if err != nil {
		return err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return err
	}
	if !in.Before(out) {
		return ErrRangeOrder
	}
	return nil
}

// PriceRange accepts both bounds or neither.
func PriceRange(minPrice, maxPrice *float64) error {
	if (minPrice == nil) != (maxPrice == nil) {
		return ErrRangeIncomplete
	}
	return nil
}

// PasswordMatch requires confirm to equal password exactly.
func PasswordMatch(password, confirm string) error {
	if password != confirm {
		return ErrMismatch
	}
	return nil
}

// checkDates runs DateRange and records the outcome as a group code.
func checkDates(checkIn, checkOut string, errs *Errors) bool {
	switch err := DateRange(checkIn, checkOut); err {
	case nil:
		return true
	case ErrRangeIncomplete:
		errs.addGroup(CodeDateRangeIncomplete)
	case ErrRangeOrder:
		errs.addGroup(CodeInvalidDateRange)
	default:
		errs.addGroup(CodeInvalidDate)
	}
	return false
}

// checkConfirm records a mismatch on the confirmation field.
func checkConfirm(password, confirm, confirmField string, errs *Errors) {
	if PasswordMatch(password, confirm) != nil {
		errs.addField(confirmField, CodeMismatch)
	}
}

// checkPast requires date, when parseable, to be strictly before today.
func checkPast(date, field string, now time.Time, errs *Errors) {
	t, err := ParseDate(date)
	if err != nil {
		return
	}
	if !t.Before(startOfDay(now)) {
		errs.addField(field, CodeNotPast)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
