package form

import (
	"time"

	"github.com/atinyakov/GophStay/internal/models"
)

// LoginForm is the login input.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the field rules.
func (f LoginForm) Validate() error {
	var errs Errors
	checkFields(f, &errs)
	return errs.Err()
}

// Credentials returns the request body.
func (f LoginForm) Credentials() models.Credentials {
	return models.Credentials{Email: f.Email, Password: f.Password}
}

// RegisterForm is the sign-up input.
type RegisterForm struct {
	Name            string `json:"name" validate:"required,min=2,max=60"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,numeric,min=7,max=15"`
	BirthDate       string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	City            string `json:"city" validate:"required"`
	Role            string `json:"role" validate:"required,oneof=USER HOST"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	PhotoURL        string `json:"photoUrl" validate:"omitempty,url"`
}

// Validate checks the field rules, the password pair and that the birth date
// lies in the past.
func (f RegisterForm) Validate(now time.Time) error {
	var errs Errors
	checkFields(f, &errs)
	checkConfirm(f.Password, f.ConfirmPassword, "confirmPassword", &errs)
	checkPast(f.BirthDate, "birthDate", now, &errs)
	return errs.Err()
}

// User returns the request body.
func (f RegisterForm) User() models.NewUser {
	return models.NewUser{
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		BirthDate: f.BirthDate,
		Password:  f.Password,
		PhotoURL:  f.PhotoURL,
		City:      f.City,
		Role:      f.Role,
	}
}

// ChangePasswordForm changes the logged-in user's password.
type ChangePasswordForm struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

func (f ChangePasswordForm) Validate() error {
	var errs Errors
	checkFields(f, &errs)
	checkConfirm(f.NewPassword, f.ConfirmPassword, "confirmPassword", &errs)
	return errs.Err()
}

func (f ChangePasswordForm) Payload() models.PasswordChange {
	return models.PasswordChange{CurrentPassword: f.CurrentPassword, NewPassword: f.NewPassword}
}

// ResetPasswordForm completes the forgot-password flow with the mailed code.
type ResetPasswordForm struct {
	Email           string `json:"email" validate:"required,email"`
	Code            string `json:"code" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

func (f ResetPasswordForm) Validate() error {
	var errs Errors
	checkFields(f, &errs)
	checkConfirm(f.NewPassword, f.ConfirmPassword, "confirmPassword", &errs)
	return errs.Err()
}

func (f ResetPasswordForm) Payload() models.PasswordReset {
	return models.PasswordReset{Email: f.Email, Code: f.Code, NewPassword: f.NewPassword}
}

// ProfileForm edits the current user.
type ProfileForm struct {
	Name      string `json:"name" validate:"required,min=2,max=60"`
	Phone     string `json:"phone" validate:"omitempty,numeric,min=7,max=15"`
	PhotoURL  string `json:"photoUrl" validate:"omitempty,url"`
	BirthDate string `json:"birthDate" validate:"required,datetime=2006-01-02"`
}

// Validate checks the field rules and that the birth date lies in the past.
func (f ProfileForm) Validate(now time.Time) error {
	var errs Errors
	checkFields(f, &errs)
	checkPast(f.BirthDate, "birthDate", now, &errs)
	return errs.Err()
}

func (f ProfileForm) Payload() models.Profile {
	return models.Profile{Name: f.Name, Phone: f.Phone, PhotoURL: f.PhotoURL, BirthDate: f.BirthDate}
}
