package shell

import (
	"context"
	"errors"

	"github.com/atinyakov/GophStay/internal/client/api"
	"github.com/atinyakov/GophStay/internal/client/form"
	"github.com/atinyakov/GophStay/internal/models"
)

type homePage struct{ env *Env }

func newHomePage(env *Env) Factory {
	return func(context.Context, Params) (Page, error) { return &homePage{env: env}, nil }
}

func (h *homePage) Enter(context.Context) error {
	p := h.env.Prompt
	if !h.env.Session.IsLogged() {
		p.Println("Welcome to GophStay. Try: go /search, go /login, go /register")
		return nil
	}
	c := h.env.Session.Claims()
	p.Printf("Welcome back, %s.\n", displayName(c.Name, c.Email))
	p.Println("Try: go /search, go /bookings, go /favorites, go /profile")
	if c.Role == models.RoleHost {
		p.Println("Hosting: go /my-places, go /create-place")
	}
	return nil
}

func (h *homePage) Handle(context.Context, string, []string) (bool, error) { return false, nil }
func (h *homePage) Help() []string                                         { return nil }

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	if email != "" {
		return email
	}
	return "guest"
}

type messagePage struct {
	env *Env
	msg string
}

func newMessagePage(env *Env, msg string) Factory {
	return func(context.Context, Params) (Page, error) { return &messagePage{env: env, msg: msg}, nil }
}

func (m *messagePage) Enter(context.Context) error {
	m.env.Prompt.Println(m.msg)
	return nil
}

func (m *messagePage) Handle(context.Context, string, []string) (bool, error) { return false, nil }
func (m *messagePage) Help() []string                                         { return nil }

// logout clears the session and goes home; it never builds a screen.
func logout(env *Env) Factory {
	return func(context.Context, Params) (Page, error) {
		if err := env.Session.Logout(); err != nil {
			return nil, err
		}
		env.Prompt.Success("Logged out")
		return nil, Redirect{To: "/"}
	}
}

func newLoginPage(env *Env) Factory {
	return func(context.Context, Params) (Page, error) {
		return &formPage{submit: func(ctx context.Context) error {
			p := env.Prompt
			var f form.LoginForm
			var err error
			if f.Email, err = p.Ask("Email: "); err != nil {
				return err
			}
			if f.Password, err = p.Ask("Password: "); err != nil {
				return err
			}
			if err := f.Validate(); invalid(p, err) {
				return nil
			}

			token, err := env.API.Auth.Login(ctx, f.Credentials())
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				p.Failure(api.Message(err, "Invalid email or password"))
				return nil
			}
			if err := env.Session.Login(token); err != nil {
				return err
			}
			c := env.Session.Claims()
			p.Success("Welcome, " + displayName(c.Name, c.Email))
			return Redirect{To: "/"}
		}}, nil
	}
}

func newRegisterPage(env *Env) Factory {
	return func(context.Context, Params) (Page, error) {
		return &formPage{submit: func(ctx context.Context) error {
			p := env.Prompt
			var f form.RegisterForm
			answers := []struct {
				label string
				dst   *string
			}{
				{"Name: ", &f.Name},
				{"Email: ", &f.Email},
				{"Phone: ", &f.Phone},
				{"Birth date (YYYY-MM-DD): ", &f.BirthDate},
				{"City: ", &f.City},
				{"Role (USER/HOST): ", &f.Role},
				{"Password: ", &f.Password},
				{"Confirm password: ", &f.ConfirmPassword},
			}
			for _, a := range answers {
				v, err := p.Ask(a.label)
				if err != nil {
					return err
				}
				*a.dst = v
			}
			if err := f.Validate(env.Now()); invalid(p, err) {
				return nil
			}
			msg, err := env.API.Auth.Register(ctx, f.User())
			if err != nil {
				p.Failure(api.Message(err, "Could not create the account"))
				return nil
			}
			p.Success(orDefault(msg, "Account created, you can log in now"))
			return Redirect{To: "/login"}
		}}, nil
	}
}

func newForgotPasswordPage(env *Env) Factory {
	return func(context.Context, Params) (Page, error) {
		return &formPage{submit: func(ctx context.Context) error {
			p := env.Prompt
			email, err := p.Ask("Email: ")
			if err != nil {
				return err
			}
			msg, err := env.API.Auth.ForgotPassword(ctx, email)
			if err != nil {
				p.Failure(api.Message(err, "Could not send the reset code"))
				return nil
			}
			p.Success(orDefault(msg, "A reset code was sent to "+email))

			f := form.ResetPasswordForm{Email: email}
			if f.Code, err = p.Ask("Code: "); err != nil {
				return err
			}
			if f.NewPassword, err = p.Ask("New password: "); err != nil {
				return err
			}
			if f.ConfirmPassword, err = p.Ask("Confirm new password: "); err != nil {
				return err
			}
			if err := f.Validate(); invalid(p, err) {
				return nil
			}
			msg, err = env.API.Auth.ResetPassword(ctx, f.Payload())
			if err != nil {
				p.Failure(api.Message(err, "Could not reset the password"))
				return nil
			}
			p.Success(orDefault(msg, "Password changed"))
			return Redirect{To: "/login"}
		}}, nil
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

type profilePage struct{ env *Env }

func newProfilePage(env *Env) Factory {
	return func(context.Context, Params) (Page, error) { return &profilePage{env: env}, nil }
}

func (pp *profilePage) Enter(context.Context) error {
	c := pp.env.Session.Claims()
	p := pp.env.Prompt
	p.Printf("Name:  %s\nEmail: %s\nRole:  %s\n", c.Name, c.Email, c.Role)
	p.Println("Type 'edit' to change your profile, or go /change-password.")
	return nil
}

func (pp *profilePage) Handle(ctx context.Context, cmd string, _ []string) (bool, error) {
	if cmd != "edit" {
		return false, nil
	}
	p := pp.env.Prompt
	f := form.ProfileForm{Name: pp.env.Session.Claims().Name}
	var err error
	if f.Name, err = p.AskDefault("Name: ", f.Name); err != nil {
		return true, err
	}
	if f.Phone, err = p.Ask("Phone: "); err != nil {
		return true, err
	}
	if f.PhotoURL, err = p.Ask("Photo URL: "); err != nil {
		return true, err
	}
	if f.BirthDate, err = p.Ask("Birth date (YYYY-MM-DD): "); err != nil {
		return true, err
	}
	if err := f.Validate(pp.env.Now()); invalid(p, err) {
		return true, nil
	}
	msg, err := pp.env.API.Users.UpdateProfile(ctx, f.Payload())
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return true, err
		}
		p.Failure(api.Message(err, "Could not update the profile"))
		return true, nil
	}
	p.Success(orDefault(msg, "Profile updated"))
	return true, nil
}

func (pp *profilePage) Help() []string {
	return []string{"edit              change name, phone, photo and birth date"}
}

func newChangePasswordPage(env *Env) Factory {
	return func(context.Context, Params) (Page, error) {
		return &formPage{submit: func(ctx context.Context) error {
			p := env.Prompt
			var f form.ChangePasswordForm
			var err error
			if f.CurrentPassword, err = p.Ask("Current password: "); err != nil {
				return err
			}
			if f.NewPassword, err = p.Ask("New password: "); err != nil {
				return err
			}
			if f.ConfirmPassword, err = p.Ask("Confirm new password: "); err != nil {
				return err
			}
			if err := f.Validate(); invalid(p, err) {
				return nil
			}
			msg, err := env.API.Users.ChangePassword(ctx, f.Payload())
			if err != nil {
				if errors.Is(err, api.ErrUnauthorized) {
					return err
				}
				p.Failure(api.Message(err, "Could not change the password"))
				return nil
			}
			p.Success(orDefault(msg, "Password changed"))
			return Redirect{To: "/profile"}
		}}, nil
	}
}
