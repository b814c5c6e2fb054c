package shell

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/GophStay/internal/client/api"
)

const globalHelp = `Commands:
  go <path>         open a screen, e.g. go /search or go /place/42
  back              return to the previous screen
  whoami            show the logged-in user
  help              list commands
  exit              quit`

// Shell is the read-eval-print loop over a Navigator.
type Shell struct {
	env *Env
	nav *Navigator
}

// New builds a Shell with the standard routes. Screen contexts derive from ctx.
func New(ctx context.Context, env *Env) *Shell {
	return &Shell{env: env, nav: NewNavigator(ctx, env.Session, Routes(env), env.Log)}
}

// Navigator exposes the shell's navigator.
func (s *Shell) Navigator() *Navigator { return s.nav }

// Run opens start and then executes commands until exit, end of input or ctx
// is done.
func (s *Shell) Run(ctx context.Context, start string) error {
	p := s.env.Prompt
	if err := s.report(s.nav.Navigate(start)); err != nil {
		return err
	}
	for ctx.Err() == nil {
		line, err := p.Ask("gophstay" + s.nav.Path() + "> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		var cmdErr error
		switch args[0] {
		case "exit", "quit":
			p.Println("Bye")
			return nil
		case "help":
			s.help()
		case "whoami":
			s.whoami()
		case "back":
			cmdErr = s.nav.Back()
		case "go":
			if len(args) < 2 {
				p.Println("Usage: go <path>")
				continue
			}
			cmdErr = s.nav.Navigate(args[1])
		default:
			cmdErr = s.dispatch(args[0], args[1:])
		}
		if err := s.report(cmdErr); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (s *Shell) dispatch(cmd string, args []string) error {
	page := s.nav.Page()
	if page == nil {
		s.env.Prompt.Println("Unknown command. Type 'help' for a list of commands.")
		return nil
	}
	ok, err := page.Handle(s.nav.pageContext(), cmd, args)
	if !ok {
		s.env.Prompt.Println("Unknown command. Type 'help' for a list of commands.")
		return nil
	}
	var redirect Redirect
	if errors.As(err, &redirect) {
		return s.nav.Navigate(redirect.To)
	}
	return err
}

// report handles an error from a screen. It returns only errors that end the
// loop.
func (s *Shell) report(err error) error {
	p := s.env.Prompt
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return nil
	case errors.Is(err, api.ErrUnauthorized):
		p.Failure("Your session has expired, please log in again.")
		if err := s.env.Session.Logout(); err != nil {
			s.env.Log.Warn("clear rejected session", zap.Error(err))
		}
		return s.report(s.nav.Navigate("/login"))
	case errors.Is(err, context.Canceled):
		return nil
	}
	s.env.Log.Warn("command failed", zap.Error(err))
	p.Failure(api.Message(err, err.Error()))
	return nil
}

func (s *Shell) help() {
	p := s.env.Prompt
	p.Println(globalHelp)
	if page := s.nav.Page(); page != nil {
		if h := page.Help(); len(h) > 0 {
			p.Println("On this screen:")
			for _, line := range h {
				p.Println("  " + line)
			}
		}
	}
}

func (s *Shell) whoami() {
	p := s.env.Prompt
	if !s.env.Session.IsLogged() {
		p.Println("Not logged in.")
		return
	}
	c := s.env.Session.Claims()
	p.Printf("%s <%s> id=%s role=%s expires=%s\n",
		displayName(c.Name, c.Email), c.Email, c.UserID, c.Role, c.ExpiresAt.Local().Format("2006-01-02 15:04"))
}
