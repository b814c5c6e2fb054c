package shell

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/GophStay/internal/client/api"
	"github.com/atinyakov/GophStay/internal/client/form"
	"github.com/atinyakov/GophStay/internal/client/session"
	"github.com/atinyakov/GophStay/internal/client/workflow"
	"github.com/atinyakov/GophStay/internal/models"
)

// Env is what every screen is built from.
type Env struct {
	Session session.Session
	API     *api.Client
	Prompt  *Prompter
	Runner  *workflow.Runner
	Open    workflow.Opener
	Now     func() time.Time
	Log     *zap.Logger
}

// NewEnv wires a Runner onto p and fills defaults.
func NewEnv(sess session.Session, client *api.Client, p *Prompter, log *zap.Logger) *Env {
	if log == nil {
		log = zap.NewNop()
	}
	return &Env{
		Session: sess,
		API:     client,
		Prompt:  p,
		Runner:  workflow.NewRunner(p, p, log),
		Open:    workflow.OpenFile,
		Now:     time.Now,
		Log:     log,
	}
}

// formPage is a screen that asks for input on entry and again on "submit".
type formPage struct {
	submit func(ctx context.Context) error
	help   []string
}

func (f *formPage) Enter(ctx context.Context) error { return f.submit(ctx) }

func (f *formPage) Handle(ctx context.Context, cmd string, _ []string) (bool, error) {
	if cmd != "submit" {
		return false, nil
	}
	return true, f.submit(ctx)
}

func (f *formPage) Help() []string {
	return append([]string{"submit            fill in the form again"}, f.help...)
}

// invalid prints form errors and reports whether err was one.
func invalid(p *Prompter, err error) bool {
	var errs form.Errors
	if !errors.As(err, &errs) {
		return false
	}
	p.Println("Please fix the following:")
	p.FormErrors(errs)
	p.Println("Type 'submit' to try again.")
	return true
}

// actionResult turns a Runner error into what a screen returns. Request
// failures were already shown by the Runner.
func actionResult(p *Prompter, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, workflow.ErrDeclined):
		p.Println("Nothing changed.")
		return nil
	case invalid(p, err):
		return nil
	case errors.Is(err, api.ErrUnauthorized), errors.Is(err, io.EOF):
		return err
	}
	return nil
}

// pager renders a Lister and handles the paging commands.
type pager[T any] struct {
	list   *workflow.Lister[T]
	p      *Prompter
	render func(*Prompter, T)
	empty  string
}

var pagerHelp = []string{
	"next | prev       move one page",
	"page <n>          jump to page n",
}

func (pg *pager[T]) show() {
	p := pg.p
	if pg.list.State() == workflow.Failed {
		p.Failure(api.Message(pg.list.Err(), "Could not load results"))
		return
	}
	items := pg.list.Items()
	if len(items) == 0 {
		p.Println(pg.empty)
		return
	}
	for _, it := range items {
		pg.render(p, it)
	}

	current, total := pg.list.Page(), pg.list.TotalPages()
	var b strings.Builder
	for _, n := range workflow.VisiblePages(current, total, 5) {
		if n == current {
			b.WriteString("[" + strconv.Itoa(n+1) + "] ")
		} else {
			b.WriteString(strconv.Itoa(n+1) + " ")
		}
	}
	of := strconv.Itoa(total)
	if pg.list.Estimated() {
		of = "~" + of
	}
	p.Printf("Page %sof %s\n", b.String(), of)
}

func (pg *pager[T]) handle(ctx context.Context, cmd string, args []string) (bool, error) {
	target := pg.list.Page()
	switch cmd {
	case "next":
		target++
	case "prev":
		target--
	case "page":
		if len(args) < 1 {
			pg.p.Println("Usage: page <n>")
			return true, nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			pg.p.Println("Usage: page <n>")
			return true, nil
		}
		target = n - 1
	default:
		return false, nil
	}

	err := pg.list.ChangePage(ctx, target)
	switch {
	case errors.Is(err, workflow.ErrPageOutOfRange):
		pg.p.Println("No such page.")
		return true, nil
	case errors.Is(err, workflow.ErrBusy):
		pg.p.Println("Still loading, try again.")
		return true, nil
	case errors.Is(err, api.ErrUnauthorized):
		return true, err
	}
	pg.show()
	return true, nil
}

// load runs a Lister fetch and shows the outcome.
func (pg *pager[T]) load(ctx context.Context, fetch func(context.Context) error) error {
	err := fetch(ctx)
	if errors.Is(err, api.ErrUnauthorized) {
		return err
	}
	if errors.Is(err, workflow.ErrBusy) {
		pg.p.Println("Still loading, try again.")
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	pg.show()
	return nil
}

func printListing(p *Prompter, l models.Listing) {
	p.Printf("  %-10s %-32s %-14s $%8.2f  %.1f★\n", l.ID, l.Title, l.City, l.Price, l.Rating)
}

func printBooking(p *Prompter, b models.Booking) {
	p.Printf("  %-10s %-10s %s → %s  guests:%d  %s\n",
		b.ID, b.State, b.CheckIn, b.CheckOut, b.GuestCount, b.User.Name)
}

func printComment(p *Prompter, c models.Comment) {
	p.Printf("  %s %s: %s\n", strings.Repeat("★", c.Rating), c.UserName, c.Comment)
	if c.Reply != "" {
		p.Printf("      host: %s\n", c.Reply)
	}
}

func needArg(p *Prompter, args []string, usage string) (string, bool) {
	if len(args) < 1 {
		p.Println("Usage: " + usage)
		return "", false
	}
	return args[0], true
}
