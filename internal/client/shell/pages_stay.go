package shell

import (
	"context"
	"errors"
	"strings"

	"github.com/atinyakov/GophStay/internal/client/api"
	"github.com/atinyakov/GophStay/internal/client/form"
	"github.com/atinyakov/GophStay/internal/client/workflow"
	"github.com/atinyakov/GophStay/internal/models"
)

type searchPage struct {
	env   *Env
	query *workflow.Query[models.SearchFilter, models.Listing]
	pager *pager[models.Listing]
}

func newSearchPage(env *Env) Factory {
	return func(context.Context, Params) (Page, error) {
		q := workflow.NewQuery(env.API.Places.Search)
		return &searchPage{
			env:   env,
			query: q,
			pager: &pager[models.Listing]{list: q.Lister, p: env.Prompt, render: printListing, empty: "No accommodations match."},
		}, nil
	}
}

func (s *searchPage) Enter(ctx context.Context) error { return s.filter(ctx) }

func (s *searchPage) filter(ctx context.Context) error {
	p := s.env.Prompt
	var f form.SearchForm
	var err error
	if f.City, err = p.Ask("City: "); err != nil {
		return err
	}
	if f.CheckIn, err = p.Ask("Check-in (YYYY-MM-DD): "); err != nil {
		return err
	}
	if f.CheckOut, err = p.Ask("Check-out (YYYY-MM-DD): "); err != nil {
		return err
	}
	if f.Guests, err = p.AskInt("Guests: "); err != nil {
		return err
	}
	if f.MinPrice, err = p.Ask("Min price: "); err != nil {
		return err
	}
	if f.MaxPrice, err = p.Ask("Max price: "); err != nil {
		return err
	}
	if f.Amenities, err = p.AskList("Amenities (comma separated): "); err != nil {
		return err
	}

	filter, errs := f.Normalize()
	if !errs.Empty() {
		p.Println("Some filters were ignored:")
		p.FormErrors(errs)
	}
	return s.pager.load(ctx, func(ctx context.Context) error { return s.query.Apply(ctx, filter) })
}

func (s *searchPage) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	if ok, err := s.pager.handle(ctx, cmd, args); ok {
		return true, err
	}
	switch cmd {
	case "filter":
		return true, s.filter(ctx)
	case "fav", "unfav":
		id, ok := needArg(s.env.Prompt, args, cmd+" <id>")
		if !ok {
			return true, nil
		}
		return true, favorite(ctx, s.env, cmd == "fav", id, nil)
	}
	return false, nil
}

func (s *searchPage) Help() []string {
	return append(pagerHelp,
		"filter            change the search",
		"fav <id>          save an accommodation",
		"unfav <id>        unsave an accommodation",
		"go /place/<id>    open an accommodation")
}

// favorite adds or removes id; favorites need a session.
func favorite(ctx context.Context, env *Env, add bool, id string, refresh workflow.Refresher) error {
	if !env.Session.IsLogged() {
		return Redirect{To: "/login"}
	}
	a := workflow.RemoveFavorite(env.API.Favorites, id, refresh)
	if add {
		a = workflow.AddFavorite(env.API.Favorites, id, refresh)
	}
	return actionResult(env.Prompt, env.Runner.Run(ctx, a))
}

type placePage struct {
	env      *Env
	id       string
	comments *workflow.Feed[models.Comment]
	shown    int
}

func newPlacePage(env *Env) Factory {
	return func(_ context.Context, params Params) (Page, error) {
		id := params["id"]
		return &placePage{
			env: env,
			id:  id,
			comments: workflow.NewFeed(func(ctx context.Context, page int) (api.Page[models.Comment], error) {
				return env.API.Comments.List(ctx, id, page)
			}),
		}, nil
	}
}

func (pp *placePage) Enter(ctx context.Context) error {
	p := pp.env.Prompt
	d, err := pp.env.API.Places.Get(ctx, pp.id)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return nil
		case errors.Is(err, api.ErrUnauthorized):
			return err
		}
		p.Failure(api.Message(err, "Could not load the accommodation"))
		return nil
	}
	p.Printf("%s  (%s, %s)\n", d.Title, d.AccommodationType, d.City)
	p.Printf("$%.2f per night, up to %d guests, rated %.1f\n", d.Price, d.Capacity, d.Rating)
	if d.Description != "" {
		p.Println(d.Description)
	}
	if len(d.Amenities) > 0 {
		p.Println("Amenities: " + strings.Join(d.Amenities, ", "))
	}
	if d.Latitude != 0 || d.Longitude != 0 {
		p.Printf("Location: %.5f, %.5f\n", d.Latitude, d.Longitude)
	}
	p.Println("Reviews:")
	return pp.more(ctx)
}

func (pp *placePage) more(ctx context.Context) error {
	p := pp.env.Prompt
	err := pp.comments.LoadMore(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		return nil
	case errors.Is(err, workflow.ErrBusy):
		p.Println("Still loading, try again.")
		return nil
	case errors.Is(err, api.ErrUnauthorized):
		return err
	case err != nil:
		p.Failure(api.Message(err, "Could not load reviews"))
		return nil
	}
	items := pp.comments.Items()
	for _, c := range items[pp.shown:] {
		printComment(p, c)
	}
	if len(items) == 0 {
		p.Println("  no reviews yet")
	}
	pp.shown = len(items)
	if pp.comments.HasMore() {
		p.Println("Type 'more' for more reviews.")
	}
	return nil
}

func (pp *placePage) Handle(ctx context.Context, cmd string, _ []string) (bool, error) {
	switch cmd {
	case "more":
		if !pp.comments.HasMore() {
			pp.env.Prompt.Println("No more reviews.")
			return true, nil
		}
		return true, pp.more(ctx)
	case "fav", "unfav":
		return true, favorite(ctx, pp.env, cmd == "fav", pp.id, nil)
	case "book":
		return true, Redirect{To: "/create-booking/" + pp.id}
	case "review":
		return true, Redirect{To: "/create-review/" + pp.id}
	}
	return false, nil
}

func (pp *placePage) Help() []string {
	return []string{
		"more              load more reviews",
		"fav | unfav       save or unsave this accommodation",
		"book              book this accommodation",
		"review            review this accommodation",
	}
}

// bookingList backs both the guest and the host booking screens.
type bookingList struct {
	env   *Env
	query *workflow.Query[models.BookingFilter, models.Booking]
	pager *pager[models.Booking]
	guest bool
}

func newBookingList(env *Env, guest bool, fetch func(context.Context, models.BookingFilter, int) (api.Page[models.Booking], error)) *bookingList {
	q := workflow.NewQuery(fetch)
	return &bookingList{
		env:   env,
		query: q,
		pager: &pager[models.Booking]{list: q.Lister, p: env.Prompt, render: printBooking, empty: "No bookings."},
		guest: guest,
	}
}

func newBookingsPage(env *Env) Factory {
	return func(context.Context, Params) (Page, error) {
		return newBookingList(env, true, env.API.Bookings.Mine), nil
	}
}

func newPlaceBookingsPage(env *Env) Factory {
	return func(_ context.Context, params Params) (Page, error) {
		id := params["id"]
		return newBookingList(env, false, func(ctx context.Context, f models.BookingFilter, page int) (api.Page[models.Booking], error) {
			return env.API.Bookings.ForPlace(ctx, id, f, page)
		}), nil
	}
}

func (b *bookingList) Enter(ctx context.Context) error {
	return b.pager.load(ctx, func(ctx context.Context) error {
		return b.query.Apply(ctx, models.BookingFilter{})
	})
}

func (b *bookingList) filter(ctx context.Context) error {
	p := b.env.Prompt
	var f form.BookingFilterForm
	var err error
	if f.State, err = p.Ask("State (" + strings.Join(models.BookingStates, "/") + ", empty for all): "); err != nil {
		return err
	}
	f.State = strings.ToUpper(f.State)
	if f.CheckIn, err = p.Ask("Check-in from (YYYY-MM-DD): "); err != nil {
		return err
	}
	if f.CheckOut, err = p.Ask("Check-out until (YYYY-MM-DD): "); err != nil {
		return err
	}
	if f.Guests, err = p.AskInt("Guests: "); err != nil {
		return err
	}
	filter, errs := f.Normalize()
	if !errs.Empty() {
		p.Println("Some filters were ignored:")
		p.FormErrors(errs)
	}
	return b.pager.load(ctx, func(ctx context.Context) error { return b.query.Apply(ctx, filter) })
}

func (b *bookingList) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	if ok, err := b.pager.handle(ctx, cmd, args); ok {
		return true, err
	}
	switch cmd {
	case "filter":
		return true, b.filter(ctx)
	case "cancel":
		if !b.guest {
			return false, nil
		}
		id, ok := needArg(b.env.Prompt, args, "cancel <booking id>")
		if !ok {
			return true, nil
		}
		refresh := func(ctx context.Context) error {
			err := b.query.Reload(ctx)
			b.pager.show()
			return err
		}
		return true, actionResult(b.env.Prompt, b.env.Runner.Run(ctx, workflow.CancelBooking(b.env.API.Bookings, id, refresh)))
	}
	return false, nil
}

func (b *bookingList) Help() []string {
	h := append(pagerHelp, "filter            filter by state, dates and guests")
	if b.guest {
		h = append(h, "cancel <id>       cancel a booking", "go /create-review/<place id>  review a stay")
	}
	return h
}

type favoritesPage struct {
	env   *Env
	list  *workflow.Lister[models.Listing]
	pager *pager[models.Listing]
}

func newFavoritesPage(env *Env) Factory {
	return func(context.Context, Params) (Page, error) {
		l := workflow.NewLister(env.API.Favorites.List)
		return &favoritesPage{
			env:   env,
			list:  l,
			pager: &pager[models.Listing]{list: l, p: env.Prompt, render: printListing, empty: "No favorites yet."},
		}, nil
	}
}

func (f *favoritesPage) Enter(ctx context.Context) error {
	return f.pager.load(ctx, func(ctx context.Context) error { return f.list.Go(ctx, 0) })
}

func (f *favoritesPage) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	if ok, err := f.pager.handle(ctx, cmd, args); ok {
		return true, err
	}
	if cmd != "unfav" {
		return false, nil
	}
	id, ok := needArg(f.env.Prompt, args, "unfav <id>")
	if !ok {
		return true, nil
	}
	refresh := func(ctx context.Context) error {
		err := f.list.Reload(ctx)
		f.pager.show()
		return err
	}
	return true, favorite(ctx, f.env, false, id, refresh)
}

func (f *favoritesPage) Help() []string {
	return append(pagerHelp, "unfav <id>        remove from favorites")
}

func newCreateBookingPage(env *Env) Factory {
	return func(_ context.Context, params Params) (Page, error) {
		id := params["id"]
		return &formPage{submit: func(ctx context.Context) error {
			p := env.Prompt
			f := form.BookingForm{AccommodationID: id}
			if d, err := env.API.Places.Get(ctx, id); err == nil {
				f.Capacity = d.Capacity
				p.Printf("Booking %s (up to %d guests)\n", d.Title, d.Capacity)
			} else if errors.Is(err, api.ErrUnauthorized) {
				return err
			}
			var err error
			if f.CheckIn, err = p.Ask("Check-in (YYYY-MM-DD): "); err != nil {
				return err
			}
			if f.CheckOut, err = p.Ask("Check-out (YYYY-MM-DD): "); err != nil {
				return err
			}
			if f.Guests, err = p.AskInt("Guests: "); err != nil {
				return err
			}

			err = env.Runner.Run(ctx, workflow.CreateBooking(env.API.Bookings, f, env.Now(), nil))
			if err == nil {
				return Redirect{To: "/bookings"}
			}
			return actionResult(p, err)
		}}, nil
	}
}

func newCreateReviewPage(env *Env) Factory {
	return func(_ context.Context, params Params) (Page, error) {
		id := params["id"]
		return &formPage{submit: func(ctx context.Context) error {
			p := env.Prompt
			var f form.CommentForm
			var err error
			if f.BookingID, err = p.Ask("Booking id: "); err != nil {
				return err
			}
			if f.Rating, err = p.AskInt("Rating (1-5): "); err != nil {
				return err
			}
			if f.Comment, err = p.Ask("Comment: "); err != nil {
				return err
			}
			err = env.Runner.Run(ctx, workflow.CreateComment(env.API.Comments, id, f, nil))
			if err == nil {
				return Redirect{To: "/place/" + id}
			}
			return actionResult(p, err)
		}}, nil
	}
}
