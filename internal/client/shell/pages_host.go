package shell

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/atinyakov/GophStay/internal/client/api"
	"github.com/atinyakov/GophStay/internal/client/form"
	"github.com/atinyakov/GophStay/internal/client/workflow"
	"github.com/atinyakov/GophStay/internal/models"
)

type myPlacesPage struct {
	env   *Env
	list  *workflow.Lister[models.Listing]
	pager *pager[models.Listing]
}

func newMyPlacesPage(env *Env) Factory {
	return func(context.Context, Params) (Page, error) {
		l := workflow.NewLister(env.API.Places.Mine)
		return &myPlacesPage{
			env:   env,
			list:  l,
			pager: &pager[models.Listing]{list: l, p: env.Prompt, render: printListing, empty: "You have no accommodations yet. Try go /create-place."},
		}, nil
	}
}

func (m *myPlacesPage) Enter(ctx context.Context) error {
	return m.pager.load(ctx, func(ctx context.Context) error { return m.list.Go(ctx, 0) })
}

func (m *myPlacesPage) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	if ok, err := m.pager.handle(ctx, cmd, args); ok {
		return true, err
	}
	switch cmd {
	case "delete":
		id, ok := needArg(m.env.Prompt, args, "delete <id>")
		if !ok {
			return true, nil
		}
		refresh := func(ctx context.Context) error {
			err := m.list.Reload(ctx)
			m.pager.show()
			return err
		}
		return true, actionResult(m.env.Prompt, m.env.Runner.Run(ctx, workflow.DeletePlace(m.env.API.Places, id, refresh)))
	case "edit", "stats", "bookings":
		id, ok := needArg(m.env.Prompt, args, cmd+" <id>")
		if !ok {
			return true, nil
		}
		to := map[string]string{
			"edit":     "/update-place/",
			"stats":    "/place-stats/",
			"bookings": "/accommodation-bookings/",
		}[cmd]
		return true, Redirect{To: to + id}
	}
	return false, nil
}

func (m *myPlacesPage) Help() []string {
	return append(pagerHelp,
		"delete <id>       delete an accommodation",
		"edit <id>         edit an accommodation",
		"stats <id>        show booking statistics",
		"bookings <id>     list an accommodation's bookings")
}

func newCreatePlacePage(env *Env) Factory {
	return func(context.Context, Params) (Page, error) {
		return &formPage{submit: func(ctx context.Context) error {
			f, err := askPlace(env.Prompt, form.PlaceForm{})
			if err != nil {
				return err
			}
			err = env.Runner.Run(ctx, workflow.CreatePlace(env.API.Places, env.API.Images, env.Open, f, nil))
			if err == nil {
				return Redirect{To: "/my-places"}
			}
			return actionResult(env.Prompt, err)
		}}, nil
	}
}

func newUpdatePlacePage(env *Env) Factory {
	return func(_ context.Context, params Params) (Page, error) {
		id := params["id"]
		return &formPage{submit: func(ctx context.Context) error {
			d, err := env.API.Places.Get(ctx, id)
			if err != nil {
				if errors.Is(err, api.ErrUnauthorized) {
					return err
				}
				env.Prompt.Failure(api.Message(err, "Could not load the accommodation"))
				return nil
			}
			f, err := askPlace(env.Prompt, placeFormFrom(d))
			if err != nil {
				return err
			}
			err = env.Runner.Run(ctx, workflow.UpdatePlace(env.API.Places, env.API.Images, env.Open, id, f, nil))
			if err == nil {
				return Redirect{To: "/my-places"}
			}
			return actionResult(env.Prompt, err)
		}}, nil
	}
}

func placeFormFrom(d models.AccommodationDetail) form.PlaceForm {
	return form.PlaceForm{
		Title:             d.Title,
		Description:       d.Description,
		Price:             strconv.FormatFloat(d.Price, 'f', -1, 64),
		AccommodationType: d.AccommodationType,
		Capacity:          d.Capacity,
		City:              d.City,
		Amenities:         d.Amenities,
		Latitude:          d.Latitude,
		Longitude:         d.Longitude,
		Kept:              d.Images,
	}
}

// askPlace fills a PlaceForm, offering cur's values as defaults.
func askPlace(p *Prompter, cur form.PlaceForm) (form.PlaceForm, error) {
	f := cur
	text := []struct {
		label string
		dst   *string
	}{
		{"Title: ", &f.Title},
		{"Description: ", &f.Description},
		{"Price per night: ", &f.Price},
		{"Type (" + strings.Join(models.AccommodationTypes, "/") + "): ", &f.AccommodationType},
		{"Country: ", &f.Country},
		{"Department: ", &f.Department},
		{"City: ", &f.City},
		{"Neighborhood: ", &f.Neighborhood},
		{"Street: ", &f.Street},
		{"Postal code: ", &f.PostalCode},
	}
	for _, t := range text {
		v, err := p.AskDefault(t.label, *t.dst)
		if err != nil {
			return f, err
		}
		*t.dst = v
	}
	f.AccommodationType = strings.ToUpper(f.AccommodationType)

	capacity, err := p.AskDefault("Capacity: ", itoaNonZero(cur.Capacity))
	if err != nil {
		return f, err
	}
	f.Capacity, _ = strconv.Atoi(capacity)

	amenities, err := p.AskList("Amenities (" + strings.Join(models.Amenities, ",") + "): ")
	if err != nil {
		return f, err
	}
	if len(amenities) > 0 {
		f.Amenities = amenities
	}
	for i, a := range f.Amenities {
		f.Amenities[i] = strings.ToUpper(a)
	}

	coords, err := p.Ask("Latitude,Longitude (optional): ")
	if err != nil {
		return f, err
	}
	if lat, lng, ok := strings.Cut(coords, ","); ok {
		f.Latitude, _ = strconv.ParseFloat(strings.TrimSpace(lat), 64)
		f.Longitude, _ = strconv.ParseFloat(strings.TrimSpace(lng), 64)
	}

	if len(f.Kept) > 0 {
		p.Printf("Current pictures: %s\n", strings.Join(f.Kept, ", "))
	}
	if f.Files, err = p.AskList("Picture files to upload (comma separated): "); err != nil {
		return f, err
	}
	return f, nil
}

func itoaNonZero(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func newPlaceStatsPage(env *Env) Factory {
	return func(_ context.Context, params Params) (Page, error) {
		id := params["id"]
		return &formPage{
			help: []string{"go /accommodation-bookings/" + id + "  list its bookings"},
			submit: func(ctx context.Context) error {
				p := env.Prompt
				var f form.StatsForm
				var err error
				if f.StartDate, err = p.Ask("From (YYYY-MM-DD, empty for all time): "); err != nil {
					return err
				}
				if f.EndDate, err = p.Ask("Until (YYYY-MM-DD): "); err != nil {
					return err
				}
				period, err := f.Period()
				if invalid(p, err) {
					return nil
				}
				st, err := env.API.Places.Stats(ctx, id, period)
				if err != nil {
					if errors.Is(err, api.ErrUnauthorized) {
						return err
					}
					p.Failure(api.Message(err, "Could not load statistics"))
					return nil
				}
				p.Printf("Bookings: %d\nAverage rating: %.2f\nRevenue: $%.2f\n", st.TotalBookings, st.AverageRating, st.TotalRevenue)
				return nil
			},
		}, nil
	}
}
