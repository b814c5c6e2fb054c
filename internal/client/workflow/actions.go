package workflow

import (
	"context"
	"time"

	"github.com/atinyakov/GophStay/internal/client/form"
	"github.com/atinyakov/GophStay/internal/models"
)

// Refresher reloads a list; Lister.Reload and Feed.Refresh satisfy it.
type Refresher func(ctx context.Context) error

type BookingAPI interface {
	Create(ctx context.Context, b models.NewBooking) (string, error)
	Cancel(ctx context.Context, id string) (string, error)
}

type FavoriteAPI interface {
	Add(ctx context.Context, id string) (string, error)
	Remove(ctx context.Context, id string) (string, error)
}

type CommentAPI interface {
	Create(ctx context.Context, accommodationID string, c models.NewComment) (string, error)
}

type PlaceAPI interface {
	Create(ctx context.Context, p models.Place) (string, error)
	Update(ctx context.Context, id string, p models.Place) (string, error)
	Delete(ctx context.Context, id string) (string, error)
}

func CreateBooking(b BookingAPI, f form.BookingForm, now time.Time, refresh Refresher) Action {
	return Action{
		Name:     "create booking",
		Validate: func() error { return f.Validate(now) },
		Do: func(ctx context.Context) (string, error) {
			return b.Create(ctx, f.Payload())
		},
		Done:    "Booking created",
		Failed:  "Could not create the booking",
		Refresh: refresh,
	}
}

func CancelBooking(b BookingAPI, id string, refresh Refresher) Action {
	return Action{
		Name:    "cancel booking",
		Confirm: "Cancel this booking?",
		Do: func(ctx context.Context) (string, error) {
			return b.Cancel(ctx, id)
		},
		Done:    "Booking canceled",
		Failed:  "Could not cancel the booking",
		Refresh: refresh,
	}
}

func AddFavorite(fav FavoriteAPI, id string, refresh Refresher) Action {
	return Action{
		Name: "add favorite",
		Do: func(ctx context.Context) (string, error) {
			return fav.Add(ctx, id)
		},
		Done:    "Added to favorites",
		Failed:  "Could not add to favorites",
		Refresh: refresh,
	}
}

func RemoveFavorite(fav FavoriteAPI, id string, refresh Refresher) Action {
	return Action{
		Name:    "remove favorite",
		Confirm: "Remove from favorites?",
		Do: func(ctx context.Context) (string, error) {
			return fav.Remove(ctx, id)
		},
		Done:    "Removed from favorites",
		Failed:  "Could not remove from favorites",
		Refresh: refresh,
	}
}

func CreateComment(c CommentAPI, accommodationID string, f form.CommentForm, refresh Refresher) Action {
	return Action{
		Name:     "create comment",
		Validate: f.Validate,
		Do: func(ctx context.Context) (string, error) {
			return c.Create(ctx, accommodationID, f.Payload())
		},
		Done:    "Review published",
		Failed:  "Could not publish the review",
		Refresh: refresh,
	}
}

func DeletePlace(p PlaceAPI, id string, refresh Refresher) Action {
	return Action{
		Name:    "delete place",
		Confirm: "Delete this accommodation? This cannot be undone.",
		Do: func(ctx context.Context) (string, error) {
			return p.Delete(ctx, id)
		},
		Done:    "Accommodation deleted",
		Failed:  "Could not delete the accommodation",
		Refresh: refresh,
	}
}

// CreatePlace uploads the form's files and, only if every upload succeeded,
// creates the accommodation.
func CreatePlace(p PlaceAPI, up Uploader, open Opener, f form.PlaceForm, refresh Refresher) Action {
	return Action{
		Name:     "create place",
		Validate: f.Validate,
		Do: func(ctx context.Context) (string, error) {
			urls, err := UploadAll(ctx, up, open, f.Files)
			if err != nil {
				return "", err
			}
			return p.Create(ctx, f.Payload(urls))
		},
		Done:    "Accommodation created",
		Failed:  "Could not create the accommodation",
		Refresh: refresh,
	}
}

// UpdatePlace is CreatePlace for an existing accommodation.
func UpdatePlace(p PlaceAPI, up Uploader, open Opener, id string, f form.PlaceForm, refresh Refresher) Action {
	return Action{
		Name:     "update place",
		Validate: f.Validate,
		Do: func(ctx context.Context) (string, error) {
			urls, err := UploadAll(ctx, up, open, f.Files)
			if err != nil {
				return "", err
			}
			return p.Update(ctx, id, f.Payload(urls))
		},
		Done:    "Accommodation updated",
		Failed:  "Could not update the accommodation",
		Refresh: refresh,
	}
}
