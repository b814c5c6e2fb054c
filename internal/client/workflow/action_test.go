package workflow

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophStay/internal/client/api"
	"github.com/atinyakov/GophStay/internal/client/form"
	"github.com/atinyakov/GophStay/internal/models"
)

type fakeConfirmer struct {
	answer bool
	asked  []string
}

func (f *fakeConfirmer) Confirm(_ context.Context, q string) (bool, error) {
	f.asked = append(f.asked, q)
	return f.answer, nil
}

type fakeNotifier struct {
	ok, failed []string
}

func (f *fakeNotifier) Success(msg string) { f.ok = append(f.ok, msg) }
func (f *fakeNotifier) Failure(msg string) { f.failed = append(f.failed, msg) }

type fakeBookings struct {
	created  []models.NewBooking
	canceled []string
	err      error
}

func (f *fakeBookings) Create(_ context.Context, b models.NewBooking) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, b)
	return "", nil
}

func (f *fakeBookings) Cancel(_ context.Context, id string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.canceled = append(f.canceled, id)
	return "Reserva cancelada", nil
}

type fakePlaces struct {
	created []models.Place
	updated map[string]models.Place
	deleted []string
}

func (f *fakePlaces) Create(_ context.Context, p models.Place) (string, error) {
	f.created = append(f.created, p)
	return "", nil
}

func (f *fakePlaces) Update(_ context.Context, id string, p models.Place) (string, error) {
	if f.updated == nil {
		f.updated = map[string]models.Place{}
	}
	f.updated[id] = p
	return "", nil
}

func (f *fakePlaces) Delete(_ context.Context, id string) (string, error) {
	f.deleted = append(f.deleted, id)
	return "", nil
}

func newRunner(answer bool) (*Runner, *fakeConfirmer, *fakeNotifier) {
	c := &fakeConfirmer{answer: answer}
	n := &fakeNotifier{}
	return NewRunner(c, n, nil), c, n
}

func countingRefresh(n *int) Refresher {
	return func(context.Context) error {
		*n++
		return nil
	}
}

func TestRun_CreateBooking(t *testing.T) {
	now := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	r, c, n := newRunner(true)
	b := &fakeBookings{}
	refreshed := 0

	f := form.BookingForm{AccommodationID: "a1", CheckIn: "2025-11-10", CheckOut: "2025-11-12", Guests: 2}
	require.NoError(t, r.Run(context.Background(), CreateBooking(b, f, now, countingRefresh(&refreshed))))

	require.Len(t, b.created, 1)
	assert.Equal(t, "2025-11-10T13:00:00", b.created[0].CheckIn)
	assert.Empty(t, c.asked, "creating is not destructive")
	assert.Equal(t, []string{"Booking created"}, n.ok)
	assert.Equal(t, 1, refreshed)
}

func TestRun_InvalidFormNeverRequests(t *testing.T) {
	r, _, n := newRunner(true)
	b := &fakeBookings{}
	refreshed := 0

	f := form.BookingForm{AccommodationID: "a1", CheckIn: "2025-11-12", CheckOut: "2025-11-12", Guests: 2}
	err := r.Run(context.Background(), CreateBooking(b, f, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), countingRefresh(&refreshed)))

	var errs form.Errors
	require.True(t, errors.As(err, &errs))
	assert.True(t, errs.HasGroup(form.CodeInvalidDateRange))
	assert.Empty(t, b.created)
	assert.Empty(t, n.ok)
	assert.Empty(t, n.failed)
	assert.Zero(t, refreshed)
}

func TestRun_CancelNeedsConfirmation(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		r, c, n := newRunner(false)
		b := &fakeBookings{}
		err := r.Run(context.Background(), CancelBooking(b, "b1", nil))
		assert.ErrorIs(t, err, ErrDeclined)
		assert.Len(t, c.asked, 1)
		assert.Empty(t, b.canceled)
		assert.Empty(t, n.ok)
	})

	t.Run("confirmed", func(t *testing.T) {
		r, _, n := newRunner(true)
		b := &fakeBookings{}
		require.NoError(t, r.Run(context.Background(), CancelBooking(b, "b1", nil)))
		assert.Equal(t, []string{"b1"}, b.canceled)
		assert.Equal(t, []string{"Reserva cancelada"}, n.ok, "server message wins over the default")
	})
}

func TestRun_FailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &api.Error{StatusCode: 409, Message: "Dates already taken"}, "Dates already taken"},
		{"no message", &api.Error{StatusCode: 500, Message: "Internal Server Error"}, "Could not cancel the booking"},
		{"transport", errors.New("dial tcp: refused"), "Could not cancel the booking"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, n := newRunner(true)
			refreshed := 0
			err := r.Run(context.Background(), CancelBooking(&fakeBookings{err: tt.err}, "b1", countingRefresh(&refreshed)))
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, []string{tt.want}, n.failed)
			assert.Zero(t, refreshed)
		})
	}
}

// fakeUploader fails the listed names and counts calls.
type fakeUploader struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls atomic.Int32
	seen  []string
}

func (f *fakeUploader) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	f.calls.Add(1)
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.seen = append(f.seen, string(b))
	f.mu.Unlock()
	if f.fail[name] {
		return "", errors.New("storage rejected " + name)
	}
	return "https://cdn/" + name, nil
}

func memOpener(name string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("bytes of " + name)), nil
}

func validPlace(files ...string) form.PlaceForm {
	return form.PlaceForm{
		Title: "Casa del Sol", Description: "Bright house near the river", Price: "85",
		AccommodationType: "HOUSE", Capacity: 4, Country: "Colombia", Department: "Valle",
		City: "Cali", PostalCode: "76001", Files: files,
	}
}

func TestUploadAll_Order(t *testing.T) {
	up := &fakeUploader{}
	urls, err := UploadAll(context.Background(), up, memOpener, []string{"a.jpg", "b.jpg", "c.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/a.jpg", "https://cdn/b.jpg", "https://cdn/c.jpg"}, urls)
	assert.ElementsMatch(t, []string{"bytes of a.jpg", "bytes of b.jpg", "bytes of c.jpg"}, up.seen)
}

func TestCreatePlace_UploadFailureBlocksCreate(t *testing.T) {
	r, _, n := newRunner(true)
	places := &fakePlaces{}
	up := &fakeUploader{fail: map[string]bool{"2.jpg": true}}

	err := r.Run(context.Background(), CreatePlace(places, up, memOpener, validPlace("1.jpg", "2.jpg", "3.jpg"), nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2.jpg")
	assert.Empty(t, places.created)
	assert.Equal(t, []string{"Could not create the accommodation"}, n.failed)
}

func TestCreatePlace_Success(t *testing.T) {
	r, _, _ := newRunner(true)
	places := &fakePlaces{}
	up := &fakeUploader{}

	require.NoError(t, r.Run(context.Background(), CreatePlace(places, up, memOpener, validPlace("1.jpg", "2.jpg"), nil)))
	require.Len(t, places.created, 1)
	assert.Equal(t, []string{"https://cdn/1.jpg", "https://cdn/2.jpg"}, places.created[0].PicsURL)
	assert.Equal(t, int32(2), up.calls.Load())
}

func TestUpdatePlace_KeepsExistingPictures(t *testing.T) {
	r, _, _ := newRunner(true)
	places := &fakePlaces{}
	f := validPlace("new.jpg")
	f.Kept = []string{"https://cdn/old.jpg"}

	require.NoError(t, r.Run(context.Background(), UpdatePlace(places, &fakeUploader{}, memOpener, "p1", f, nil)))
	assert.Equal(t, []string{"https://cdn/old.jpg", "https://cdn/new.jpg"}, places.updated["p1"].PicsURL)
}

func TestDeletePlace_RefreshesList(t *testing.T) {
	r, c, _ := newRunner(true)
	places := &fakePlaces{}
	refreshed := 0
	require.NoError(t, r.Run(context.Background(), DeletePlace(places, "p1", countingRefresh(&refreshed))))
	assert.Equal(t, []string{"p1"}, places.deleted)
	assert.Len(t, c.asked, 1)
	assert.Equal(t, 1, refreshed)
}
