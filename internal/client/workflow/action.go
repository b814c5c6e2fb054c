package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/GophStay/internal/client/api"
)

// ErrDeclined is returned when the user does not confirm a destructive action.
var ErrDeclined = errors.New("action not confirmed")

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// Notifier shows a transient message.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// Action is one user-triggered change on the backend.
type Action struct {
	Name string
	// Validate checks local input. Nil means nothing to check.
	Validate func() error
	// Confirm, when set, is asked before Do; the action is destructive.
	Confirm string
	// Do issues the request and returns the backend's message.
	Do func(ctx context.Context) (string, error)
	// Done and Failed are shown when the backend sends no message.
	Done   string
	Failed string
	// Refresh reloads the owning list after success.
	Refresh func(ctx context.Context) error
}

// Runner executes actions against the user's terminal.
type Runner struct {
	confirm Confirmer
	notify  Notifier
	log     *zap.Logger
}

func NewRunner(c Confirmer, n Notifier, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{confirm: c, notify: n, log: log}
}

// Run validates, confirms when destructive, issues the request, notifies and
// refreshes. Validation errors are returned without a notification so the
// caller can show them next to the fields. Nothing is refreshed on failure.
func (r *Runner) Run(ctx context.Context, a Action) error {
	if a.Validate != nil {
		if err := a.Validate(); err != nil {
			return err
		}
	}

	if a.Confirm != "" {
		ok, err := r.confirm.Confirm(ctx, a.Confirm)
		if err != nil {
			return fmt.Errorf("confirm %s: %w", a.Name, err)
		}
		if !ok {
			return ErrDeclined
		}
	}

	msg, err := a.Do(ctx)
	if err != nil {
		r.log.Warn("action failed", zap.String("action", a.Name), zap.Error(err))
		r.notify.Failure(api.Message(err, a.Failed))
		return err
	}
	if msg == "" {
		msg = a.Done
	}
	r.notify.Success(msg)

	if a.Refresh == nil {
		return nil
	}
	if err := a.Refresh(ctx); err != nil && !errors.Is(err, ErrBusy) {
		r.log.Warn("refresh after action failed", zap.String("action", a.Name), zap.Error(err))
		return fmt.Errorf("refresh after %s: %w", a.Name, err)
	}
	return nil
}
