package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/physiokeeper/internal/client/services"
)

var errInterrupted = errors.New("interrupted")

// interruptContext is a test seam; Ctrl-C cancels the running command.
var interruptContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// runAsync runs fetch on a Hook and waits for its result. An interrupt
// closes the hook, so a result that arrives later is dropped.
func runAsync[T any](ctx context.Context, fetch func(ctx context.Context) (T, error)) (T, error) {
	ctx, stop := interruptContext(ctx)
	defer stop()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	h := services.NewHook(ctx, func(v T, err error) {
		done <- result{v: v, err: err}
	})
	h.Run(fetch)

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		h.Close()
		var zero T
		return zero, errInterrupted
	}
}

// report prints the alert for err unless the session manager already
// announced the same condition.
func (a *App) report(err error, al services.Alert) error {
	a.drainAlerts()
	if errors.Is(err, errInterrupted) {
		a.println("Cancelled.")
		return err
	}
	if (al == services.AlertLoginRequired || al == services.AlertSessionExpired) && !a.isLoggedIn() {
		return err
	}
	a.alert(al)
	return err
}

// fail reports err with the generic mapping and fallback message.
func (a *App) fail(err error, fallback string) error {
	return a.report(err, services.UserMessage(err, fallback))
}
