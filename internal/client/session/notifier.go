package session

import "context"

// Notifier receives the two session alerts. Implementations present a single
// acknowledgement that leads the user to the login flow.
type Notifier interface {
	// LoginRequired fires when a protected call finds no access token.
	LoginRequired(ctx context.Context)
	// SessionExpired fires once per failed refresh.
	SessionExpired(ctx context.Context)
}

// NopNotifier ignores every signal.
type NopNotifier struct{}

func (NopNotifier) LoginRequired(context.Context)  {}
func (NopNotifier) SessionExpired(context.Context) {}
