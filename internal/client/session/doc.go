// Package session owns the authenticated-request lifecycle of the CLI.
//
// The Manager reads tokens from a credstore.Store on every call, builds an
// AuthenticatedClient per operation and recovers from an expired access
// token exactly once: on HTTP 401 it refreshes the token pair and re-runs
// the operation with a new client. Every other failure is returned to the
// caller untouched.
//
// Refreshes are single-flight across the process. When the refresh itself
// fails both tokens are deleted together, the AuthState flips to logged out
// and the Notifier receives one SessionExpired signal.
//
// Typical use from a feature service:
//
//	profile, err := session.Do(ctx, mgr, func(ctx context.Context, c *client.AuthenticatedClient) (*api.Profile, error) {
//	    return c.Me(ctx)
//	})
package session
