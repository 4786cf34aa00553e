// Package client speaks the physiotherapy REST API.
//
// PublicClient covers the unauthenticated endpoints (login, register, token
// refresh, injury types). AuthenticatedClient is an immutable value bound to
// one access token; the session package builds a fresh one for every
// logical operation and again after a token refresh.
//
// Non-2xx responses come back as *HTTPError; use IsStatus to branch on the
// status code. Transport failures wrap ErrUnavailable and undecodable
// bodies wrap ErrMalformedResponse.
package client
