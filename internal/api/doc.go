// Package api holds the JSON request and response bodies of the
// physiotherapy REST API. The CLI client and the development server both
// encode and decode these types, so field tags here are the wire contract.
package api
