// Package errs defines the error type returned by handlers.
//
// An HTTPError carries the status to answer with, a stable
// machine-readable code and the message placed in the response body.
// The body itself is always the backward-compatible shape:
//
//	{ "error": "<message>" }
package errs
