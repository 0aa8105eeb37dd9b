// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request ids, request-scoped logging, request logging,
// CORS, tracing, panic recovery and the global error handler.
package middleware
