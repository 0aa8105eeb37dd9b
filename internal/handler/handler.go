// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the
// validation package, and calls the appropriate service.
// It acts as the interface between the HTTP request and the
// query service.
package handler
