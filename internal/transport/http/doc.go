// Package http contains the HTTP handlers for the staffing dashboard API.
//
// Handlers own their routes via a Routes() chi.Router method and depend on
// service interfaces defined in this package, so tests can swap in mocks.
// Errors render as RFC 7807 problem documents through the central
// errors.ErrorHandler.
package http
