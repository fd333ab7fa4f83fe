// Package middleware holds the HTTP middleware shared by every route: trace
// IDs and request-scoped loggers, bearer token authentication, and rate
// limiting for the credential endpoints.
package middleware
