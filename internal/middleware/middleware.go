// Package middleware holds the Echo middleware shared by every route: request
// IDs, the request-scoped logger, New Relic tracing, CORS, panic recovery,
// Clerk authentication, per-client rate limiting and the global error handler.
package middleware
