// Package handler is the HTTP layer. Handlers bind and validate requests
// through the validation package, call one service, and leave error
// rendering to the global error handler.
package handler
