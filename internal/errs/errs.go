// Package errs holds the JSON error shape returned by every API route and
// the constructors for the statuses the application uses.
package errs
