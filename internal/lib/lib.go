// Package lib groups the adapters that sit outside the request layers:
// the language model client, PDF text extraction, the report inbox, the
// Redis cache, background jobs and outbound email.
package lib
