// Package repository holds the SQL for constituencies, projects and audit
// insights. Every method takes a context and runs on the shared pgx pool.
package repository
