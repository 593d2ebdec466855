// Package service holds the application logic between the HTTP handlers
// and the repositories: report ingestion, the audit agents, dashboards and
// the model-backed document generators.
package service
