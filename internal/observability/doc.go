// Package observability builds the process-wide zap logger from the
// observability section of the configuration.
package observability
