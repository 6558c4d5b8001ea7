// Package internal documents the venues server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, problem responses, and routing
// - domain: venue/event model and the consistency engine
// - storage: record tables (in-memory and Postgres) and migrations
// - mcp: Model Context Protocol tools over the engine
// - config, metrics, telemetry, sanitize, validation: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
