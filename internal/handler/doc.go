// Package handler implements the HTTP layer of the storekeeper API.
//
// CatalogHandler serves categories and products; SolutionHandler serves the
// solutions resource, whose mutations additionally announce themselves
// through X-Storekeeper-Alert headers. SystemHandler exposes health and
// connection statistics.
//
// All handlers follow REST conventions:
// - GET for retrieval
// - POST for creation
// - PUT for updates
// - DELETE for removal
//
// Error responses are JSON with an {error, key, details} structure, where
// key is a stable machine-readable identifier such as "idexists" or
// "constraintviolation".
//
// Middleware provides panic recovery, CORS, request-id assignment, and
// access logging, composed with Chain.
package handler
