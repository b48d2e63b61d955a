// Package database manages the relational store behind the storekeeper
// service: connection lifecycle and pooling for SQLite, MySQL, and
// PostgreSQL, versioned schema migrations with seed data, foreign key
// constraints, SQL file based data initialization, driver error
// classification, and query logging hooks.
//
// The Bun handle lives inside a Manager created by the caller and is passed
// on to repositories explicitly; the package holds no global connection
// state.
package database
