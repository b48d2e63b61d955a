// Package repository provides a generic, Bun-backed repository abstraction
// for CRUD operations, filtered queries, pagination, transactions, and
// upsert support.
//
// The *bun.DB handle is injected through NewRepository; the package keeps no
// connection state of its own. Mutations that target a missing row return
// ErrNotFound instead of silently affecting zero rows.
package repository
