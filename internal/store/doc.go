// Package store groups persistence implementations for the directory
// catalog. The contract lives in internal/directory (directory.Store);
// internal/store/postgres is the pgx-backed implementation.
package store
