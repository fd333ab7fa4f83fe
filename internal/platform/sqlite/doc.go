// Package sqlite implements the store interfaces on top of gorm and the
// SQLite driver. It backs local development and the in-memory databases used
// by the HTTP and service tests, and keeps the same owner scoping and listing
// order as the PostgreSQL stores.
package sqlite
