// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Every task operation takes the owner's user ID as an explicit argument.
// Implementations must filter on it in the query itself, so a record owned
// by someone else is indistinguishable from one that does not exist.
package store
