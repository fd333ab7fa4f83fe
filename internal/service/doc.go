// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the stores
// defined in internal/store to fulfill the features exposed over HTTP:
// registration and login, and the owner-scoped task operations.
//
// Every TaskService method takes the caller's user id as its first argument
// after the context and passes it down to the store, so a task belonging to
// another user is indistinguishable from a missing one.
//
// Services receive their dependencies through constructor injection and never
// depend on a specific store implementation.
package service
