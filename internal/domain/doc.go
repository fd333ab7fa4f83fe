// Package domain contains the core business entities, value objects, and
// domain logic of the application. It represents the heart of the system,
// independent of any specific infrastructure or delivery mechanism.
//
// Field rules for tasks and users are enforced here at write time. Every
// violation is collected into a ValidationError so that callers can report
// all offending fields in a single response.
package domain
