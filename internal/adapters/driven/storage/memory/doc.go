// Package memory provides in-memory implementations of driven ports.
//
// The conversation store backs the live tutor chat, which is never
// persisted. The config store is used by tests.
package memory
