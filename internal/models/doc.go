// Package models defines the core domain entities of the ledger engine.
//
// All monetary fields are shopspring decimals and all dates are time.Time
// values at midnight UTC. Entities reference each other by ID string rather
// than by pointer; users keep the numeric identity assigned by the chat
// platform, every other entity gets a UUID from the store.
//
// Entities are created by their engine operation, mutated only through
// narrowly-scoped store methods (status transitions, deletions), and removed
// only by explicit user deletion or cascade (a bill removes its participants).
package models
