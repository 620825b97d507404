// Package session implements the in-memory session store: the bidirectional
// association between opaque session identifiers and user identifiers.
//
// Identifiers are UUIDv4 strings (122 bits of entropy), making enumeration
// infeasible. The store is the single source of truth for "is this session
// live" — there is no derived cache, and a destroyed session is gone.
//
// Sessions do not expire by default. A positive TTL passed to [NewStore] is a
// configuration extension: aged sessions then behave as absent on Resolve and
// are reaped lazily.
//
// # What this package must NOT do
//
//   - Store credentials or any plaintext secret alongside a session.
//   - Expose its maps; all access goes through [Store] methods.
//   - Import any other authcore package.
package session
