// Package stores provides the in-memory, short-lived record store backing the
// password-reset flow.
//
// # Design
//
// Each record is keyed by an opaque reset id and holds only the SHA-256 of
// the token secret, never the token itself. Consume is a single critical
// section: the lookup, the constant-time secret check, the attempt counting,
// and the removal all happen under one lock, so a token can be redeemed at
// most once no matter how many callers race on it. A consumed record is
// deleted — "consumed" and "absent" are indistinguishable to later callers.
//
// # Architecture boundaries
//
// This package owns persistence and concurrency control for transient reset
// records. It does NOT generate tokens, hash passwords, or make
// authentication decisions — those belong to the Engine.
//
// # What this package must NOT do
//
//   - Import authcore or any sibling internal package.
//   - Log or expose plaintext secrets.
//   - Use non-constant-time comparisons for secret matching.
package stores
