// Package authcore provides a single-process authentication core: argon2id
// credential hashing, in-memory session lifecycle, single-use password-reset
// tokens, and path-exclusion authorization policy, composed behind [Engine].
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Decision, UserRecord, AuditEvent, MetricsSnapshot). Domain
// primitives live in subpackages (password, session, policy, token); transient
// reset-record storage lives under internal/ and is never exported. HTTP
// transport is an external collaborator: the core consumes the narrow
// [Request] abstraction and returns [Decision] values the adapter translates
// into status codes.
//
// # What this package must NOT do
//
//   - Open sockets, read files, or load configuration from the environment.
//   - Store or log plaintext passwords, credential hashes, or raw tokens.
//   - Import any sub-package that re-imports authcore (no import cycles).
//
// # Performance contract
//
// AuthenticateRequest is the hot path. Session resolution is a read-locked
// map lookup; the only deliberately expensive operation is argon2id hashing,
// whose cost factors are configuration.
package authcore
