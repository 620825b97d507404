// Package middleware exposes net/http adapters for path-policy authorization
// enforcement built on top of authcore.Engine decisions.
//
// # Guards
//
//   - [Guard] — evaluates every request through Engine.AuthenticateRequest.
//   - [UserIDFromContext] — retrieves the authorized account id downstream.
//
// Each guard adapts the incoming *http.Request into the engine's request
// view, asks the engine for a decision, and translates the decision kinds
// into transport terms: not-required and authorized pass through,
// unauthenticated maps to 401, forbidden maps to 403.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.AuthenticateRequest.
//
// # What this package must NOT do
//
//   - Inspect credentials directly (delegates to Engine).
//   - Maintain its own exclusion list (Engine owns the policy).
//   - Make authorization decisions beyond the four Engine decision kinds.
package middleware
