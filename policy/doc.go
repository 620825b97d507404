// Package policy decides whether a request path requires authentication and
// extracts bearer credentials from an abstract request.
//
// The decision is data-driven: an immutable [Exclusions] set, built once from
// configuration, is matched against trailing-slash-normalized paths. Matching
// is exact membership only — no prefix or wildcard rules.
//
// # Architecture boundaries
//
// This package owns the "is auth required" test and raw header/cookie
// extraction. It never parses authorization schemes (Basic, Bearer) and never
// resolves identities; both belong to the Engine and its adapter layer.
//
// # What this package must NOT do
//
//   - Perform I/O or hold mutable state after construction.
//   - Depend on a concrete web-framework request type — only [Request].
//   - Import any other authcore package.
package policy
