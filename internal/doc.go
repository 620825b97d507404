// Package internal contains helper utilities that are intentionally private
// to authcore, including secure random generation and the opaque reset-token
// wire encoding.
//
// # Sub-packages
//
//   - stores — in-memory single-use record store for password reset
//
// # What this package must NOT do
//
//   - Export types that appear in the public authcore API.
//   - Be imported by any package outside the authcore module.
package internal
