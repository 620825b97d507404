// Package token manages signed bearer-token issuance and verification using
// configured signing keys and strict validation semantics.
//
// Tokens are self-contained: validating one needs no store lookup, which is
// what the bearer auth mode is for. They are NOT sessions — there is no
// server-side record to destroy, so deployments that need logout semantics
// use the session mode instead.
package token
