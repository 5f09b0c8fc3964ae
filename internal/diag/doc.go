// Package diag defines the error taxonomy shared by the keystroke parser,
// the token stream builder and the evaluator.
//
// # Purpose
//
//   - Give every rejected keystroke and failed evaluation a stable numeric
//     Code, so that silently recovered cases stay auditable.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//   - Provide Error, an error value carrying a Code, matched with errors.Is
//     against the package sentinels.
//
// # Severity
//
// Recovered cases (a second decimal point, a refused operator) are reported
// at SevInfo and never change what is rendered. Surfaced cases (malformed
// expression, non-finite result) are SevError and always reset the session.
//
// # Scope
//
// Package diag does not format or print. Rendering lives in internal/diagfmt.
package diag
