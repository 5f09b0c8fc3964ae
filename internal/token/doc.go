// Package token defines the committed tokens of a calculator expression.
// Invariants:
//   - A Token is either a Number or an Operator; there are no other kinds.
//   - Numbers are rendered in plain decimal notation (never exponent form),
//     so the text can be extended with digits or a point and still parse.
//   - A well-formed sequence alternates Number, Operator, ..., Number.
package token
