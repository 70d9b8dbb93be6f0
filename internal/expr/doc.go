// Package expr implements the arithmetic expression trees used by
// compute and set directives, together with their parser and
// evaluator.
//
// An expression is a small immutable tree over five node kinds:
// constants, the raw source value ("@"), references to other features
// of the same chip, unary operators (negate, exp, ln), and binary
// arithmetic. Evaluation is strict and left to right; the first error
// short-circuits. Feature references resolve through an Env, which the
// access layer implements by re-entering its own get-value pipeline,
// so derived expressions like "temp1 / 2" see converted values.
//
// Division by exact zero and logarithm of a negative operand both fail
// with the division-by-zero error kind; no evaluation path produces
// NaN or Inf silently.
package expr
