// Package oracle provides automatic fitness oracles.
//
// Oracles:
//   - Simulated: seeded uniform ratings in [1, 5), for demos and tests
//   - Judge: asks an LLM to produce each prompt's output, then to rate it
//
// Both record the generated output alongside the rating. Without an LLM the
// simulated oracle records a placeholder output instead.
package oracle
