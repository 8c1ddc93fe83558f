// Package jsx builds the protective script envelopes sent across the
// automation boundary to InDesign's ExtendScript engine.
//
// The package contains pure text transforms only; it holds no connection
// state and performs no I/O. Two envelope shapes exist:
//
//   - [Wrap] produces the full safety envelope for arbitrary user code:
//     isolated scope, interaction-level guard, structured JSON result via
//     the __result convention.
//   - [Eval] produces a minimal try/catch wrapper for cheap read-only
//     expression probes. It trades the full envelope's guarantees for
//     speed and returns plain strings instead of the JSON contract.
//
// User code never passes through eval(): it is inlined into the envelope
// exactly once, so there is a single execution boundary to reason about
// for error attribution.
package jsx
