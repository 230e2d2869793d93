// Package types defines the small shared vocabulary of the treekit module:
// typed errors with stable categories and the NodeID handle.
//
// Design goals:
//   - Small, copyable handles (NodeID) instead of pointers into the node arena.
//   - Typed errors with stable categories (not found, permission, invalid,
//     malformed, out of memory) so callers branch on intent, not text.
//   - Limits that turn unbounded growth into a recoverable error.
//
// This package has no dependencies beyond the standard library.
package types
