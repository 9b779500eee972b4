// Package smt maintains a binary sparse Merkle tree of fixed depth under a
// stream of leaf updates, keeping the root hash consistent with a serial
// application of the same updates.
//
// Two concurrent update engines are provided next to the serial reference:
//
//   - The LiveEngine percolates each update from leaf to root individually,
//     under per-node locking. A shared stop table lets an update that
//     overwrites another worker's contribution cancel that worker's now
//     redundant climb.
//
//   - The BatchEngine (Angela) sorts a whole batch by key, derives the set of
//     conflict nodes where update paths meet, and climbs the disjoint path
//     segments in parallel; at each conflict node the first arriving worker
//     hands the recomputation over to the last.
//
// Both engines leave the tree with the same root hash the serial oracle
// produces for an equivalent update sequence.
package smt
