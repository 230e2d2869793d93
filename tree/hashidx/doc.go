// Package hashidx provides the secondary lookup tables used by tree nodes
// once their child or value counts grow past a small threshold.
//
// Small collections are scanned linearly. Past HighWater entries a chained
// hash table keyed on the interned key's integer handle is built alongside
// the primary storage; it is discarded again when the count drops below
// LowWater. Index is the raw table (duplicates allowed, used for children
// where labels need not be unique); Table is the hybrid unique-key store
// used for node values.
//
// The hash is multiplicative over keys.Key.ID(), not over string bytes:
//
//	bucket = (id * 1103515245) >> downShift & mask
//
// with downShift = 32 - log2(buckets), so the top bits of the product pick
// the bucket. Tables start at 32 buckets and double, rehashing every entry,
// once the count reaches 3x the bucket count.
package hashidx
