// Package cache implements a bounded, in-memory least-recently-used cache.
//
// Goals for this package:
//   - Make the core data structures explicit (map index + doubly linked recency list)
//   - Provide O(1) Get/Put via the index and list links
//   - Keep entries in a flat arena addressed by slot index; list links are
//     indices, so there are no pointer cycles to manage
//   - Report a miss as (zero, false) rather than a reserved value
//
// LRU itself does no locking. Locked adds a mutex for callers that share a
// cache across goroutines.
package cache
