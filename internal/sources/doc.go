// Package sources provides interfaces and implementations for fetching
// BBS entry records from configured sources.
//
// The package defines the Handler interface which abstracts fetching a
// sequence of candidate entry records from one source. Two kinds exist:
//
//   - dirHandler: walks a local directory for YAML entry files. A
//     missing directory contributes zero entries; generated entry IDs
//     are written back into the files so they stay stable.
//   - gitHandler: clones a remote git repository into an in-memory
//     checkout and parses entry files from its tree. A "#ref" suffix
//     on the descriptor pins a branch, tag ("#tag:v1.2") or commit;
//     private repositories authenticate via the git_auth config block.
//
// Handlers are created by a factory that infers the source kind from
// the descriptor's shape, so adding a new kind means adding one
// implementation, not branching throughout the aggregator. Malformed
// records are collected per record and never fail a fetch; a fetch
// error means the source as a whole was unreachable.
package sources
