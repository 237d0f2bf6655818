// Package scrred implements the redundancy-descriptor core of a checkpoint/restart
// library for SPMD HPC jobs: parsing a job's redundancy configuration into runtime
// descriptors, selecting the descriptor to apply to a given checkpoint id, building
// the collective failure-group topology, and driving the encode/decode/remove
// pipeline with global agreement across ranks.
//
// Concrete collaborators live in subpackages: collective (rank/communicator
// simulation), jobctx (store/group registries), reddesc (descriptor model and
// builder), erasurelib (the opaque erasure-scheme capability), filemap and flush
// (persistence and transfer collaborators), and pipeline (encode/decode/remove).
//
// This package itself holds only what every subpackage shares: the error
// taxonomy, logging setup, retry helpers and the UUID type used to identify
// erasure sets and transfer log entries.
package scrred
