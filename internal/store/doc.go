// Package store is the SQLite-backed audit log of evaluation passes.
//
// Two tables, both append-only:
//   - passes: one row per pass, with the canonical JSON field snapshot the
//     rules saw and its hash
//   - transcripts: one row per applied effect, keyed by a content-addressed
//     ID and positioned by (pass_token, idx)
//
// Writes are idempotent: rewriting a pass with the same token is a no-op.
// A pass and its transcripts commit in one transaction, so readers never see
// a pass with only some of its transcripts.
//
// Reads are deterministic. Transcripts come back ORDER BY idx, passes ORDER
// BY seq. Field snapshots and targets are stored as canonical JSON, so the
// stored bytes hash the same way on every machine.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
