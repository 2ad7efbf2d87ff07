// Package harness runs YAML scenarios through the real evaluation path.
//
// A scenario names a fixture world and an object in it, supplies the
// effects the condition engine would have produced, and states what the
// pass should yield: which transcripts succeed, which reviewers are added,
// which build plans run, what fields the rules saw.
//
// Each run binds a differential adapter through the fixture world,
// evaluates with the engine against a fresh in-memory store, and reads the
// transcripts back from the store before checking expectations. Tokens and
// sequence numbers are deterministic, so a run's canonical JSON snapshot
// can be compared with a golden file.
package harness
