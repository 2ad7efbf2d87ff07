package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/herald/internal/adapter"
	"github.com/roach88/herald/internal/ir"
)

// Recorder persists evaluated passes. Implemented by store.Store.
type Recorder interface {
	WritePass(ctx context.Context, p *ir.Pass) error
}

// DefaultWorkers bounds EvaluateAll when no limit is configured.
const DefaultWorkers = 4

// Engine evaluates passes. An Engine holds no per-pass state and may be
// shared by concurrent callers.
type Engine struct {
	clock    *Clock
	tokens   PassTokenGenerator
	recorder Recorder
	workers  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the sequence clock, e.g. one resumed from the store.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithTokenGenerator sets the pass token source.
func WithTokenGenerator(g PassTokenGenerator) Option {
	return func(e *Engine) {
		e.tokens = g
	}
}

// WithRecorder records every successful pass. Without one, passes are
// only returned.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithWorkers bounds how many passes EvaluateAll runs at once.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New creates an Engine with a fresh clock, UUIDv7 tokens, no recorder,
// and DefaultWorkers.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:   NewClock(),
		tokens:  UUIDv7Generator{},
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Clock returns the engine's sequence clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// Evaluate runs one pass over a.
//
// Every field a declares is resolved first; any failure (unknown field,
// failed load, cancelled ctx) aborts the pass before anything is applied.
// Then effects are applied exactly once. Per-effect failures are reported
// in the transcripts and do not abort the pass.
func (e *Engine) Evaluate(ctx context.Context, a adapter.Adapter, effects []ir.Effect) (*ir.Pass, error) {
	phid, err := a.PHID()
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	name, err := a.HeraldName()
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	fields, err := Snapshot(ctx, a)
	if err != nil {
		return nil, &PassError{
			Code:       ErrCodeSnapshotFailed,
			Message:    "resolving fields",
			ObjectPHID: phid,
			Err:        err,
		}
	}
	hash, err := ir.SnapshotHash(fields)
	if err != nil {
		return nil, &PassError{
			Code:       ErrCodeSnapshotFailed,
			Message:    "hashing fields",
			ObjectPHID: phid,
			Err:        err,
		}
	}

	for i, eff := range effects {
		if eff.ObjectPHID != phid {
			return nil, &PassError{
				Code:       ErrCodeObjectMismatch,
				Message:    fmt.Sprintf("effect %d targets %q", i, eff.ObjectPHID),
				ObjectPHID: phid,
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", phid, err)
	}

	transcripts := a.ApplyEffects(effects)
	if err := checkTranscripts(effects, transcripts); err != nil {
		return nil, &PassError{
			Code:       ErrCodeTranscriptMismatch,
			Message:    err.Error(),
			ObjectPHID: phid,
		}
	}

	pass := &ir.Pass{
		Token:        e.tokens.Generate(),
		Seq:          e.clock.Next(),
		ObjectPHID:   phid,
		ObjectName:   name,
		ContentType:  a.ContentType(),
		Fields:       fields,
		SnapshotHash: hash,
		Transcripts:  transcripts,
	}

	failed := 0
	for _, t := range transcripts {
		if !t.Applied {
			failed++
		}
	}
	slog.Info("pass evaluated",
		"pass", pass.Token,
		"seq", pass.Seq,
		"object", phid,
		"content_type", pass.ContentType,
		"effects", len(effects),
		"failed", failed,
	)

	if e.recorder != nil {
		if err := e.recorder.WritePass(ctx, pass); err != nil {
			return nil, &PassError{
				Code:       ErrCodeRecordFailed,
				Message:    fmt.Sprintf("writing pass %s", pass.Token),
				ObjectPHID: phid,
				Err:        err,
			}
		}
	}
	return pass, nil
}

// Snapshot resolves every field a declares, in declaration order.
func Snapshot(ctx context.Context, a adapter.Adapter) (ir.IRObject, error) {
	fields := make(ir.IRObject)
	for _, id := range a.Fields() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := a.HeraldField(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", id, err)
		}
		fields[string(id)] = v
	}
	return fields, nil
}

func checkTranscripts(effects []ir.Effect, transcripts []ir.ApplyTranscript) error {
	if len(transcripts) != len(effects) {
		return fmt.Errorf("got %d transcripts for %d effects", len(transcripts), len(effects))
	}
	for i := range effects {
		want, err := ir.EffectID(effects[i])
		if err != nil {
			return fmt.Errorf("effect %d: %w", i, err)
		}
		got, err := ir.EffectID(transcripts[i].Effect)
		if err != nil {
			return fmt.Errorf("transcript %d: %w", i, err)
		}
		if got != want {
			return fmt.Errorf("transcript %d is for a different effect", i)
		}
	}
	return nil
}
