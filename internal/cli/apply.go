package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/herald/internal/adapter"
	"github.com/roach88/herald/internal/differential"
	"github.com/roach88/herald/internal/engine"
	"github.com/roach88/herald/internal/fixture"
	"github.com/roach88/herald/internal/ir"
	"github.com/roach88/herald/internal/store"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	NewObject bool
}

// PassOutput is one evaluated pass and the state it accumulated.
type PassOutput struct {
	Object       string               `json:"object"`
	Token        string               `json:"token,omitempty"`
	Seq          int64                `json:"seq,omitempty"`
	SnapshotHash string               `json:"snapshot_hash,omitempty"`
	Error        string               `json:"error,omitempty"`
	Transcripts  []ir.ApplyTranscript `json:"transcripts"`
	Reviewers    []string             `json:"reviewers"`
	Blocking     []string             `json:"blocking"`
	BuildPlans   []string             `json:"build_plans"`
	Signatures   []string             `json:"signatures"`
	Email        []string             `json:"email"`
	AddCC        []string             `json:"add_cc"`
	RemoveCC     []string             `json:"remove_cc"`
	Flags        []adapter.Flag       `json:"flags"`
}

// ApplyResult is the output of the apply command.
type ApplyResult struct {
	Passes []PassOutput `json:"passes"`
	Failed int          `json:"failed"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <world.yaml> <effects.cue>",
		Short: "Apply rule effects and record transcripts",
		Long: `Apply the effects in a CUE document to revisions in a fixture world.

Effects are grouped by object. Each object gets one pass: its fields are
snapshotted, its effects applied in order, and the pass with one
transcript per effect is recorded in the database. Passes run
concurrently, bounded by --workers.

Exit codes:
  0 - Every pass was recorded
  1 - One or more passes failed
  2 - Command error (missing files, invalid effects, database error)

Examples:
  herald apply world.yaml effects.cue --db ./herald.db
  herald apply world.yaml ./effects/ --format json
  HERALD_DB=/tmp/h.db herald apply world.yaml effects.cue`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.NewObject, "new-object", false, "treat the revisions as newly created")

	return cmd
}

func runApply(ctx context.Context, opts *ApplyOptions, worldPath, effectsPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)

	world, err := fixture.LoadFile(worldPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading world", err)
	}
	effects, err := LoadEffects(effectsPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading effects", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	maxSeq, err := st.MaxSeq(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading database", err)
	}
	eng := engine.New(
		engine.WithClock(engine.NewClockAt(maxSeq)),
		engine.WithRecorder(st),
		engine.WithWorkers(opts.Workers),
	)

	groups := groupByObject(effects)
	jobs := make([]engine.Job, 0, len(groups))
	adapters := make([]*differential.Adapter, 0, len(groups))
	for _, g := range groups {
		a, err := world.Bind(ctx, g.object)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("binding %s", g.object), err)
		}
		a.SetNewObject(opts.NewObject)
		adapters = append(adapters, a)
		jobs = append(jobs, engine.Job{Adapter: a, Effects: g.effects})
	}
	out.VerboseLog("evaluating %d passes with %d workers", len(jobs), opts.Workers)

	result := ApplyResult{Passes: make([]PassOutput, 0, len(jobs))}
	for i, jr := range eng.EvaluateAll(ctx, jobs) {
		po := passOutput(groups[i].object, adapters[i], jr)
		if jr.Err != nil {
			result.Failed++
		}
		result.Passes = append(result.Passes, po)
	}

	if err := out.Result(result.Failed == 0, result, func(w io.Writer) { printApply(w, result) }); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d passes failed", result.Failed, len(result.Passes)))
	}
	return nil
}

type effectGroup struct {
	object  string
	effects []ir.Effect
}

// groupByObject splits effects by object in first-seen order, keeping each
// object's effects in document order.
func groupByObject(effects []ir.Effect) []effectGroup {
	var groups []effectGroup
	index := make(map[string]int)
	for _, e := range effects {
		i, ok := index[e.ObjectPHID]
		if !ok {
			i = len(groups)
			index[e.ObjectPHID] = i
			groups = append(groups, effectGroup{object: e.ObjectPHID})
		}
		groups[i].effects = append(groups[i].effects, e)
	}
	return groups
}

func passOutput(object string, a *differential.Adapter, jr engine.JobResult) PassOutput {
	po := PassOutput{
		Object:      object,
		Transcripts: []ir.ApplyTranscript{},
		Reviewers:   []string{},
		Blocking:    []string{},
		BuildPlans:  []string{},
		Signatures:  []string{},
		Email:       []string{},
		AddCC:       []string{},
		RemoveCC:    []string{},
		Flags:       []adapter.Flag{},
	}
	if jr.Err != nil {
		po.Error = jr.Err.Error()
		return po
	}

	po.Token = jr.Pass.Token
	po.Seq = jr.Pass.Seq
	po.SnapshotHash = jr.Pass.SnapshotHash
	po.Transcripts = jr.Pass.Transcripts
	po.Reviewers = a.ReviewersAdded()
	po.Blocking = a.BlockingReviewersAdded()
	if plans := a.BuildPlans(); plans != nil {
		po.BuildPlans = plans
	}
	if docs := a.RequiredSignatureDocumentPHIDs(); docs != nil {
		po.Signatures = docs
	}
	std := a.StandardResult()
	po.Email = std.Email.Slice()
	po.AddCC = std.AddCC.Slice()
	po.RemoveCC = std.RemoveCC.Slice()
	if std.Flags != nil {
		po.Flags = std.Flags
	}
	return po
}

func printApply(w io.Writer, result ApplyResult) {
	for _, p := range result.Passes {
		if p.Error != "" {
			fmt.Fprintf(w, "✗ %s: %s\n", p.Object, p.Error)
			continue
		}
		fmt.Fprintf(w, "✓ %s  pass %s (seq %d)\n", p.Object, p.Token, p.Seq)
		printTranscripts(w, p.Transcripts)
		printState(w, "Reviewers", p.Reviewers)
		printState(w, "Blocking", p.Blocking)
		printState(w, "Build plans", p.BuildPlans)
		printState(w, "Signatures", p.Signatures)
		printState(w, "Email", p.Email)
		printState(w, "Add CC", p.AddCC)
		printState(w, "Remove CC", p.RemoveCC)
		for _, f := range p.Flags {
			fmt.Fprintf(w, "  Flag: %s %s (rule %s)\n", f.OwnerPHID, f.Color, f.RuleID)
		}
	}
}

func printTranscripts(w io.Writer, transcripts []ir.ApplyTranscript) {
	tw := newTable(w, "#", "Action", "Target", "Rule", "Applied", "Reason")
	for i, t := range transcripts {
		tw.AppendRow([]any{i, t.Effect.Action, joinIDs(t.Effect.Target), t.Effect.Rule.ID, t.Applied, t.Reason})
	}
	tw.Render()
}

func printState(w io.Writer, label string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s: %s\n", label, joinIDs(ids))
}
