package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/herald/internal/ir"
	"github.com/roach88/herald/internal/queryir"
	"github.com/roach88/herald/internal/store"
)

// TranscriptsOptions holds flags for the transcripts command.
type TranscriptsOptions struct {
	*RootOptions
	Object  string
	Effect  string
	Action  string
	Rule    string
	Applied bool
	Limit   int

	// filterApplied is set when --applied was given explicitly.
	filterApplied bool
}

// PassLog is one recorded pass with its transcripts.
type PassLog struct {
	Token        string                `json:"token"`
	Seq          int64                 `json:"seq"`
	Object       string                `json:"object"`
	Name         string                `json:"name"`
	SnapshotHash string                `json:"snapshot_hash"`
	Transcripts  []ir.StoredTranscript `json:"transcripts"`
}

// TranscriptsResult is the output of the transcripts command.
type TranscriptsResult struct {
	Passes []PassLog `json:"passes"`
}

// NewTranscriptsCommand creates the transcripts command.
func NewTranscriptsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TranscriptsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "transcripts [pass-token]",
		Short: "Read recorded passes and their transcripts",
		Long: `Read the transcript log back from the database.

With a pass token, shows that pass. Otherwise lists every pass in
sequence order, optionally only those for one object.

--effect, --action, --rule and --applied filter individual transcripts;
when any of them is set, passes with no matching transcript are left out.

Examples:
  herald transcripts --db ./herald.db
  herald transcripts --db ./herald.db --object PHID-DREV-7
  herald transcripts --db ./herald.db 0192f0c1-...
  herald transcripts --db ./herald.db --effect 3f9a...
  herald transcripts --db ./herald.db --action flag --applied=false`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			opts.filterApplied = cmd.Flags().Changed("applied")
			return runTranscripts(cmd.Context(), opts, token, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Object, "object", "", "only passes for this object PHID")
	cmd.Flags().StringVar(&opts.Effect, "effect", "", "only transcripts of this effect ID")
	cmd.Flags().StringVar(&opts.Action, "action", "", "only transcripts of this action")
	cmd.Flags().StringVar(&opts.Rule, "rule", "", "only transcripts from this rule ID")
	cmd.Flags().BoolVar(&opts.Applied, "applied", false, "only applied (true) or unapplied (false) transcripts")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "at most this many transcripts (0 for no limit)")

	return cmd
}

// transcriptFilter reports whether any per-transcript filter is set.
func (o *TranscriptsOptions) transcriptFilter() bool {
	return o.Effect != "" || o.Action != "" || o.Rule != "" || o.filterApplied || o.Limit > 0
}

// query builds the transcript log query for the flags and an optional
// pass token.
func (o *TranscriptsOptions) query(token string) queryir.Transcripts {
	var preds []queryir.Predicate
	if token != "" {
		preds = append(preds, queryir.Eq(queryir.FieldPassToken, token))
	}
	if o.Object != "" {
		preds = append(preds, queryir.Eq(queryir.FieldObjectPHID, o.Object))
	}
	if o.Effect != "" {
		preds = append(preds, queryir.Eq(queryir.FieldEffectID, o.Effect))
	}
	if o.Action != "" {
		preds = append(preds, queryir.Eq(queryir.FieldAction, o.Action))
	}
	if o.Rule != "" {
		preds = append(preds, queryir.Eq(queryir.FieldRuleID, o.Rule))
	}
	if o.filterApplied {
		preds = append(preds, queryir.Equals{Field: queryir.FieldApplied, Value: ir.IRBool(o.Applied)})
	}
	return queryir.Transcripts{Filter: queryir.AllOf(preds...), Limit: o.Limit}
}

func runTranscripts(ctx context.Context, opts *TranscriptsOptions, token string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)

	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--limit must be 0 or more, got %d", opts.Limit))
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

	var passes []*ir.Pass
	switch {
	case token != "":
		p, err := st.ReadPass(ctx, token)
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("no pass %s", token), err)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "reading pass", err)
		}
		passes = []*ir.Pass{p}
	default:
		passes, err = st.ListPasses(ctx, opts.Object)
		if err != nil {
			return WrapExitError(ExitCommandError, "listing passes", err)
		}
	}

	matched, err := st.QueryTranscripts(ctx, opts.query(token))
	if err != nil {
		return WrapExitError(ExitCommandError, "querying transcripts", err)
	}
	slog.Debug("transcript query", "passes", len(passes), "transcripts", len(matched))
	byPass := groupByPass(matched)

	result := TranscriptsResult{Passes: make([]PassLog, 0, len(passes))}
	for _, p := range passes {
		ts := byPass[p.Token]
		if len(ts) == 0 {
			if opts.transcriptFilter() {
				continue
			}
			ts = []ir.StoredTranscript{}
		}
		result.Passes = append(result.Passes, PassLog{
			Token:        p.Token,
			Seq:          p.Seq,
			Object:       p.ObjectPHID,
			Name:         p.ObjectName,
			SnapshotHash: p.SnapshotHash,
			Transcripts:  ts,
		})
	}

	return out.Result(true, result, func(w io.Writer) {
		if len(result.Passes) == 0 {
			fmt.Fprintln(w, "No passes recorded.")
			return
		}
		tw := newTable(w, "Seq", "Pass", "Object", "#", "Action", "Target", "Rule", "Applied", "Reason")
		for _, p := range result.Passes {
			for _, t := range p.Transcripts {
				tw.AppendRow([]any{p.Seq, p.Token, p.Object, t.Index, t.Effect.Action,
					joinIDs(t.Effect.Target), t.Effect.Rule.ID, t.Applied, t.Reason})
			}
		}
		tw.Render()
	})
}

func groupByPass(ts []ir.StoredTranscript) map[string][]ir.StoredTranscript {
	out := make(map[string][]ir.StoredTranscript)
	for _, t := range ts {
		out[t.PassToken] = append(out[t.PassToken], t)
	}
	return out
}
