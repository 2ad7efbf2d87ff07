package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/herald/internal/differential"
	"github.com/roach88/herald/internal/ir"
)

// ActionsOptions holds flags for the actions command.
type ActionsOptions struct {
	*RootOptions
	Scope string
}

// ScopeActions lists what rules of one scope may do.
type ScopeActions struct {
	Scope     ir.RuleScope  `json:"scope"`
	Supported bool          `json:"supported"`
	Actions   []ir.ActionID `json:"actions"`
}

// ActionsResult describes the Differential adapter's rule surface.
type ActionsResult struct {
	ContentType string                `json:"content_type"`
	Fields      []ir.FieldID          `json:"fields"`
	Repetition  []ir.RepetitionPolicy `json:"repetition"`
	Scopes      []ScopeActions        `json:"scopes"`
}

// NewActionsCommand creates the actions command.
func NewActionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ActionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the actions rules may take on revisions",
		Long: `List the Differential adapter's action catalog per rule scope, with
its fields and repetition policies.

Examples:
  herald actions
  herald actions --scope personal
  herald actions --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActions(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scope, "scope", "", "only this rule scope (global|personal|object)")

	return cmd
}

func runActions(opts *ActionsOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)

	scopes := ir.ValidScopes
	if opts.Scope != "" {
		scope, err := ir.ParseRuleScope(opts.Scope)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --scope", err)
		}
		scopes = []ir.RuleScope{scope}
	}

	a := differential.New(nil)
	result := ActionsResult{
		ContentType: a.ContentType(),
		Fields:      a.Fields(),
		Repetition:  a.RepetitionOptions(),
	}
	for _, scope := range scopes {
		actions := a.Actions(scope)
		if actions == nil {
			actions = []ir.ActionID{}
		}
		result.Scopes = append(result.Scopes, ScopeActions{
			Scope:     scope,
			Supported: a.SupportsRuleType(scope),
			Actions:   actions,
		})
	}

	return out.Result(true, result, func(w io.Writer) {
		fmt.Fprintf(w, "Content type: %s\n", result.ContentType)
		fmt.Fprintf(w, "Repetition:   %s\n", joinIDs(result.Repetition))
		fmt.Fprintf(w, "Fields:       %s\n", joinIDs(result.Fields))
		tw := newTable(w, "Scope", "Supported", "Actions")
		for _, s := range result.Scopes {
			tw.AppendRow([]any{s.Scope, s.Supported, joinIDs(s.Actions)})
		}
		tw.Render()
	})
}

func joinIDs[T ~string](ids []T) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
