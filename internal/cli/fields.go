package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/herald/internal/adapter"
	"github.com/roach88/herald/internal/differential"
	"github.com/roach88/herald/internal/engine"
	"github.com/roach88/herald/internal/fixture"
	"github.com/roach88/herald/internal/ir"
)

// FieldsOptions holds flags for the fields command.
type FieldsOptions struct {
	*RootOptions
	Object    string
	NewObject bool
}

// FieldValue is one resolved field.
type FieldValue struct {
	Field string     `json:"field"`
	Value ir.IRValue `json:"value"`
}

// FieldsResult is the output of the fields command.
type FieldsResult struct {
	Object string       `json:"object"`
	Name   string       `json:"name"`
	Fields []FieldValue `json:"fields"`
}

// NewFieldsCommand creates the fields command.
func NewFieldsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FieldsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fields <world.yaml>",
		Short: "Resolve every field of a revision",
		Long: `Resolve every Differential field of one revision in a fixture world.

Values are printed in field order. Loads are memoized, so a field that
shares data with an earlier one costs nothing extra.

Examples:
  herald fields world.yaml --object PHID-DREV-7
  herald fields world.yaml --object PHID-DREV-7 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Object, "object", "", "revision PHID (required)")
	_ = cmd.MarkFlagRequired("object")
	cmd.Flags().BoolVar(&opts.NewObject, "new-object", false, "treat the revision as newly created")

	return cmd
}

func runFields(ctx context.Context, opts *FieldsOptions, worldPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(opts.RootOptions, cmd)

	a, err := bindObject(ctx, worldPath, opts.Object)
	if err != nil {
		return err
	}
	a.SetNewObject(opts.NewObject)

	fields, err := engine.Snapshot(ctx, a)
	if err != nil {
		return WrapExitError(ExitFailure, "resolving fields", err)
	}
	name, _ := a.HeraldName()

	result := FieldsResult{Object: opts.Object, Name: name}
	for _, id := range a.Fields() {
		result.Fields = append(result.Fields, FieldValue{Field: string(id), Value: fields[string(id)]})
	}

	return out.Result(true, result, func(w io.Writer) {
		fmt.Fprintf(w, "%s  %s\n", result.Object, result.Name)
		tw := newTable(w, "Field", "Value")
		for _, f := range result.Fields {
			tw.AppendRow([]any{f.Field, formatValue(f.Value)})
		}
		tw.Render()
	})
}

// bindObject loads a fixture world and binds an adapter to phid.
func bindObject(ctx context.Context, worldPath, phid string) (*differential.Adapter, error) {
	world, err := fixture.LoadFile(worldPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading world", err)
	}
	a, err := world.Bind(ctx, phid)
	if err != nil {
		if adapter.IsNotFound(err) {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("revision %s not in world", phid), err)
		}
		return nil, WrapExitError(ExitFailure, "binding revision", err)
	}
	return a, nil
}

// formatValue renders a field value as canonical JSON.
func formatValue(v ir.IRValue) string {
	if v == nil {
		return ""
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(data)
}
