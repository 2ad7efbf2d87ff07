package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/herald/internal/ir"
)

func checkError(r *Result, want string, err error) {
	if want == "" {
		r.AddError(fmt.Sprintf("pass failed: %v", err))
		return
	}
	if !strings.Contains(err.Error(), want) {
		r.AddError(fmt.Sprintf("error = %q, want it to contain %q", err.Error(), want))
	}
}

func checkExpect(r *Result, want Expect) {
	if want.Error != "" {
		r.AddError(fmt.Sprintf("pass succeeded, want error containing %q", want.Error))
		return
	}

	for i, wt := range want.Transcripts {
		if i >= len(r.Transcripts) {
			r.AddError(fmt.Sprintf("transcript %d missing", i))
			continue
		}
		got := r.Transcripts[i]
		if got.Applied != wt.Applied {
			r.AddError(fmt.Sprintf("transcript %d (%s): applied = %v, want %v (%s)",
				i, got.Effect.Action, got.Applied, wt.Applied, got.Reason))
		}
		if wt.Reason != "" && got.Reason != wt.Reason {
			r.AddError(fmt.Sprintf("transcript %d (%s): reason = %q, want %q",
				i, got.Effect.Action, got.Reason, wt.Reason))
		}
	}

	checkList(r, "reviewers", r.Reviewers, want.Reviewers)
	checkList(r, "blocking", r.Blocking, want.Blocking)
	checkList(r, "build_plans", r.BuildPlans, want.BuildPlans)
	checkList(r, "signatures", r.Signatures, want.Signatures)
	if r.Standard != nil {
		checkList(r, "email", r.Standard.Email.Slice(), want.Email)
		checkList(r, "cc", r.Standard.AddCC.Slice(), want.CC)
	}

	for _, name := range sortedKeys(want.Fields) {
		wantVal, err := toIRValue(want.Fields[name])
		if err != nil {
			r.AddError(fmt.Sprintf("field %s: %v", name, err))
			continue
		}
		gotVal, ok := r.Evaluation.Fields[name]
		if !ok {
			r.AddError(fmt.Sprintf("field %s: not in snapshot", name))
			continue
		}
		if !sameValue(gotVal, wantVal) {
			g, _ := ir.MarshalCanonical(gotVal)
			w, _ := ir.MarshalCanonical(wantVal)
			r.AddError(fmt.Sprintf("field %s = %s, want %s", name, g, w))
		}
	}
}

// checkList compares in order. A nil want is not checked.
func checkList(r *Result, name string, got, want []string) {
	if want == nil {
		return
	}
	if !slices.Equal(got, want) {
		r.AddError(fmt.Sprintf("%s = %v, want %v", name, got, want))
	}
}

func sameValue(a, b ir.IRValue) bool {
	ab, err := ir.MarshalCanonical(a)
	if err != nil {
		return false
	}
	bb, err := ir.MarshalCanonical(b)
	if err != nil {
		return false
	}
	return string(ab) == string(bb)
}

// toIRValue converts a decoded YAML value.
func toIRValue(v any) (ir.IRValue, error) {
	switch val := v.(type) {
	case nil:
		return ir.IRNull{}, nil
	case string:
		return ir.IRString(val), nil
	case bool:
		return ir.IRBool(val), nil
	case int:
		return ir.IRInt(val), nil
	case int64:
		return ir.IRInt(val), nil
	case []any:
		arr := make(ir.IRArray, 0, len(val))
		for i, elem := range val {
			iv, err := toIRValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr = append(arr, iv)
		}
		return arr, nil
	case map[string]any:
		obj := make(ir.IRObject, len(val))
		for k, elem := range val {
			iv, err := toIRValue(elem)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			obj[k] = iv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
