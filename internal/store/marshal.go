package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/herald/internal/ir"
)

// marshalFields stores a field snapshot as canonical JSON.
func marshalFields(fields ir.IRObject) (string, error) {
	if fields == nil {
		fields = ir.IRObject{}
	}
	data, err := ir.MarshalCanonical(fields)
	if err != nil {
		return "", fmt.Errorf("marshal fields: %w", err)
	}
	return string(data), nil
}

// unmarshalFields parses a stored snapshot. Integers decode exactly; the
// snapshot never holds floats.
func unmarshalFields(data string) (ir.IRObject, error) {
	if data == "" || data == "{}" {
		return ir.IRObject{}, nil
	}
	var obj ir.IRObject
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	return obj, nil
}

// marshalTarget stores an effect target as a canonical JSON array.
func marshalTarget(target []string) (string, error) {
	if target == nil {
		target = []string{}
	}
	data, err := ir.MarshalCanonical(target)
	if err != nil {
		return "", fmt.Errorf("marshal target: %w", err)
	}
	return string(data), nil
}

func unmarshalTarget(data string) ([]string, error) {
	target := []string{}
	if data == "" {
		return target, nil
	}
	if err := json.Unmarshal([]byte(data), &target); err != nil {
		return nil, fmt.Errorf("unmarshal target: %w", err)
	}
	return target, nil
}
