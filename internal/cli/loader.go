package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/herald/internal/compiler"
	"github.com/roach88/herald/internal/ir"
)

// LoadError is a failure to read an effect document, with its CUE
// position when known.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadEffects reads effects from a CUE file, or from the CUE package in a
// directory.
func LoadEffects(path string) ([]ir.Effect, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("effects not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing effects: %v", err)}
	}

	var value cue.Value
	if info.IsDir() {
		value, err = buildDir(path)
	} else {
		value, err = buildFile(path)
	}
	if err != nil {
		return nil, err
	}

	effects, err := compiler.CompileEffects(value)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return effects, nil
}

func buildFile(path string) (cue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	value := cuecontext.New().CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return value, nil
}

func buildDir(dir string) (cue.Value, error) {
	files, err := FindCUEFiles(dir)
	if err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return cue.Value{}, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	return value, nil
}

// FindCUEFiles returns the .cue files directly in dir.
func FindCUEFiles(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*.cue"))
}

func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// Error codes shared by all commands.
const (
	ErrCodeGeneric     = "E001"
	ErrCodeScanError   = "E002"
	ErrCodeNoFiles     = "E003"
	ErrCodeLoadFailed  = "E004"
	ErrCodeNotFound    = "E005"
	ErrCodeBuildFailed = "E006"
	ErrCodeWriteFailed = "E007"

	// Effect document errors
	ErrCodeEffectList   = "E101"
	ErrCodeEffectObject = "E102"
	ErrCodeEffectAction = "E103"
	ErrCodeEffectTarget = "E104"
	ErrCodeEffectRule   = "E105"
	ErrCodeEffectScope  = "E106"

	// Evaluation errors
	ErrCodePassFailed = "E201"
	ErrCodeNoObject   = "E202"
)

// MapFieldToErrorCode maps a compiler error field such as
// "effect[2].rule.scope" to an error code.
func MapFieldToErrorCode(field string) string {
	switch last := lastSegment(field); {
	case field == "effect":
		return ErrCodeEffectList
	case last == "object":
		return ErrCodeEffectObject
	case last == "action":
		return ErrCodeEffectAction
	case last == "target" || isIndexed(last, "target"):
		return ErrCodeEffectTarget
	case last == "scope":
		return ErrCodeEffectScope
	case last == "rule" || last == "id" || last == "name" || last == "author":
		return ErrCodeEffectRule
	default:
		return ErrCodeGeneric
	}
}

func lastSegment(field string) string {
	return field[strings.LastIndex(field, ".")+1:]
}

func isIndexed(segment, name string) bool {
	return strings.HasPrefix(segment, name+"[")
}
