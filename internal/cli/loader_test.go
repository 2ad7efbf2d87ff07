package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/herald/internal/ir"
)

func TestLoadEffects_File(t *testing.T) {
	effects, err := LoadEffects(filepath.Join("testdata", "effects.cue"))
	require.NoError(t, err)
	require.Len(t, effects, 4)

	assert.Equal(t, "PHID-DREV-12", effects[0].ObjectPHID)
	assert.Equal(t, ir.ActionAddReviewers, effects[0].Action)
	assert.Equal(t, "Storage reviewers", effects[0].Rule.Name)
	assert.Equal(t, []string{"red"}, effects[2].Target)
	assert.Equal(t, "PHID-DREV-13", effects[3].ObjectPHID)
}

func TestLoadEffects_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"), []byte("package effects\n\nobject: \"PHID-DREV-1\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.cue"), []byte(`package effects

effect: [{action: "nothing", rule: {id: "H1", scope: "global"}}]
`), 0o644))

	effects, err := LoadEffects(dir)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, "PHID-DREV-1", effects[0].ObjectPHID)
}

func TestLoadEffects_EmptyDirectory(t *testing.T) {
	_, err := LoadEffects(t.TempDir())
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeNoFiles, le.Code)
}

func TestLoadEffects_SyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(`effect: [`), 0o644))

	_, err := LoadEffects(path)
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeBuildFailed, le.Code)
}

func TestLoadEffects_CompileErrorKeepsPosition(t *testing.T) {
	_, err := LoadEffects(filepath.Join("testdata", "bad_scope.cue"))
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeEffectScope, le.Code)
	assert.True(t, le.Pos.IsValid())
	assert.Contains(t, err.Error(), "bad_scope.cue")
}

func TestMapFieldToErrorCode(t *testing.T) {
	tests := map[string]string{
		"effect":               ErrCodeEffectList,
		"object":               ErrCodeEffectObject,
		"effect[0].object":     ErrCodeEffectObject,
		"effect[1].action":     ErrCodeEffectAction,
		"effect[0].target":     ErrCodeEffectTarget,
		"effect[0].target[2]":  ErrCodeEffectTarget,
		"effect[0].rule":       ErrCodeEffectRule,
		"effect[0].rule.id":    ErrCodeEffectRule,
		"effect[0].rule.scope": ErrCodeEffectScope,
		"effect[0].reason":     ErrCodeGeneric,
		"cue":                  ErrCodeGeneric,
	}
	for field, want := range tests {
		assert.Equal(t, want, MapFieldToErrorCode(field), field)
	}
}
