package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/herald/internal/ir"
)

func effect(action ir.ActionID, target ...string) ir.Effect {
	return ir.NewEffect("PHID-OBJ-1", action, target,
		ir.RuleRef{ID: "H1", AuthorPHID: "PHID-USER-author", Scope: ir.ScopePersonal}, "")
}

func TestStandardNothing(t *testing.T) {
	s := NewStandard("test")
	tr := s.ApplyStandardEffect(effect(ir.ActionNothing))

	assert.True(t, tr.Applied)
	assert.Equal(t, MsgNothing, tr.Reason)
}

func TestStandardEmailAndCC(t *testing.T) {
	s := NewStandard("test")

	assert.True(t, s.ApplyStandardEffect(effect(ir.ActionEmail, "U1", "U2")).Applied)
	assert.True(t, s.ApplyStandardEffect(effect(ir.ActionEmail, "U2")).Applied)
	assert.True(t, s.ApplyStandardEffect(effect(ir.ActionAddCC, "U3")).Applied)
	assert.True(t, s.ApplyStandardEffect(effect(ir.ActionRemoveCC, "U4")).Applied)

	res := s.Result()
	assert.Equal(t, []string{"U1", "U2"}, res.Email.Slice())
	assert.Equal(t, []string{"U3"}, res.AddCC.Slice())
	assert.Equal(t, []string{"U4"}, res.RemoveCC.Slice())
}

func TestStandardFlagOncePerAuthor(t *testing.T) {
	s := NewStandard("test")

	first := s.ApplyStandardEffect(effect(ir.ActionFlag, "red"))
	second := s.ApplyStandardEffect(effect(ir.ActionFlag, "blue"))

	assert.True(t, first.Applied)
	assert.Equal(t, MsgFlag, first.Reason)
	assert.False(t, second.Applied)
	assert.Equal(t, MsgAlreadyFlagged, second.Reason)

	require.Len(t, s.Result().Flags, 1)
	assert.Equal(t, Flag{OwnerPHID: "PHID-USER-author", Color: "red", RuleID: "H1"}, s.Result().Flags[0])
}

func TestStandardFlagRequiresAuthor(t *testing.T) {
	s := NewStandard("test")
	e := ir.NewEffect("PHID-OBJ-1", ir.ActionFlag, []string{"red"}, ir.RuleRef{ID: "H1"}, "")

	tr := s.ApplyStandardEffect(e)
	assert.False(t, tr.Applied)
	assert.Equal(t, MsgFlagNoAuthor, tr.Reason)
}

func TestStandardShapeMismatchFails(t *testing.T) {
	s := NewStandard("test")

	tr := s.ApplyStandardEffect(effect(ir.ActionFlag))
	assert.False(t, tr.Applied)
	assert.Contains(t, tr.Reason, "Invalid target")

	tr = s.ApplyStandardEffect(effect(ir.ActionNothing, "x"))
	assert.False(t, tr.Applied)
	assert.Empty(t, s.Result().Flags)
}

func TestStandardUnsupportedAction(t *testing.T) {
	s := NewStandard("test")
	tr := s.ApplyStandardEffect(effect("launch-rockets", "moon"))

	assert.False(t, tr.Applied)
	assert.Contains(t, tr.Reason, string(ErrCodeUnsupportedAction))
	assert.Contains(t, tr.Reason, "launch-rockets")
	assert.Equal(t, ir.ActionID("launch-rockets"), tr.Effect.Action)
}

func TestStandardCustomActions(t *testing.T) {
	ping := &stubAction{id: "ping", shape: ir.TargetSet, scopes: []ir.RuleScope{ir.ScopeGlobal}}
	other := &stubAction{id: "other", content: "commit", scopes: []ir.RuleScope{ir.ScopeGlobal}}
	s := NewStandard("differential", ping, other)

	assert.Equal(t, []ir.ActionID{"ping"}, s.CustomActions(ir.ScopeGlobal))
	assert.Empty(t, s.CustomActions(ir.ScopePersonal))

	tr := s.ApplyStandardEffect(effect("ping", "a"))
	assert.True(t, tr.Applied)
	assert.Len(t, ping.applied, 1)

	// Not registered for this content type.
	tr = s.ApplyStandardEffect(effect("other"))
	assert.False(t, tr.Applied)
	assert.Empty(t, other.applied)
}

func TestStandardIgnoresCustomBuiltinIDs(t *testing.T) {
	everywhere := []ir.RuleScope{ir.ScopeGlobal, ir.ScopePersonal, ir.ScopeObject}
	flag := &stubAction{id: ir.ActionFlag, shape: ir.TargetScalar, scopes: everywhere}
	plans := &stubAction{id: ir.ActionApplyBuildPlans, shape: ir.TargetSet, scopes: everywhere}
	s := NewStandard("test", flag, plans)

	assert.Empty(t, s.CustomActions(ir.ScopeGlobal))
	assert.Empty(t, s.CustomActions(ir.ScopePersonal))

	e := effect(ir.ActionFlag, "red")
	e.Rule.AuthorPHID = "PHID-USER-alice"
	tr := s.ApplyStandardEffect(e)
	assert.True(t, tr.Applied)
	assert.Empty(t, flag.applied)
}

func TestStandardCustomActionShapeChecked(t *testing.T) {
	ping := &stubAction{id: "ping", shape: ir.TargetScalar, scopes: []ir.RuleScope{ir.ScopeGlobal}}
	s := NewStandard("test", ping)

	tr := s.ApplyStandardEffect(effect("ping", "a", "b"))
	assert.False(t, tr.Applied)
	assert.Empty(t, ping.applied)
}
