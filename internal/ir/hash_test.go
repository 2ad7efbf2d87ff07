package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRule() RuleRef {
	return RuleRef{ID: "H1", Name: "Core reviewers", AuthorPHID: "PHID-USER-admin", Scope: ScopeGlobal}
}

func TestEffectIDDeterminism(t *testing.T) {
	e := NewEffect("PHID-DREV-1", ActionAddReviewers, []string{"PHID-USER-a"}, testRule(), "")

	id1, err := EffectID(e)
	require.NoError(t, err)
	id2, err := EffectID(e)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestEffectIDChangesWithContent(t *testing.T) {
	base := NewEffect("PHID-DREV-1", ActionAddReviewers, []string{"PHID-USER-a"}, testRule(), "")

	otherTarget := NewEffect("PHID-DREV-1", ActionAddReviewers, []string{"PHID-USER-b"}, testRule(), "")
	otherAction := NewEffect("PHID-DREV-1", ActionAddBlockingReviewers, []string{"PHID-USER-a"}, testRule(), "")
	otherObject := NewEffect("PHID-DREV-2", ActionAddReviewers, []string{"PHID-USER-a"}, testRule(), "")

	rule := testRule()
	rule.ID = "H2"
	otherRule := NewEffect("PHID-DREV-1", ActionAddReviewers, []string{"PHID-USER-a"}, rule, "")

	id := MustEffectID(base)
	assert.NotEqual(t, id, MustEffectID(otherTarget))
	assert.NotEqual(t, id, MustEffectID(otherAction))
	assert.NotEqual(t, id, MustEffectID(otherObject))
	assert.NotEqual(t, id, MustEffectID(otherRule))
}

func TestEffectIDTargetOrderMatters(t *testing.T) {
	ab := NewEffect("PHID-DREV-1", ActionApplyBuildPlans, []string{"A", "B"}, testRule(), "")
	ba := NewEffect("PHID-DREV-1", ActionApplyBuildPlans, []string{"B", "A"}, testRule(), "")
	assert.NotEqual(t, MustEffectID(ab), MustEffectID(ba))
}

func TestTranscriptIDIncludesPositionAndOutcome(t *testing.T) {
	e := NewEffect("PHID-DREV-1", ActionAddReviewers, []string{"PHID-USER-a"}, testRule(), "")
	ok := NewApplyTranscript(e, true, "Added reviewers.")
	failed := NewApplyTranscript(e, false, "Added reviewers.")

	id0, err := TranscriptID("pass-1", 0, ok)
	require.NoError(t, err)
	id1, err := TranscriptID("pass-1", 1, ok)
	require.NoError(t, err)
	idOtherPass, err := TranscriptID("pass-2", 0, ok)
	require.NoError(t, err)
	idFailed, err := TranscriptID("pass-1", 0, failed)
	require.NoError(t, err)

	assert.NotEqual(t, id0, id1)
	assert.NotEqual(t, id0, idOtherPass)
	assert.NotEqual(t, id0, idFailed)
}

func TestDomainSeparation(t *testing.T) {
	data := []byte(`{}`)
	assert.NotEqual(t,
		hashWithDomain(DomainEffect, data),
		hashWithDomain(DomainSnapshot, data),
		"same data in different domains must not collide")
}

func TestSnapshotHashStableAcrossMapOrder(t *testing.T) {
	a := IRObject{"title": IRString("x"), "repository": IRNull{}}
	b := IRObject{"repository": IRNull{}, "title": IRString("x")}

	ha, err := SnapshotHash(a)
	require.NoError(t, err)
	hb, err := SnapshotHash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}
