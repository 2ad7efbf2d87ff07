package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/herald/internal/ir"
	"github.com/roach88/herald/internal/queryir"
)

func TestReadPass_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadPass(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadTranscripts_OrderedByIndex(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	p := createTestPass("pass-1", 1, "PHID-DREV-1",
		ir.ActionNothing, ir.ActionEmail, ir.ActionAddCC, ir.ActionAddReviewers)
	require.NoError(t, s.WritePass(ctx, p))

	got, err := s.ReadTranscripts(ctx, "pass-1")
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i, tr := range got {
		assert.Equal(t, i, tr.Index)
		assert.Equal(t, "pass-1", tr.PassToken)
		assert.Equal(t, p.Transcripts[i].Effect.Action, tr.Effect.Action)
		assert.Equal(t, ir.MustEffectID(p.Transcripts[i].Effect), tr.EffectID)

		wantID, err := ir.TranscriptID("pass-1", i, p.Transcripts[i])
		require.NoError(t, err)
		assert.Equal(t, wantID, tr.ID)
	}
}

func TestReadTranscripts_UnknownPassIsEmpty(t *testing.T) {
	s := createTestStore(t)

	got, err := s.ReadTranscripts(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListPasses(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WritePass(ctx, createTestPass("c", 3, "PHID-DREV-1")))
	require.NoError(t, s.WritePass(ctx, createTestPass("a", 1, "PHID-DREV-1")))
	require.NoError(t, s.WritePass(ctx, createTestPass("b", 2, "PHID-DREV-2")))

	all, err := s.ListPasses(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].Token, all[1].Token, all[2].Token})

	one, err := s.ListPasses(ctx, "PHID-DREV-1")
	require.NoError(t, err)
	require.Len(t, one, 2)
	assert.Equal(t, "a", one[0].Token)
	assert.Equal(t, "c", one[1].Token)

	none, err := s.ListPasses(ctx, "PHID-DREV-9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMaxSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.MaxSeq(ctx)
	require.NoError(t, err)
	assert.Zero(t, seq)

	require.NoError(t, s.WritePass(ctx, createTestPass("a", 7, "PHID-DREV-1")))
	require.NoError(t, s.WritePass(ctx, createTestPass("b", 3, "PHID-DREV-1")))

	seq, err = s.MaxSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)
}

func TestTranscriptsByEffect(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WritePass(ctx, createTestPass("later", 5, "PHID-DREV-1", ir.ActionEmail)))
	require.NoError(t, s.WritePass(ctx, createTestPass("earlier", 2, "PHID-DREV-1", ir.ActionEmail, ir.ActionNothing)))

	effect := ir.NewEffect("PHID-DREV-1", ir.ActionEmail, []string{"PHID-USER-x"}, testRule(), "")
	got, err := s.TranscriptsByEffect(ctx, ir.MustEffectID(effect))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "earlier", got[0].PassToken)
	assert.Equal(t, "later", got[1].PassToken)
}

func TestQueryTranscripts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WritePass(ctx, createTestPass("b", 2, "PHID-DREV-2", ir.ActionEmail, ir.ActionFlag)))
	require.NoError(t, s.WritePass(ctx, createTestPass("a", 1, "PHID-DREV-1", ir.ActionEmail, ir.ActionNothing, ir.ActionAddCC)))

	tests := []struct {
		name  string
		query queryir.Query
		want  []string
	}{
		{
			name:  "everything in order",
			query: queryir.Transcripts{},
			want:  []string{"a/0", "a/1", "a/2", "b/0", "b/1"},
		},
		{
			name:  "by action",
			query: queryir.Transcripts{Filter: queryir.Eq(queryir.FieldAction, string(ir.ActionEmail))},
			want:  []string{"a/0", "b/0"},
		},
		{
			name: "unapplied on one object",
			query: queryir.Transcripts{Filter: queryir.AllOf(
				queryir.Eq(queryir.FieldObjectPHID, "PHID-DREV-1"),
				queryir.Equals{Field: queryir.FieldApplied, Value: ir.IRBool(false)},
			)},
			want: []string{"a/1"},
		},
		{
			name: "action in set",
			query: queryir.Transcripts{Filter: queryir.In{Field: queryir.FieldAction, Values: []ir.IRValue{
				ir.IRString(ir.ActionFlag), ir.IRString(ir.ActionAddCC),
			}}},
			want: []string{"a/2", "b/1"},
		},
		{
			name:  "limit",
			query: queryir.Transcripts{Limit: 2},
			want:  []string{"a/0", "a/1"},
		},
		{
			name:  "no match",
			query: queryir.Transcripts{Filter: queryir.Eq(queryir.FieldRuleID, "H0")},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.QueryTranscripts(ctx, tt.query)
			require.NoError(t, err)
			keys := make([]string, 0, len(got))
			for _, tr := range got {
				keys = append(keys, fmt.Sprintf("%s/%d", tr.PassToken, tr.Index))
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestQueryTranscripts_InvalidQuery(t *testing.T) {
	s := createTestStore(t)

	_, err := s.QueryTranscripts(context.Background(), queryir.Transcripts{Filter: queryir.Eq("message", "x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")
}
