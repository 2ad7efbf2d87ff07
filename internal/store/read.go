package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/herald/internal/ir"
	"github.com/roach88/herald/internal/queryir"
	"github.com/roach88/herald/internal/querysql"
)

// ErrNotFound is returned when a requested pass does not exist.
var ErrNotFound = errors.New("not found")

const passColumns = `token, seq, object_phid, object_name, content_type, fields, snapshot_hash`

const transcriptColumns = `id, pass_token, idx, effect_id, object_phid, action, target,
	rule_id, rule_name, rule_author, rule_scope, reason, applied, message`

type scanner interface {
	Scan(dest ...any) error
}

// ReadPass returns the pass with token, transcripts included.
// Fails with ErrNotFound if there is none.
func (s *Store) ReadPass(ctx context.Context, token string) (*ir.Pass, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+passColumns+` FROM passes WHERE token = ?`, token)
	p, err := scanPass(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read pass %s: %w", token, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read pass %s: %w", token, err)
	}

	stored, err := s.ReadTranscripts(ctx, token)
	if err != nil {
		return nil, err
	}
	p.Transcripts = make([]ir.ApplyTranscript, 0, len(stored))
	for _, t := range stored {
		p.Transcripts = append(p.Transcripts, t.ApplyTranscript)
	}
	return p, nil
}

// ReadTranscripts returns a pass's transcripts in effect order.
// An unknown token yields an empty slice.
func (s *Store) ReadTranscripts(ctx context.Context, passToken string) ([]ir.StoredTranscript, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transcriptColumns+`
		FROM transcripts
		WHERE pass_token = ?
		ORDER BY idx ASC
	`, passToken)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	return collectTranscripts(rows)
}

// TranscriptsByEffect returns every stored application of the effect with
// effectID, oldest pass first.
func (s *Store) TranscriptsByEffect(ctx context.Context, effectID string) ([]ir.StoredTranscript, error) {
	got, err := s.QueryTranscripts(ctx, queryir.Transcripts{
		Filter: queryir.Eq(queryir.FieldEffectID, effectID),
	})
	if err != nil {
		return nil, fmt.Errorf("transcripts by effect: %w", err)
	}
	return got, nil
}

// QueryTranscripts runs a filter query over the transcript log. Results
// are ordered by pass seq, then effect index.
func (s *Store) QueryTranscripts(ctx context.Context, q queryir.Query) ([]ir.StoredTranscript, error) {
	query, params, err := querysql.NewSQLCompiler().Compile(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	return collectTranscripts(rows)
}

// ListPasses returns passes without their transcripts, ORDER BY seq. An
// empty objectPHID lists every pass.
func (s *Store) ListPasses(ctx context.Context, objectPHID string) ([]*ir.Pass, error) {
	query := `SELECT ` + passColumns + ` FROM passes`
	var args []any
	if objectPHID != "" {
		query += ` WHERE object_phid = ?`
		args = append(args, objectPHID)
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query passes: %w", err)
	}
	defer rows.Close()

	passes := []*ir.Pass{}
	for rows.Next() {
		p, err := scanPass(rows)
		if err != nil {
			return nil, err
		}
		passes = append(passes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passes: %w", err)
	}
	return passes, nil
}

// MaxSeq returns the highest stored pass sequence, or 0 for an empty store.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM passes`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("query max seq: %w", err)
	}
	return seq.Int64, nil
}

func scanPass(row scanner) (*ir.Pass, error) {
	var (
		p          ir.Pass
		fieldsJSON string
	)
	if err := row.Scan(&p.Token, &p.Seq, &p.ObjectPHID, &p.ObjectName, &p.ContentType, &fieldsJSON, &p.SnapshotHash); err != nil {
		return nil, err
	}
	fields, err := unmarshalFields(fieldsJSON)
	if err != nil {
		return nil, fmt.Errorf("pass %s: %w", p.Token, err)
	}
	p.Fields = fields
	return &p, nil
}

func collectTranscripts(rows *sql.Rows) ([]ir.StoredTranscript, error) {
	defer rows.Close()

	out := []ir.StoredTranscript{}
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}
	return out, nil
}

func scanTranscript(row scanner) (ir.StoredTranscript, error) {
	var (
		t          ir.StoredTranscript
		action     string
		targetJSON string
		scope      string
		applied    int
	)
	err := row.Scan(
		&t.ID,
		&t.PassToken,
		&t.Index,
		&t.EffectID,
		&t.Effect.ObjectPHID,
		&action,
		&targetJSON,
		&t.Effect.Rule.ID,
		&t.Effect.Rule.Name,
		&t.Effect.Rule.AuthorPHID,
		&scope,
		&t.Effect.Reason,
		&applied,
		&t.Reason,
	)
	if err != nil {
		return ir.StoredTranscript{}, fmt.Errorf("scan transcript: %w", err)
	}
	target, err := unmarshalTarget(targetJSON)
	if err != nil {
		return ir.StoredTranscript{}, fmt.Errorf("transcript %s: %w", t.ID, err)
	}
	t.Effect.Action = ir.ActionID(action)
	t.Effect.Target = target
	t.Effect.Rule.Scope = ir.RuleScope(scope)
	t.Applied = applied == 1
	return t, nil
}
