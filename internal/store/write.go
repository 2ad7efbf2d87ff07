package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/herald/internal/ir"
)

// WritePass records p and its transcripts in one transaction.
//
// Writing a pass whose token is already stored is a no-op, so a retried
// write cannot duplicate transcripts. A different pass reusing a stored seq
// is an error: sequence numbers are unique per store.
func (s *Store) WritePass(ctx context.Context, p *ir.Pass) error {
	fieldsJSON, err := marshalFields(p.Fields)
	if err != nil {
		return fmt.Errorf("write pass %s: %w", p.Token, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write pass %s: begin: %w", p.Token, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO passes
		(token, seq, object_phid, object_name, content_type, fields, snapshot_hash, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		p.Token,
		p.Seq,
		p.ObjectPHID,
		p.ObjectName,
		p.ContentType,
		fieldsJSON,
		p.SnapshotHash,
		ir.EngineVersion,
		ir.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write pass %s: %w", p.Token, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return tx.Commit()
	}

	for i, t := range p.Transcripts {
		if err := writeTranscript(ctx, tx, p.Token, i, t); err != nil {
			return fmt.Errorf("write pass %s: %w", p.Token, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write pass %s: commit: %w", p.Token, err)
	}
	return nil
}

func writeTranscript(ctx context.Context, tx *sql.Tx, passToken string, idx int, t ir.ApplyTranscript) error {
	id, err := ir.TranscriptID(passToken, idx, t)
	if err != nil {
		return fmt.Errorf("transcript %d: %w", idx, err)
	}
	effectID, err := ir.EffectID(t.Effect)
	if err != nil {
		return fmt.Errorf("transcript %d: %w", idx, err)
	}
	targetJSON, err := marshalTarget(t.Effect.Target)
	if err != nil {
		return fmt.Errorf("transcript %d: %w", idx, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transcripts
		(id, pass_token, idx, effect_id, object_phid, action, target,
		 rule_id, rule_name, rule_author, rule_scope, reason, applied, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		id,
		passToken,
		idx,
		effectID,
		t.Effect.ObjectPHID,
		string(t.Effect.Action),
		targetJSON,
		t.Effect.Rule.ID,
		t.Effect.Rule.Name,
		t.Effect.Rule.AuthorPHID,
		string(t.Effect.Rule.Scope),
		t.Effect.Reason,
		boolToInt(t.Applied),
		t.Reason,
	)
	if err != nil {
		return fmt.Errorf("transcript %d: %w", idx, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
