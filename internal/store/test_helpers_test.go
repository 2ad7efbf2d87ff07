package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/herald/internal/ir"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRule() ir.RuleRef {
	return ir.RuleRef{ID: "H42", Name: "Add security", AuthorPHID: "PHID-USER-admin", Scope: ir.ScopeGlobal}
}

// createTestPass builds a pass over object with one transcript per action.
func createTestPass(token string, seq int64, object string, actions ...ir.ActionID) *ir.Pass {
	fields := ir.IRObject{
		"title":     ir.IRString("Title " + token),
		"always":    ir.IRBool(true),
		"rule":      ir.IRNull{},
		"diff-file": ir.Strings("/a.go"),
	}
	hash, err := ir.SnapshotHash(fields)
	if err != nil {
		panic(err)
	}
	p := &ir.Pass{
		Token:        token,
		Seq:          seq,
		ObjectPHID:   object,
		ObjectName:   "Name " + token,
		ContentType:  "differential",
		Fields:       fields,
		SnapshotHash: hash,
	}
	for i, a := range actions {
		e := ir.NewEffect(object, a, []string{"PHID-USER-x"}, testRule(), "")
		p.Transcripts = append(p.Transcripts, ir.NewApplyTranscript(e, i%2 == 0, "message"))
	}
	return p
}
