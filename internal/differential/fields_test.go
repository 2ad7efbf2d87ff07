package differential

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/herald/internal/adapter"
	"github.com/roach88/herald/internal/ir"
)

func field(t *testing.T, a *Adapter, id ir.FieldID) ir.IRValue {
	t.Helper()
	v, err := a.HeraldField(context.Background(), id)
	require.NoError(t, err)
	return v
}

func TestScalarFields(t *testing.T) {
	a := bound(newFakeSource())

	assert.Equal(t, ir.IRString("Fix the frobnicator"), field(t, a, ir.FieldTitle))
	assert.Equal(t, ir.IRString("It was broken.\nRan it."), field(t, a, ir.FieldBody))
	assert.Equal(t, ir.IRString("PHID-USER-alice"), field(t, a, ir.FieldAuthor))
	assert.Equal(t, ir.Strings("PHID-USER-cc"), field(t, a, ir.FieldCC))
}

func TestBodyWithEmptyParts(t *testing.T) {
	a := bound(newFakeSource())
	a.Revision().Summary = ""
	a.Revision().TestPlan = ""

	assert.Equal(t, ir.IRString("\n"), field(t, a, ir.FieldBody))
}

func TestAuthorProjectsShortCircuits(t *testing.T) {
	src := newFakeSource()
	a := bound(src)
	a.Revision().AuthorPHID = ""

	assert.Equal(t, ir.Strings(), field(t, a, ir.FieldAuthorProjects))
	assert.Zero(t, src.calls["projects"])
}

func TestAuthorProjects(t *testing.T) {
	src := newFakeSource()
	src.projects["PHID-USER-alice"] = []Project{
		{PHID: "PHID-PROJ-a", Name: "Alpha"},
		{PHID: "PHID-PROJ-b", Name: "Beta"},
	}
	a := bound(src)

	assert.Equal(t, ir.Strings("PHID-PROJ-a", "PHID-PROJ-b"), field(t, a, ir.FieldAuthorProjects))
	assert.Equal(t, 1, src.calls["projects"])
}

func TestReviewersOverride(t *testing.T) {
	a := bound(newFakeSource())

	assert.Equal(t, ir.Strings("PHID-USER-u1", "PHID-USER-u2"), field(t, a, ir.FieldReviewers))

	a.SetExplicitReviewers(map[string]ReviewerStatus{"PHID-USER-u3": ReviewerAdded})
	assert.Equal(t, ir.Strings("PHID-USER-u3"), field(t, a, ir.FieldReviewers))

	a.SetExplicitReviewers(map[string]ReviewerStatus{})
	assert.Equal(t, ir.Strings(), field(t, a, ir.FieldReviewers))

	a.SetExplicitReviewers(nil)
	assert.Equal(t, ir.Strings("PHID-USER-u1", "PHID-USER-u2"), field(t, a, ir.FieldReviewers))
}

func TestReviewersOverrideIsSorted(t *testing.T) {
	a := bound(newFakeSource())
	a.SetExplicitReviewers(map[string]ReviewerStatus{
		"PHID-USER-c": ReviewerAdded,
		"PHID-USER-a": ReviewerBlocking,
		"PHID-USER-b": ReviewerAdded,
	})

	assert.Equal(t, ir.Strings("PHID-USER-a", "PHID-USER-b", "PHID-USER-c"), field(t, a, ir.FieldReviewers))
}

func TestRepositoryFields(t *testing.T) {
	src := newFakeSource()
	a := bound(src)

	assert.Equal(t, ir.IRNull{}, field(t, a, ir.FieldRepository))
	assert.Equal(t, ir.Strings(), field(t, a, ir.FieldRepositoryProjects))

	src.repo = &Repository{PHID: "PHID-REPO-1", ProjectPHIDs: []string{"PHID-PROJ-r"}}
	a = bound(src)
	assert.Equal(t, ir.IRString("PHID-REPO-1"), field(t, a, ir.FieldRepository))
	assert.Equal(t, ir.Strings("PHID-PROJ-r"), field(t, a, ir.FieldRepositoryProjects))
}

func withDiff(src *fakeSource) {
	src.repo = &Repository{PHID: "PHID-REPO-1"}
	src.changesets = []*Changeset{{Filename: "src/a.go"}, {Filename: "README"}}
	src.hunks["src/a.go"] = []*Hunk{
		{OldOffset: 1, NewOffset: 1, Corpus: " package a\n-var x = 1\n+var x = 2\n+var y = 3\n"},
		{OldOffset: 20, NewOffset: 21, Corpus: "-// old\n\\ No newline at end of file\n"},
	}
	src.hunks["README"] = []*Hunk{
		{OldOffset: 1, NewOffset: 1, Corpus: "+hello"},
	}
}

func TestDiffFile(t *testing.T) {
	src := newFakeSource()
	withDiff(src)
	a := bound(src)

	assert.Equal(t, ir.Strings("/trunk/src/a.go", "/trunk/README"), field(t, a, ir.FieldDiffFile))
}

func TestDiffFileWithoutRepository(t *testing.T) {
	src := newFakeSource()
	withDiff(src)
	src.repo = nil
	a := bound(src)

	assert.Equal(t, ir.Strings("/src/a.go", "/README"), field(t, a, ir.FieldDiffFile))
}

func TestDiffContentDictionaries(t *testing.T) {
	src := newFakeSource()
	withDiff(src)
	a := bound(src)

	assert.Equal(t, ir.IRObject{
		"/trunk/src/a.go": ir.IRString("var x = 1\nvar x = 2\nvar y = 3\n// old"),
		"/trunk/README":   ir.IRString("hello"),
	}, field(t, a, ir.FieldDiffContent))

	assert.Equal(t, ir.IRObject{
		"/trunk/src/a.go": ir.IRString("var x = 2\nvar y = 3"),
		"/trunk/README":   ir.IRString("hello"),
	}, field(t, a, ir.FieldDiffAddedContent))

	assert.Equal(t, ir.IRObject{
		"/trunk/src/a.go": ir.IRString("var x = 1\n// old"),
		"/trunk/README":   ir.IRString(""),
	}, field(t, a, ir.FieldDiffRemovedContent))
}

func TestDerivedFieldsAreMemoized(t *testing.T) {
	src := newFakeSource()
	withDiff(src)
	a := bound(src)

	for i := 0; i < 3; i++ {
		field(t, a, ir.FieldDiffFile)
		field(t, a, ir.FieldDiffContent)
		field(t, a, ir.FieldDiffAddedContent)
		field(t, a, ir.FieldAffectedPackage)
	}

	assert.Equal(t, 1, src.calls["changesets"])
	assert.Equal(t, 1, src.calls["hunks"])
	assert.Equal(t, 1, src.calls["repository"])
	assert.Equal(t, 1, src.calls["packages"])

	// A fresh adapter has its own caches.
	field(t, bound(src), ir.FieldDiffFile)
	assert.Equal(t, 2, src.calls["changesets"])
}

func TestDiffFieldsWithoutDiff(t *testing.T) {
	src := newFakeSource()
	withDiff(src)
	a := New(src)
	a.SetObject(testRevision(), nil)

	assert.Equal(t, ir.Strings(), field(t, a, ir.FieldDiffFile))
	assert.Equal(t, ir.IRObject{}, field(t, a, ir.FieldDiffContent))
	assert.Zero(t, src.calls["changesets"])
	assert.Zero(t, src.calls["hunks"])
}

func TestAffectedPackages(t *testing.T) {
	src := newFakeSource()
	withDiff(src)
	src.packages = []Package{{ID: 1, PHID: "PHID-OPKG-1"}, {ID: 2, PHID: "PHID-OPKG-2"}}
	src.owners[1] = []string{"PHID-USER-o1"}
	src.owners[2] = []string{"PHID-USER-o2", "PHID-USER-o1"}
	a := bound(src)

	assert.Equal(t, ir.Strings("PHID-OPKG-1", "PHID-OPKG-2"), field(t, a, ir.FieldAffectedPackage))
	assert.Equal(t, ir.Strings("PHID-USER-o1", "PHID-USER-o2"), field(t, a, ir.FieldAffectedPackageOwner))
}

func TestAffectedPackagesWithoutRepository(t *testing.T) {
	src := newFakeSource()
	withDiff(src)
	src.repo = nil
	src.packages = []Package{{ID: 1, PHID: "PHID-OPKG-1"}}
	a := bound(src)

	assert.Equal(t, ir.Strings(), field(t, a, ir.FieldAffectedPackage))
	assert.Equal(t, ir.Strings(), field(t, a, ir.FieldAffectedPackageOwner))
	assert.Zero(t, src.calls["packages"])
	assert.Zero(t, src.calls["owners"])
}

func TestLoadFailureSurfaces(t *testing.T) {
	src := newFakeSource()
	src.repoErr = errBoom
	a := bound(src)

	_, err := a.HeraldField(context.Background(), ir.FieldRepository)
	require.Error(t, err)
	assert.True(t, adapter.IsExternalLoadFailure(err))
	assert.ErrorIs(t, err, errBoom)

	// Failures are not cached.
	src.repoErr = nil
	src.repo = &Repository{PHID: "PHID-REPO-1"}
	assert.Equal(t, ir.IRString("PHID-REPO-1"), field(t, a, ir.FieldRepository))
}

func TestUnknownField(t *testing.T) {
	a := bound(newFakeSource())

	_, err := a.HeraldField(context.Background(), "no-such-field")
	assert.True(t, adapter.IsUnknownField(err))

	_, err = a.Base.HeraldField(context.Background(), "no-such-field")
	assert.True(t, adapter.IsUnknownField(err))
}

func TestNewObjectField(t *testing.T) {
	a := bound(newFakeSource())
	assert.Equal(t, ir.IRBool(false), field(t, a, ir.FieldNewObject))

	a.SetNewObject(true)
	assert.Equal(t, ir.IRBool(true), field(t, a, ir.FieldNewObject))
}
