package differential

import (
	"context"
	"errors"
	"slices"

	"github.com/roach88/herald/internal/adapter"
)

// fakeSource is an in-memory DataSource that counts calls.
type fakeSource struct {
	revisions  map[int64]*Revision
	changesets []*Changeset
	hunks      map[string][]*Hunk
	repo       *Repository
	packages   []Package
	owners     map[int64][]string
	projects   map[string][]Project

	repoErr error

	calls map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		revisions: make(map[int64]*Revision),
		hunks:     make(map[string][]*Hunk),
		owners:    make(map[int64][]string),
		projects:  make(map[string][]Project),
		calls:     make(map[string]int),
	}
}

func (f *fakeSource) LoadRevision(_ context.Context, q Query) (*Revision, error) {
	f.calls["revision"]++
	for _, id := range q.IDs {
		if rev, ok := f.revisions[id]; ok {
			return rev, nil
		}
	}
	return nil, adapter.NewNotFoundError("revision")
}

func (f *fakeSource) LoadChangesets(context.Context, *Diff) ([]*Changeset, error) {
	f.calls["changesets"]++
	out := make([]*Changeset, 0, len(f.changesets))
	for _, c := range f.changesets {
		out = append(out, &Changeset{Filename: c.Filename})
	}
	return out, nil
}

func (f *fakeSource) LoadHunks(_ context.Context, cs []*Changeset) error {
	f.calls["hunks"]++
	for _, c := range cs {
		c.Hunks = f.hunks[c.Filename]
	}
	return nil
}

func (f *fakeSource) LoadRepository(context.Context, *Revision) (*Repository, error) {
	f.calls["repository"]++
	if f.repoErr != nil {
		return nil, f.repoErr
	}
	return f.repo, nil
}

func (f *fakeSource) LoadAffectedPackages(context.Context, *Repository, []string) ([]Package, error) {
	f.calls["packages"]++
	return f.packages, nil
}

func (f *fakeSource) LoadAffiliatedUsers(_ context.Context, ids []int64) ([]string, error) {
	f.calls["owners"]++
	var out []string
	for _, id := range ids {
		for _, u := range f.owners[id] {
			if !slices.Contains(out, u) {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeSource) LoadProjectsByMember(_ context.Context, user string) ([]Project, error) {
	f.calls["projects"]++
	return f.projects[user], nil
}

var errBoom = errors.New("boom")
