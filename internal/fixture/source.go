package fixture

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/herald/internal/adapter"
	"github.com/roach88/herald/internal/differential"
)

// LoadRevision returns a copy of the first revision matching q.
func (w *World) LoadRevision(_ context.Context, q differential.Query) (*differential.Revision, error) {
	if err := w.enter(LoaderRevision); err != nil {
		return nil, err
	}
	for _, r := range w.doc.Revisions {
		if slices.Contains(q.IDs, r.ID) || slices.Contains(q.PHIDs, r.PHID) {
			rev := r.Revision
			if !q.NeedRelationships {
				rev.Reviewers = nil
				rev.CCPHIDs = nil
			} else {
				rev.Reviewers = slices.Clone(r.Reviewers)
				rev.CCPHIDs = slices.Clone(r.CCPHIDs)
				if !q.NeedReviewerStatus {
					for i := range rev.Reviewers {
						rev.Reviewers[i].Status = ""
					}
				}
			}
			return &rev, nil
		}
	}
	return nil, adapter.NewNotFoundError(fmt.Sprintf("revision matching ids=%v phids=%v", q.IDs, q.PHIDs))
}

// LoadChangesets returns diff's changesets without hunks.
func (w *World) LoadChangesets(_ context.Context, diff *differential.Diff) ([]*differential.Changeset, error) {
	if err := w.enter(LoaderChangesets); err != nil {
		return nil, err
	}
	doc := w.diff(diff)
	if doc == nil {
		return nil, nil
	}
	out := make([]*differential.Changeset, 0, len(doc.Changesets))
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range doc.Changesets {
		cs := &differential.Changeset{Filename: c.Filename}
		w.origin[cs] = c
		out = append(out, cs)
	}
	return out, nil
}

// LoadHunks attaches hunks to changesets this world returned. Changesets
// from elsewhere get none.
func (w *World) LoadHunks(_ context.Context, changesets []*differential.Changeset) error {
	if err := w.enter(LoaderHunks); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range changesets {
		if src, ok := w.origin[c]; ok {
			c.Hunks = slices.Clone(src.Hunks)
		}
	}
	return nil
}

func (w *World) diff(d *differential.Diff) *DiffDoc {
	if d == nil {
		return nil
	}
	for _, r := range w.doc.Revisions {
		if r.Diff != nil && r.Diff.PHID == d.PHID {
			return r.Diff
		}
	}
	return nil
}

// LoadRepository returns rev's repository, or nil if it has none or the
// world does not know it.
func (w *World) LoadRepository(_ context.Context, rev *differential.Revision) (*differential.Repository, error) {
	if err := w.enter(LoaderRepository); err != nil {
		return nil, err
	}
	if rev == nil || rev.RepositoryPHID == "" {
		return nil, nil
	}
	for _, repo := range w.doc.Repositories {
		if repo.PHID == rev.RepositoryPHID {
			return repo, nil
		}
	}
	return nil, nil
}

// LoadAffectedPackages returns the packages in repo claiming a prefix of
// any path, in document order.
func (w *World) LoadAffectedPackages(_ context.Context, repo *differential.Repository, paths []string) ([]differential.Package, error) {
	if err := w.enter(LoaderPackages); err != nil {
		return nil, err
	}
	var out []differential.Package
	if repo == nil {
		return out, nil
	}
	for _, p := range w.doc.Packages {
		if p.Repository == repo.PHID && claimsAny(p.Paths, paths) {
			out = append(out, p.Package)
		}
	}
	return out, nil
}

func claimsAny(prefixes, paths []string) bool {
	for _, prefix := range prefixes {
		for _, path := range paths {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}
	return false
}

// LoadAffiliatedUsers returns the direct owners of the packages followed
// by members of their owner projects, without duplicates.
func (w *World) LoadAffiliatedUsers(_ context.Context, packageIDs []int64) ([]string, error) {
	if err := w.enter(LoaderOwners); err != nil {
		return nil, err
	}
	var users []string
	add := func(ids ...string) {
		for _, id := range ids {
			if !slices.Contains(users, id) {
				users = append(users, id)
			}
		}
	}
	for _, p := range w.doc.Packages {
		if !slices.Contains(packageIDs, p.ID) {
			continue
		}
		add(p.Owners...)
		for _, proj := range w.doc.Projects {
			if slices.Contains(p.OwnerProjects, proj.PHID) {
				add(proj.Members...)
			}
		}
	}
	return users, nil
}

// LoadProjectsByMember returns the projects userPHID belongs to.
func (w *World) LoadProjectsByMember(_ context.Context, userPHID string) ([]differential.Project, error) {
	if err := w.enter(LoaderProjects); err != nil {
		return nil, err
	}
	var out []differential.Project
	for _, p := range w.doc.Projects {
		if slices.Contains(p.Members, userPHID) {
			out = append(out, p.Project)
		}
	}
	return out, nil
}
