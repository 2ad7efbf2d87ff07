package differential

import "context"

// DataSource is the persistence layer the adapter reads from. Calls block;
// the adapter sets no deadlines and relies on ctx from the caller.
//
// Implementations must tolerate empty inputs (no changesets, no paths, no
// package IDs) by returning empty results.
type DataSource interface {
	// LoadRevision returns the single revision matching q, with the
	// relationships q asks for. Fails with a NotFound error if nothing
	// matches.
	LoadRevision(ctx context.Context, q Query) (*Revision, error)

	// LoadChangesets returns diff's changesets in order, without hunks.
	LoadChangesets(ctx context.Context, diff *Diff) ([]*Changeset, error)

	// LoadHunks attaches hunks to each changeset.
	LoadHunks(ctx context.Context, changesets []*Changeset) error

	// LoadRepository returns the revision's repository, or nil if it has
	// none.
	LoadRepository(ctx context.Context, rev *Revision) (*Repository, error)

	// LoadAffectedPackages returns the owners packages in repo whose paths
	// contain any of paths.
	LoadAffectedPackages(ctx context.Context, repo *Repository, paths []string) ([]Package, error)

	// LoadAffiliatedUsers returns the PHIDs of users owning any of the
	// packages, directly or through a project.
	LoadAffiliatedUsers(ctx context.Context, packageIDs []int64) ([]string, error)

	// LoadProjectsByMember returns the projects userPHID belongs to.
	LoadProjectsByMember(ctx context.Context, userPHID string) ([]Project, error)
}
