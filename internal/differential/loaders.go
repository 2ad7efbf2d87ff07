package differential

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
)

func (a *Adapter) loadChangesets(ctx context.Context) ([]*Changeset, error) {
	return a.changesets.Get(func() ([]*Changeset, error) {
		if a.diff == nil {
			return nil, nil
		}
		cs, err := a.src.LoadChangesets(ctx, a.diff)
		if err != nil {
			return nil, fmt.Errorf("load changesets for diff %d: %w", a.diff.ID, err)
		}
		return cs, nil
	})
}

// loadChangesetsWithHunks attaches hunks at most once per adapter.
func (a *Adapter) loadChangesetsWithHunks(ctx context.Context) ([]*Changeset, error) {
	return a.hunks.Get(func() ([]*Changeset, error) {
		cs, err := a.loadChangesets(ctx)
		if err != nil {
			return nil, err
		}
		if len(cs) == 0 {
			return cs, nil
		}
		if err := a.src.LoadHunks(ctx, cs); err != nil {
			return nil, fmt.Errorf("load hunks: %w", err)
		}
		return cs, nil
	})
}

func (a *Adapter) loadRepository(ctx context.Context) (*Repository, error) {
	return a.repository.Get(func() (*Repository, error) {
		repo, err := a.src.LoadRepository(ctx, a.revision)
		if err != nil {
			return nil, fmt.Errorf("load repository: %w", err)
		}
		return repo, nil
	})
}

// loadAffectedPaths returns the absolute repository path of every changed
// file, in changeset order.
func (a *Adapter) loadAffectedPaths(ctx context.Context) ([]string, error) {
	return a.affectedPaths.Get(func() ([]string, error) {
		cs, err := a.loadChangesets(ctx)
		if err != nil {
			return nil, err
		}
		repo, err := a.loadRepository(ctx)
		if err != nil {
			return nil, err
		}
		paths := make([]string, 0, len(cs))
		for _, c := range cs {
			paths = append(paths, a.absolutePath(repo, c))
		}
		return paths, nil
	})
}

func (a *Adapter) absolutePath(repo *Repository, c *Changeset) string {
	if repo == nil || a.diff == nil {
		return "/" + strings.TrimLeft(c.Filename, "/")
	}
	return path.Join("/", a.diff.SourceControlPath, c.Filename)
}

// loadAffectedPackages is empty without a repository or without paths.
func (a *Adapter) loadAffectedPackages(ctx context.Context) ([]Package, error) {
	return a.affectedPackages.Get(func() ([]Package, error) {
		repo, err := a.loadRepository(ctx)
		if err != nil {
			return nil, err
		}
		if repo == nil {
			return nil, nil
		}
		paths, err := a.loadAffectedPaths(ctx)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, nil
		}
		pkgs, err := a.src.LoadAffectedPackages(ctx, repo, paths)
		if err != nil {
			return nil, fmt.Errorf("load affected packages: %w", err)
		}
		return pkgs, nil
	})
}

func (a *Adapter) loadPackageOwners(ctx context.Context) ([]string, error) {
	pkgs, err := a.loadAffectedPackages(ctx)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(pkgs))
	for _, p := range pkgs {
		ids = append(ids, p.ID)
	}
	owners, err := a.src.LoadAffiliatedUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load package owners: %w", err)
	}
	return owners, nil
}

func (a *Adapter) loadAuthorProjects(ctx context.Context) ([]string, error) {
	author := a.revision.AuthorPHID
	if author == "" {
		return nil, nil
	}
	projects, err := a.src.LoadProjectsByMember(ctx, author)
	if err != nil {
		return nil, fmt.Errorf("load projects for %s: %w", author, err)
	}
	phids := make([]string, 0, len(projects))
	for _, p := range projects {
		phids = append(phids, p.PHID)
	}
	return phids, nil
}

func (a *Adapter) loadContent(ctx context.Context) (map[string]string, error) {
	return a.content.Get(func() (map[string]string, error) {
		return a.contentDictionary(ctx, lineAdded|lineRemoved)
	})
}

func (a *Adapter) loadAddedContent(ctx context.Context) (map[string]string, error) {
	return a.addedContent.Get(func() (map[string]string, error) {
		return a.contentDictionary(ctx, lineAdded)
	})
}

func (a *Adapter) loadRemovedContent(ctx context.Context) (map[string]string, error) {
	return a.removedContent.Get(func() (map[string]string, error) {
		return a.contentDictionary(ctx, lineRemoved)
	})
}

// contentDictionary maps each affected path to the lines of its hunks
// selected by mask.
func (a *Adapter) contentDictionary(ctx context.Context, mask lineKind) (map[string]string, error) {
	cs, err := a.loadChangesetsWithHunks(ctx)
	if err != nil {
		return nil, err
	}
	repo, err := a.loadRepository(ctx)
	if err != nil {
		return nil, err
	}
	dict := make(map[string]string, len(cs))
	for _, c := range cs {
		var lines []string
		for _, h := range c.Hunks {
			lines = append(lines, changedLines(h.Corpus, mask)...)
		}
		p := a.absolutePath(repo, c)
		if prev, ok := dict[p]; ok && prev != "" {
			lines = slices.Insert(lines, 0, prev)
		}
		dict[p] = strings.Join(lines, "\n")
	}
	return dict, nil
}
