package fixture

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/roach88/herald/internal/adapter"
	"github.com/roach88/herald/internal/differential"
)

// Loader names, as used by Calls and the failures map.
const (
	LoaderRevision   = "revision"
	LoaderChangesets = "changesets"
	LoaderHunks      = "hunks"
	LoaderRepository = "repository"
	LoaderPackages   = "packages"
	LoaderOwners     = "owners"
	LoaderProjects   = "projects"
)

// RevisionDoc is a revision with its current diff.
type RevisionDoc struct {
	differential.Revision `yaml:",inline"`
	Diff                  *DiffDoc `yaml:"diff,omitempty"`
}

// DiffDoc is a diff with its changesets and hunks.
type DiffDoc struct {
	differential.Diff `yaml:",inline"`
	Changesets        []*differential.Changeset `yaml:"changesets"`
}

// PackageDoc is an owners package: the paths it claims in one repository
// and who owns it.
type PackageDoc struct {
	differential.Package `yaml:",inline"`
	Repository           string   `yaml:"repository"`
	Paths                []string `yaml:"paths"`
	Owners               []string `yaml:"owners"`
	OwnerProjects        []string `yaml:"owner_projects"`
}

// ProjectDoc is a project and its members.
type ProjectDoc struct {
	differential.Project `yaml:",inline"`
	Members              []string `yaml:"members"`
}

// Document is the YAML layout of a world file.
type Document struct {
	Revisions    []*RevisionDoc             `yaml:"revisions"`
	Repositories []*differential.Repository `yaml:"repositories"`
	Packages     []*PackageDoc              `yaml:"packages"`
	Projects     []*ProjectDoc              `yaml:"projects"`

	// Failures makes the named loader fail with the given message.
	Failures map[string]string `yaml:"failures"`
}

// World serves a Document as a DataSource. Safe for concurrent use.
type World struct {
	doc Document

	mu     sync.Mutex
	calls  map[string]int
	origin map[*differential.Changeset]*differential.Changeset
}

var _ differential.DataSource = (*World)(nil)

// LoadFile reads a world from a YAML file.
func LoadFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world: %w", err)
	}
	w, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// Parse reads a world from YAML.
func Parse(data []byte) (*World, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse world: %w", err)
	}
	return New(doc)
}

// New validates doc and wraps it in a World.
func New(doc Document) (*World, error) {
	ids := make(map[int64]bool)
	phids := make(map[string]bool)
	for i, r := range doc.Revisions {
		if r.PHID == "" {
			return nil, fmt.Errorf("revisions[%d]: phid is required", i)
		}
		if ids[r.ID] || phids[r.PHID] {
			return nil, fmt.Errorf("revisions[%d]: duplicate revision %d (%s)", i, r.ID, r.PHID)
		}
		ids[r.ID] = true
		phids[r.PHID] = true
	}
	for name := range doc.Failures {
		if !slices.Contains(loaderNames, name) {
			return nil, fmt.Errorf("failures: unknown loader %q", name)
		}
	}
	return &World{
		doc:    doc,
		calls:  make(map[string]int),
		origin: make(map[*differential.Changeset]*differential.Changeset),
	}, nil
}

var loaderNames = []string{
	LoaderRevision,
	LoaderChangesets,
	LoaderHunks,
	LoaderRepository,
	LoaderPackages,
	LoaderOwners,
	LoaderProjects,
}

// Revisions returns every revision with its diff, in document order.
func (w *World) Revisions() []*RevisionDoc {
	return slices.Clone(w.doc.Revisions)
}

// Revision finds a revision by PHID.
func (w *World) Revision(phid string) (*RevisionDoc, bool) {
	for _, r := range w.doc.Revisions {
		if r.PHID == phid {
			return r, true
		}
	}
	return nil, false
}

// Calls returns how many times loader was called.
func (w *World) Calls(loader string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls[loader]
}

// ResetCalls zeroes every counter.
func (w *World) ResetCalls() {
	w.mu.Lock()
	defer w.mu.Unlock()
	clear(w.calls)
}

// enter counts a call and returns the configured failure, if any.
func (w *World) enter(loader string) error {
	w.mu.Lock()
	w.calls[loader]++
	w.mu.Unlock()
	if msg, ok := w.doc.Failures[loader]; ok {
		return fmt.Errorf("%s loader: %s", loader, msg)
	}
	return nil
}

// Bind loads the revision with phid through the world, the way a caller
// with a real persistence layer would, and returns an adapter bound to it
// and its diff.
func (w *World) Bind(ctx context.Context, phid string, custom ...adapter.CustomAction) (*differential.Adapter, error) {
	doc, ok := w.Revision(phid)
	if !ok {
		return nil, adapter.NewNotFoundError("revision " + phid)
	}
	var diff *differential.Diff
	if doc.Diff != nil {
		d := doc.Diff.Diff
		diff = &d
	}
	return differential.Load(ctx, w, doc.ID, diff, custom...)
}
