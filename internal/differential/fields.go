package differential

import (
	"context"
	"slices"

	"github.com/roach88/herald/internal/adapter"
	"github.com/roach88/herald/internal/ir"
)

// fieldOrder is the order revision fields are offered to rule editors.
var fieldOrder = []ir.FieldID{
	ir.FieldTitle,
	ir.FieldBody,
	ir.FieldAuthor,
	ir.FieldAuthorProjects,
	ir.FieldReviewers,
	ir.FieldCC,
	ir.FieldRepository,
	ir.FieldRepositoryProjects,
	ir.FieldDiffFile,
	ir.FieldDiffContent,
	ir.FieldDiffAddedContent,
	ir.FieldDiffRemovedContent,
	ir.FieldAffectedPackage,
	ir.FieldAffectedPackageOwner,
	ir.FieldNewObject,
}

var fields = adapter.NewFields[*Adapter]().
	Register(ir.FieldTitle, func(_ context.Context, a *Adapter) (ir.IRValue, error) {
		return ir.IRString(a.revision.Title), nil
	}).
	Register(ir.FieldBody, func(_ context.Context, a *Adapter) (ir.IRValue, error) {
		return ir.IRString(a.revision.Summary + "\n" + a.revision.TestPlan), nil
	}).
	Register(ir.FieldAuthor, func(_ context.Context, a *Adapter) (ir.IRValue, error) {
		return ir.IRString(a.revision.AuthorPHID), nil
	}).
	Register(ir.FieldAuthorProjects, func(ctx context.Context, a *Adapter) (ir.IRValue, error) {
		return stringList(a.loadAuthorProjects(ctx))
	}).
	Register(ir.FieldReviewers, func(_ context.Context, a *Adapter) (ir.IRValue, error) {
		if a.explicitReviewers != nil {
			keys := make([]string, 0, len(a.explicitReviewers))
			for k := range a.explicitReviewers {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			return ir.Strings(keys...), nil
		}
		return ir.Strings(a.revision.ReviewerPHIDs()...), nil
	}).
	Register(ir.FieldCC, func(_ context.Context, a *Adapter) (ir.IRValue, error) {
		return ir.Strings(a.revision.CCPHIDs...), nil
	}).
	Register(ir.FieldRepository, func(ctx context.Context, a *Adapter) (ir.IRValue, error) {
		repo, err := a.loadRepository(ctx)
		if err != nil {
			return nil, err
		}
		if repo == nil {
			return ir.IRNull{}, nil
		}
		return ir.IRString(repo.PHID), nil
	}).
	Register(ir.FieldRepositoryProjects, func(ctx context.Context, a *Adapter) (ir.IRValue, error) {
		repo, err := a.loadRepository(ctx)
		if err != nil {
			return nil, err
		}
		if repo == nil {
			return ir.Strings(), nil
		}
		return ir.Strings(repo.ProjectPHIDs...), nil
	}).
	Register(ir.FieldDiffFile, func(ctx context.Context, a *Adapter) (ir.IRValue, error) {
		return stringList(a.loadAffectedPaths(ctx))
	}).
	Register(ir.FieldDiffContent, func(ctx context.Context, a *Adapter) (ir.IRValue, error) {
		return stringDict(a.loadContent(ctx))
	}).
	Register(ir.FieldDiffAddedContent, func(ctx context.Context, a *Adapter) (ir.IRValue, error) {
		return stringDict(a.loadAddedContent(ctx))
	}).
	Register(ir.FieldDiffRemovedContent, func(ctx context.Context, a *Adapter) (ir.IRValue, error) {
		return stringDict(a.loadRemovedContent(ctx))
	}).
	Register(ir.FieldAffectedPackage, func(ctx context.Context, a *Adapter) (ir.IRValue, error) {
		pkgs, err := a.loadAffectedPackages(ctx)
		if err != nil {
			return nil, err
		}
		phids := make([]string, 0, len(pkgs))
		for _, p := range pkgs {
			phids = append(phids, p.PHID)
		}
		return ir.Strings(phids...), nil
	}).
	Register(ir.FieldAffectedPackageOwner, func(ctx context.Context, a *Adapter) (ir.IRValue, error) {
		return stringList(a.loadPackageOwners(ctx))
	})

func stringList(ss []string, err error) (ir.IRValue, error) {
	if err != nil {
		return nil, err
	}
	return ir.Strings(ss...), nil
}

func stringDict(m map[string]string, err error) (ir.IRValue, error) {
	if err != nil {
		return nil, err
	}
	return ir.StringMap(m), nil
}

// Fields lists revision fields followed by the inherited base fields.
func (a *Adapter) Fields() []ir.FieldID {
	return adapter.MergeFields(fieldOrder, a.BaseFields())
}

// HeraldField resolves field on the bound revision, falling through to the
// base fields. Collaborator failures surface as ExternalLoadFailure.
func (a *Adapter) HeraldField(ctx context.Context, field ir.FieldID) (ir.IRValue, error) {
	if _, ok := fields.Lookup(field); !ok {
		return a.Base.HeraldField(ctx, field)
	}
	if a.revision == nil {
		return nil, adapter.NewNoObjectError(ContentType)
	}
	v, _, err := fields.Resolve(ctx, a, field)
	if err != nil {
		return nil, adapter.NewLoadError(field, string(field), err)
	}
	return v, nil
}
