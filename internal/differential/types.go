package differential

// ReviewerStatus is a reviewer's state on a revision.
type ReviewerStatus string

const (
	ReviewerAdded    ReviewerStatus = "added"
	ReviewerAccepted ReviewerStatus = "accepted"
	ReviewerRejected ReviewerStatus = "rejected"
	ReviewerBlocking ReviewerStatus = "blocking"
)

// Reviewer is one reviewer of a revision.
type Reviewer struct {
	PHID   string         `json:"phid" yaml:"phid"`
	Status ReviewerStatus `json:"status" yaml:"status"`
}

// Revision is a code-review revision with relationships loaded.
type Revision struct {
	ID             int64      `json:"id" yaml:"id"`
	PHID           string     `json:"phid" yaml:"phid"`
	Title          string     `json:"title" yaml:"title"`
	Summary        string     `json:"summary" yaml:"summary"`
	TestPlan       string     `json:"test_plan" yaml:"test_plan"`
	AuthorPHID     string     `json:"author_phid" yaml:"author"`
	Reviewers      []Reviewer `json:"reviewers" yaml:"reviewers"`
	CCPHIDs        []string   `json:"cc_phids" yaml:"cc"`
	RepositoryPHID string     `json:"repository_phid" yaml:"repository"`
}

// ReviewerPHIDs returns the stored reviewers' PHIDs in stored order.
func (r *Revision) ReviewerPHIDs() []string {
	phids := make([]string, 0, len(r.Reviewers))
	for _, rv := range r.Reviewers {
		phids = append(phids, rv.PHID)
	}
	return phids
}

// Diff is one uploaded version of a revision's changes.
type Diff struct {
	ID   int64  `json:"id" yaml:"id"`
	PHID string `json:"phid" yaml:"phid"`

	// SourceControlPath is the repository subdirectory the diff was made
	// in, e.g. "/trunk". Empty means the repository root.
	SourceControlPath string `json:"source_control_path" yaml:"source_control_path"`
}

// Changeset is the change to one file within a diff.
type Changeset struct {
	Filename string  `json:"filename" yaml:"filename"`
	Hunks    []*Hunk `json:"hunks,omitempty" yaml:"hunks,omitempty"`
}

// Hunk is one contiguous region of a changeset. Corpus holds unified-diff
// lines, each prefixed with ' ', '+' or '-'.
type Hunk struct {
	OldOffset int    `json:"old_offset" yaml:"old_offset"`
	NewOffset int    `json:"new_offset" yaml:"new_offset"`
	Corpus    string `json:"corpus" yaml:"corpus"`
}

// Repository is the repository a revision targets.
type Repository struct {
	PHID         string   `json:"phid" yaml:"phid"`
	Callsign     string   `json:"callsign" yaml:"callsign"`
	ProjectPHIDs []string `json:"project_phids" yaml:"projects"`
}

// Package is an owners package: a named set of paths within a repository.
type Package struct {
	ID   int64  `json:"id" yaml:"id"`
	PHID string `json:"phid" yaml:"phid"`
	Name string `json:"name" yaml:"name"`
}

// Project is a group of users.
type Project struct {
	PHID string `json:"phid" yaml:"phid"`
	Name string `json:"name" yaml:"name"`
}

// Query selects revisions to load.
type Query struct {
	IDs   []int64
	PHIDs []string

	// NeedRelationships loads reviewers and CCs.
	NeedRelationships bool

	// NeedReviewerStatus loads each reviewer's status.
	NeedReviewerStatus bool
}
