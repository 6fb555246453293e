// Package record defines the in-memory submission, review and conflict rows
// that search terms evaluate against.
package record

// Review types, ordered by privilege.
const (
	ReviewExternal  = 1
	ReviewPC        = 2
	ReviewSecondary = 3
	ReviewPrimary   = 4
	ReviewMeta      = 5
)

// Conflict types. Values at or above ConflictAuthor mark an author.
const (
	ConflictNone   = 0
	ConflictPC     = 2
	ConflictAuthor = 32
)

// Paper is a loaded submission row.
type Paper struct {
	PaperID           int    `yaml:"id"`
	Title             string `yaml:"title"`
	Abstract          string `yaml:"abstract"`
	AuthorInformation string `yaml:"authors"`
	Collaborators     string `yaml:"collaborators"`
	TimeSubmitted     int64  `yaml:"submitted"`
	TimeWithdrawn     int64  `yaml:"withdrawn"`
	Outcome           int    `yaml:"outcome"`
	LeadContactID     int    `yaml:"lead"`
	ManagerContactID  int    `yaml:"manager"`

	Reviews   []Review   `yaml:"reviews"`
	Conflicts []Conflict `yaml:"conflicts"`
}

// Review is a review assignment.
type Review struct {
	ReviewID          int  `yaml:"id"`
	ContactID         int  `yaml:"contact"`
	ReviewType        int  `yaml:"type"`
	ReviewNeedsSubmit bool `yaml:"needs_submit"`
	RequestedBy       int  `yaml:"requested_by"`
	ReviewToken       int  `yaml:"token"`
}

// Conflict records a user's relationship to a paper.
type Conflict struct {
	ContactID    int `yaml:"contact"`
	ConflictType int `yaml:"type"`
}

// Field returns the text column named by its SQL name, or "" for unknown
// columns.
func (p *Paper) Field(column string) string {
	switch column {
	case "title":
		return p.Title
	case "abstract":
		return p.Abstract
	case "authorInformation":
		return p.AuthorInformation
	case "collaborators":
		return p.Collaborators
	default:
		return ""
	}
}

// ConflictType returns the conflict type recorded for contactID.
func (p *Paper) ConflictType(contactID int) int {
	for _, c := range p.Conflicts {
		if c.ContactID == contactID {
			return c.ConflictType
		}
	}
	return ConflictNone
}

// ReviewsBy returns the reviews owned by contactID or reachable through one
// of the review tokens.
func (p *Paper) ReviewsBy(contactID int, tokens []int) []Review {
	var out []Review
	for _, r := range p.Reviews {
		if (contactID > 0 && r.ContactID == contactID) || (r.ReviewToken != 0 && containsInt(tokens, r.ReviewToken)) {
			out = append(out, r)
		}
	}
	return out
}

func containsInt(a []int, x int) bool {
	for _, v := range a {
		if v == x {
			return true
		}
	}
	return false
}
