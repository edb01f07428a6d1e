package models

import (
	"time"
)

// IssueCategory enum
type IssueCategory string

const (
	Unsafe        IssueCategory = "unsafe"
	Drainage      IssueCategory = "drainage"
	AbandonedPlot IssueCategory = "abandoned-plot"
	Noise         IssueCategory = "noise"
	Other         IssueCategory = "other"
)

var validCategories = map[IssueCategory]bool{
	Unsafe: true, Drainage: true, AbandonedPlot: true,
	Noise: true, Other: true,
}

// Valid reports whether c is one of the known categories
func (c IssueCategory) Valid() bool {
	return validCategories[c]
}

// IssueStatus enum
type IssueStatus string

const (
	Open       IssueStatus = "open"
	InProgress IssueStatus = "in-progress"
	// Resolved is only reachable through seed data; no store operation sets it.
	Resolved IssueStatus = "resolved"
)

// Valid reports whether s is one of the known statuses
func (s IssueStatus) Valid() bool {
	switch s {
	case Open, InProgress, Resolved:
		return true
	}
	return false
}

// Location is where an issue was pinned on the map
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Comment is an append-only remark on an issue
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UserRole  Role      `json:"userRole"`
	UserName  string    `json:"userName"`
}

// ArchitectResponse is a design proposal attached to an issue
type ArchitectResponse struct {
	ID            string    `json:"id"`
	Comment       string    `json:"comment"`
	DesignType    string    `json:"designType"`
	CreatedAt     time.Time `json:"createdAt"`
	ArchitectName string    `json:"architectName"`
}

// Issue represents a civic issue pinned on the map
type Issue struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Category           IssueCategory       `json:"category"`
	Location           Location            `json:"location"`
	PhotoURL           *string             `json:"photoURL,omitempty"`
	CreatedBy          string              `json:"createdBy"`
	CreatedAt          time.Time           `json:"createdAt"`
	Upvotes            Upvotes             `json:"upvotes"`
	Comments           []Comment           `json:"comments"`
	Status             IssueStatus         `json:"status"`
	ArchitectResponses []ArchitectResponse `json:"architectResponses"`
}

// Clone returns a deep copy of the issue. Empty collections stay non-nil so
// they serialize as [] rather than null.
func (i Issue) Clone() Issue {
	out := i
	if i.PhotoURL != nil {
		photo := *i.PhotoURL
		out.PhotoURL = &photo
	}
	out.Upvotes = i.Upvotes.clone()
	out.Comments = make([]Comment, len(i.Comments))
	copy(out.Comments, i.Comments)
	out.ArchitectResponses = make([]ArchitectResponse, len(i.ArchitectResponses))
	copy(out.ArchitectResponses, i.ArchitectResponses)
	return out
}

// IssueDraft holds the user-supplied fields of a new issue
type IssueDraft struct {
	Title       string        `json:"title" binding:"required,max=200"`
	Description string        `json:"description" binding:"required,max=2000"`
	Category    IssueCategory `json:"category" binding:"required"`
	Location    Location      `json:"location"`
	PhotoURL    *string       `json:"photoURL,omitempty"`
}

// ResponseDraft holds the architect-supplied fields of a new response
type ResponseDraft struct {
	Comment       string `json:"comment" binding:"required,max=2000"`
	DesignType    string `json:"designType" binding:"required,max=100"`
	ArchitectName string `json:"architectName,omitempty" binding:"max=100"`
}
