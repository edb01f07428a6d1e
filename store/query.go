package store

import (
	"sort"
	"strings"
	"time"

	"citymapper-be/models"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	defaultPinLimit  = 19
)

// Filter selects and orders issues for listing
type Filter struct {
	Category   string
	Status     string
	Search     string
	CreatedBy  string
	Unanswered bool
	Sort       string // newest (default), oldest or upvotes
	Page       int
	Limit      int
}

// IssuePage is one page of a filtered listing
type IssuePage struct {
	Issues      []models.Issue `json:"issues"`
	TotalIssues int            `json:"totalIssues"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// Pin is the reduced form of an issue used for map markers
type Pin struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
	Location  string               `json:"location"`
	Category  models.IssueCategory `json:"category"`
	Status    models.IssueStatus   `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
}

// HeatPoint is one weighted point of the trauma layer
type HeatPoint struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight int     `json:"weight"`
}

// Query filters, sorts and paginates the current snapshot
func (s *IssueStore) Query(f Filter) IssuePage {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > maxPageLimit {
		f.Limit = defaultPageLimit
	}

	matched := make([]models.Issue, 0)
	for _, issue := range s.Snapshot() {
		if f.matches(issue) {
			matched = append(matched, issue)
		}
	}

	switch f.Sort {
	case "oldest":
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		})
	case "upvotes":
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Upvotes.Count() > matched[j].Upvotes.Count()
		})
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	}

	total := len(matched)
	// compare before multiplying so huge page numbers cannot overflow
	skip := total
	if f.Page-1 <= total/f.Limit {
		skip = (f.Page - 1) * f.Limit
	}
	if skip > total {
		skip = total
	}
	end := skip + f.Limit
	if end > total {
		end = total
	}

	return IssuePage{
		Issues:      matched[skip:end],
		TotalIssues: total,
		TotalPages:  (total + f.Limit - 1) / f.Limit,
		CurrentPage: f.Page,
	}
}

func (f Filter) matches(issue models.Issue) bool {
	if f.Category != "" && f.Category != "all" && string(issue.Category) != f.Category {
		return false
	}
	if f.Status != "" && f.Status != "all" && string(issue.Status) != f.Status {
		return false
	}
	if f.CreatedBy != "" && issue.CreatedBy != f.CreatedBy {
		return false
	}
	if f.Unanswered && len(issue.ArchitectResponses) > 0 {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(issue.Title), needle) &&
			!strings.Contains(strings.ToLower(issue.Description), needle) {
			return false
		}
	}
	return true
}

// RecentPins returns the newest issues as map markers
func (s *IssueStore) RecentPins(limit int) []Pin {
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPinLimit
	}
	page := s.Query(Filter{Sort: "newest", Limit: limit})

	pins := make([]Pin, 0, len(page.Issues))
	for _, issue := range page.Issues {
		pins = append(pins, Pin{
			ID:        issue.ID,
			Title:     issue.Title,
			Latitude:  issue.Location.Lat,
			Longitude: issue.Location.Lng,
			Location:  issue.Location.Address,
			Category:  issue.Category,
			Status:    issue.Status,
			CreatedAt: issue.CreatedAt,
		})
	}
	return pins
}

// Heatmap returns the unsafe-area overlay, weighted by community support
func (s *IssueStore) Heatmap() []HeatPoint {
	points := make([]HeatPoint, 0)
	for _, issue := range s.Snapshot() {
		if issue.Category != models.Unsafe {
			continue
		}
		points = append(points, HeatPoint{
			Lat:    issue.Location.Lat,
			Lng:    issue.Location.Lng,
			Weight: 1 + issue.Upvotes.Count(),
		})
	}
	return points
}
