package store

import (
	"sort"
	"time"

	"citymapper-be/models"
)

const topVotedLimit = 5

type CategoryCount struct {
	Name  models.IssueCategory `json:"name"`
	Value int                  `json:"value"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type VotedIssue struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	Category models.IssueCategory `json:"category"`
	Votes    int                  `json:"votes"`
}

// Analytics summarizes the collection for dashboards
type Analytics struct {
	IssuesByCategory []CategoryCount            `json:"issuesByCategory"`
	IssuesByStatus   map[models.IssueStatus]int `json:"issuesByStatus"`
	Last7Days        []DayCount                 `json:"last7Days"`
	TopVotedIssues   []VotedIssue               `json:"topVotedIssues"`
	TotalIssues      int                        `json:"totalIssues"`
	TotalVotes       int                        `json:"totalVotes"`
	OpenIssues       int                        `json:"openIssues"`
}

// Analytics computes dashboard figures. Days are calendar days in now's
// location, oldest first.
func (s *IssueStore) Analytics(now time.Time) Analytics {
	issues := s.Snapshot()

	result := Analytics{
		IssuesByStatus: map[models.IssueStatus]int{
			models.Open: 0, models.InProgress: 0, models.Resolved: 0,
		},
		TotalIssues: len(issues),
	}

	byCategory := map[models.IssueCategory]int{}
	voted := make([]VotedIssue, 0, len(issues))
	for _, issue := range issues {
		byCategory[issue.Category]++
		result.IssuesByStatus[issue.Status]++
		result.TotalVotes += issue.Upvotes.Count()
		if issue.Status == models.Open || issue.Status == models.InProgress {
			result.OpenIssues++
		}
		voted = append(voted, VotedIssue{
			ID:       issue.ID,
			Title:    issue.Title,
			Category: issue.Category,
			Votes:    issue.Upvotes.Count(),
		})
	}

	result.IssuesByCategory = make([]CategoryCount, 0, len(byCategory))
	for name, value := range byCategory {
		result.IssuesByCategory = append(result.IssuesByCategory, CategoryCount{Name: name, Value: value})
	}
	sort.Slice(result.IssuesByCategory, func(i, j int) bool {
		return result.IssuesByCategory[i].Name < result.IssuesByCategory[j].Name
	})

	for i := 6; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		nextDate := date.AddDate(0, 0, 1)

		count := 0
		for _, issue := range issues {
			created := issue.CreatedAt.In(now.Location())
			if !created.Before(date) && created.Before(nextDate) {
				count++
			}
		}
		result.Last7Days = append(result.Last7Days, DayCount{
			Date:  date.Format("2006-01-02"),
			Count: count,
		})
	}

	sort.SliceStable(voted, func(i, j int) bool {
		return voted[i].Votes > voted[j].Votes
	})
	if len(voted) > topVotedLimit {
		voted = voted[:topVotedLimit]
	}
	result.TopVotedIssues = voted

	return result
}
