package store

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"time"

	"citymapper-be/models"

	"gopkg.in/yaml.v3"
)

//go:embed seed_issues.yaml
var defaultSeed []byte

// Seed documents store ages instead of timestamps so the demo data always
// looks recent.
type seedComment struct {
	ID        string        `yaml:"id"`
	Text      string        `yaml:"text"`
	CreatedBy string        `yaml:"createdBy"`
	Age       time.Duration `yaml:"age"`
	UserRole  models.Role   `yaml:"userRole"`
	UserName  string        `yaml:"userName"`
}

type seedResponse struct {
	ID            string        `yaml:"id"`
	Comment       string        `yaml:"comment"`
	DesignType    string        `yaml:"designType"`
	Age           time.Duration `yaml:"age"`
	ArchitectName string        `yaml:"architectName"`
}

type seedIssue struct {
	ID          string               `yaml:"id"`
	Title       string               `yaml:"title"`
	Description string               `yaml:"description"`
	Category    models.IssueCategory `yaml:"category"`
	Location    struct {
		Lat     float64 `yaml:"lat"`
		Lng     float64 `yaml:"lng"`
		Address string  `yaml:"address"`
	} `yaml:"location"`
	PhotoURL           *string            `yaml:"photoURL"`
	CreatedBy          string             `yaml:"createdBy"`
	Age                time.Duration      `yaml:"age"`
	Upvotes            []string           `yaml:"upvotes"`
	Status             models.IssueStatus `yaml:"status"`
	Comments           []seedComment      `yaml:"comments"`
	ArchitectResponses []seedResponse     `yaml:"architectResponses"`
}

// DefaultSeed returns the built-in demo issues with timestamps relative to now
func DefaultSeed(now time.Time) ([]models.Issue, error) {
	return LoadSeed(bytes.NewReader(defaultSeed), now)
}

// LoadSeed parses a YAML list of issues. Only the document shape is checked;
// the content is trusted.
func LoadSeed(r io.Reader, now time.Time) ([]models.Issue, error) {
	var raw []seedIssue
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return []models.Issue{}, nil
		}
		return nil, fmt.Errorf("decode seed issues: %w", err)
	}

	issues := make([]models.Issue, 0, len(raw))
	for _, item := range raw {
		issue := models.Issue{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Category:    item.Category,
			Location: models.Location{
				Lat:     item.Location.Lat,
				Lng:     item.Location.Lng,
				Address: item.Location.Address,
			},
			PhotoURL:           item.PhotoURL,
			CreatedBy:          item.CreatedBy,
			CreatedAt:          now.Add(-item.Age),
			Upvotes:            models.Upvotes(item.Upvotes),
			Status:             item.Status,
			Comments:           make([]models.Comment, 0, len(item.Comments)),
			ArchitectResponses: make([]models.ArchitectResponse, 0, len(item.ArchitectResponses)),
		}
		if issue.Status == "" {
			issue.Status = models.Open
		}
		for _, c := range item.Comments {
			issue.Comments = append(issue.Comments, models.Comment{
				ID:        c.ID,
				Text:      c.Text,
				CreatedBy: c.CreatedBy,
				CreatedAt: now.Add(-c.Age),
				UserRole:  c.UserRole,
				UserName:  c.UserName,
			})
		}
		for _, resp := range item.ArchitectResponses {
			issue.ArchitectResponses = append(issue.ArchitectResponses, models.ArchitectResponse{
				ID:            resp.ID,
				Comment:       resp.Comment,
				DesignType:    resp.DesignType,
				CreatedAt:     now.Add(-resp.Age),
				ArchitectName: resp.ArchitectName,
			})
		}
		issues = append(issues, issue.Clone())
	}
	return issues, nil
}
