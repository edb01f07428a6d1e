// Package store holds the in-memory issue collection and the rules for
// changing it. Every mutation produces a fresh collection; callers only ever
// see deep copies.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"citymapper-be/models"

	"github.com/google/uuid"
)

// Option configures an IssueStore
type Option func(*IssueStore)

// WithClock overrides the time source used for createdAt stamps
func WithClock(now func() time.Time) Option {
	return func(s *IssueStore) { s.now = now }
}

// WithIDGenerator overrides how issue, comment and response IDs are made
func WithIDGenerator(newID func() string) Option {
	return func(s *IssueStore) { s.newID = newID }
}

// IssueStore owns the issue collection. Issues are kept newest first.
type IssueStore struct {
	mu      sync.RWMutex
	issues  []models.Issue
	index   map[string]int
	version uint64

	now   func() time.Time
	newID func() string
}

func New(opts ...Option) *IssueStore {
	s := &IssueStore{
		index: map[string]int{},
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed replaces the store content wholesale. Seed data is trusted and not
// validated.
func (s *IssueStore) Seed(issues []models.Issue) {
	next := make([]models.Issue, len(issues))
	for i, issue := range issues {
		next[i] = issue.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(next)
}

// Snapshot returns a deep copy of every issue, newest first
func (s *IssueStore) Snapshot() []models.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Issue, len(s.issues))
	for i, issue := range s.issues {
		out[i] = issue.Clone()
	}
	return out
}

// Get returns a copy of a single issue
func (s *IssueStore) Get(issueID string) (models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[issueID]
	if !ok {
		return models.Issue{}, ErrIssueNotFound
	}
	return s.issues[pos].Clone(), nil
}

// Version increases by one on every committed change
func (s *IssueStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *IssueStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.issues)
}

// CreateIssue builds a new open issue from draft and puts it at the front of
// the collection.
func (s *IssueStore) CreateIssue(draft models.IssueDraft, author *models.Identity) (models.Issue, error) {
	if author == nil {
		return models.Issue{}, ErrUnauthenticated
	}
	if err := validateDraft(draft); err != nil {
		return models.Issue{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	issue := models.Issue{
		ID:                 s.uniqueIssueID(),
		Title:              strings.TrimSpace(draft.Title),
		Description:        strings.TrimSpace(draft.Description),
		Category:           draft.Category,
		Location:           draft.Location,
		PhotoURL:           draft.PhotoURL,
		CreatedBy:          author.ID,
		CreatedAt:          s.now(),
		Upvotes:            models.Upvotes{},
		Comments:           []models.Comment{},
		Status:             models.Open,
		ArchitectResponses: []models.ArchitectResponse{},
	}
	issue = issue.Clone()

	next := make([]models.Issue, 0, len(s.issues)+1)
	next = append(next, issue)
	next = append(next, s.issues...)
	s.commit(next)

	return issue.Clone(), nil
}

// ToggleUpvote adds the user to the issue's upvotes, or removes them if they
// already voted.
func (s *IssueStore) ToggleUpvote(issueID string, user *models.Identity) (models.Issue, error) {
	if user == nil {
		return models.Issue{}, ErrUnauthenticated
	}
	return s.update(issueID, func(issue *models.Issue) error {
		issue.Upvotes = issue.Upvotes.Toggle(user.ID)
		return nil
	})
}

// AddComment appends a comment written by author to the issue
func (s *IssueStore) AddComment(issueID, text string, author *models.Identity) (models.Issue, error) {
	if author == nil {
		return models.Issue{}, ErrUnauthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Issue{}, fmt.Errorf("%w: comment text is required", ErrInvalidInput)
	}

	return s.update(issueID, func(issue *models.Issue) error {
		issue.Comments = append(issue.Comments, models.Comment{
			ID:        s.newID(),
			Text:      text,
			CreatedBy: author.ID,
			CreatedAt: s.now(),
			UserRole:  author.Role,
			UserName:  author.DisplayName,
		})
		return nil
	})
}

// AddArchitectResponse appends a design proposal to the issue and moves it to
// in-progress. Only architects may respond.
func (s *IssueStore) AddArchitectResponse(issueID string, draft models.ResponseDraft, architect *models.Identity) (models.Issue, error) {
	if architect == nil {
		return models.Issue{}, ErrUnauthenticated
	}
	if architect.Role != models.Architect {
		return models.Issue{}, ErrForbidden
	}
	comment := strings.TrimSpace(draft.Comment)
	designType := strings.TrimSpace(draft.DesignType)
	if comment == "" {
		return models.Issue{}, fmt.Errorf("%w: response comment is required", ErrInvalidInput)
	}
	if designType == "" {
		return models.Issue{}, fmt.Errorf("%w: design type is required", ErrInvalidInput)
	}
	name := strings.TrimSpace(draft.ArchitectName)
	if name == "" {
		name = architect.DisplayName
	}

	return s.update(issueID, func(issue *models.Issue) error {
		issue.ArchitectResponses = append(issue.ArchitectResponses, models.ArchitectResponse{
			ID:            s.newID(),
			Comment:       comment,
			DesignType:    designType,
			CreatedAt:     s.now(),
			ArchitectName: name,
		})
		issue.Status = statusAfterResponse(issue.Status)
		return nil
	})
}

// Resolve is the open -> resolved transition. No workflow for it exists yet,
// so it always fails and leaves the issue untouched.
func (s *IssueStore) Resolve(issueID string, user *models.Identity) (models.Issue, error) {
	if user == nil {
		return models.Issue{}, ErrUnauthenticated
	}
	if _, err := s.Get(issueID); err != nil {
		return models.Issue{}, err
	}
	return models.Issue{}, ErrResolveUnsupported
}

// statusAfterResponse is the "any response reopens to in-progress" rule. It
// applies even to resolved issues.
func statusAfterResponse(models.IssueStatus) models.IssueStatus {
	return models.InProgress
}

// update clones the target issue, applies fn to the clone and commits a new
// collection containing it. Nothing is committed if fn fails.
func (s *IssueStore) update(issueID string, fn func(issue *models.Issue) error) (models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[issueID]
	if !ok {
		return models.Issue{}, ErrIssueNotFound
	}

	target := s.issues[pos].Clone()
	if err := fn(&target); err != nil {
		return models.Issue{}, err
	}

	next := make([]models.Issue, len(s.issues))
	copy(next, s.issues)
	next[pos] = target
	s.commit(next)

	return target.Clone(), nil
}

// commit must be called with mu held
func (s *IssueStore) commit(next []models.Issue) {
	index := make(map[string]int, len(next))
	for i, issue := range next {
		index[issue.ID] = i
	}
	s.issues = next
	s.index = index
	s.version++
}

// uniqueIssueID must be called with mu held
func (s *IssueStore) uniqueIssueID() string {
	for {
		id := s.newID()
		if _, taken := s.index[id]; !taken && id != "" {
			return id
		}
	}
}

func validateDraft(draft models.IssueDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(draft.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if !draft.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, draft.Category)
	}
	if draft.Location.Lat < -90 || draft.Location.Lat > 90 ||
		draft.Location.Lng < -180 || draft.Location.Lng > 180 {
		return fmt.Errorf("%w: location out of range", ErrInvalidInput)
	}
	return nil
}
