package store

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"citymapper-be/models"
)

var testNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *IssueStore {
	t.Helper()
	next := 0
	return New(
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			next++
			return fmt.Sprintf("gen-%d", next)
		}),
	)
}

func community(id string) *models.Identity {
	return &models.Identity{ID: id, DisplayName: "Resident " + id, Role: models.Community}
}

func architect(id string) *models.Identity {
	return &models.Identity{ID: id, DisplayName: "Architect " + id, Role: models.Architect}
}

func seedOne(s *IssueStore, status models.IssueStatus) {
	s.Seed([]models.Issue{{
		ID:          "I1",
		Title:       "Broken lights",
		Description: "Dark street",
		Category:    models.Unsafe,
		CreatedBy:   "u1",
		CreatedAt:   testNow.Add(-time.Hour),
		Upvotes:     models.Upvotes{},
		Status:      status,
	}})
}

func validDraft() models.IssueDraft {
	return models.IssueDraft{
		Title:       "Pothole",
		Description: "Deep pothole near the school gate",
		Category:    models.Other,
		Location:    models.Location{Lat: -1.29, Lng: 36.78, Address: "School Lane"},
	}
}

func TestCreateIssueStartsOpenAndEmpty(t *testing.T) {
	s := newTestStore(t)
	seedOne(s, models.Open)

	issue, err := s.CreateIssue(validDraft(), community("u2"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if issue.Status != models.Open {
		t.Fatalf("unexpected status: %s", issue.Status)
	}
	if len(issue.Upvotes) != 0 || len(issue.Comments) != 0 || len(issue.ArchitectResponses) != 0 {
		t.Fatalf("expected empty collections: %+v", issue)
	}
	if issue.CreatedBy != "u2" || !issue.CreatedAt.Equal(testNow) {
		t.Fatalf("unexpected author or timestamp: %+v", issue)
	}

	snapshot := s.Snapshot()
	if len(snapshot) != 2 || snapshot[0].ID != issue.ID {
		t.Fatalf("new issue should be first, got %+v", snapshot)
	}
}

func TestCreateIssueIDsAreUnique(t *testing.T) {
	ids := []string{"I1", "I1", "", "fresh-1", "fresh-1", "fresh-2"}
	s := New(WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))
	seedOne(s, models.Open)

	first, err := s.CreateIssue(validDraft(), community("u2"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := s.CreateIssue(validDraft(), community("u2"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if first.ID != "fresh-1" || second.ID != "fresh-2" {
		t.Fatalf("unexpected ids: %q %q", first.ID, second.ID)
	}

	seen := map[string]bool{}
	for _, issue := range s.Snapshot() {
		if seen[issue.ID] {
			t.Fatalf("duplicate id %q", issue.ID)
		}
		seen[issue.ID] = true
	}
}

func TestCreateIssueRejectsBadInput(t *testing.T) {
	s := newTestStore(t)

	cases := map[string]func(d *models.IssueDraft){
		"empty title":       func(d *models.IssueDraft) { d.Title = "  " },
		"empty description": func(d *models.IssueDraft) { d.Description = "" },
		"unknown category":  func(d *models.IssueDraft) { d.Category = "Road" },
		"latitude range":    func(d *models.IssueDraft) { d.Location.Lat = 91 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			draft := validDraft()
			mutate(&draft)
			if _, err := s.CreateIssue(draft, community("u1")); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
	if s.Len() != 0 {
		t.Fatalf("invalid drafts must not be stored")
	}
}

func TestCreateIssueRequiresIdentity(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateIssue(validDraft(), nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestToggleUpvoteScenario(t *testing.T) {
	s := newTestStore(t)
	seedOne(s, models.Open)

	issue, err := s.ToggleUpvote("I1", community("u9"))
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !reflect.DeepEqual(issue.Upvotes, models.Upvotes{"u9"}) {
		t.Fatalf("unexpected upvotes: %v", issue.Upvotes)
	}

	issue, err = s.ToggleUpvote("I1", community("u9"))
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if len(issue.Upvotes) != 0 {
		t.Fatalf("expected no upvotes, got %v", issue.Upvotes)
	}

	issue, err = s.AddArchitectResponse("I1", models.ResponseDraft{
		Comment:       "add lighting",
		DesignType:    "street-lighting",
		ArchitectName: "A1",
	}, architect("a1"))
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if issue.Status != models.InProgress || len(issue.ArchitectResponses) != 1 {
		t.Fatalf("unexpected issue after response: %+v", issue)
	}
	if issue.ArchitectResponses[0].ArchitectName != "A1" {
		t.Fatalf("unexpected architect name: %q", issue.ArchitectResponses[0].ArchitectName)
	}
}

func TestAddCommentAppendsInOrder(t *testing.T) {
	s := newTestStore(t)
	seedOne(s, models.Open)

	if _, err := s.AddComment("I1", "first", community("u2")); err != nil {
		t.Fatalf("comment failed: %v", err)
	}
	issue, err := s.AddComment("I1", "second", architect("a1"))
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	if len(issue.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(issue.Comments))
	}
	first, second := issue.Comments[0], issue.Comments[1]
	if first.Text != "first" || second.Text != "second" {
		t.Fatalf("comments out of order: %+v", issue.Comments)
	}
	if second.UserRole != models.Architect || second.UserName != "Architect a1" || second.CreatedBy != "a1" {
		t.Fatalf("author fields not taken from identity: %+v", second)
	}
	if first.ID == second.ID {
		t.Fatalf("comment ids must differ")
	}
}

func TestCommentsAreAppendOnly(t *testing.T) {
	s := newTestStore(t)
	seedOne(s, models.Open)

	var previous []models.Comment
	for i := 0; i < 4; i++ {
		issue, err := s.AddComment("I1", fmt.Sprintf("comment %d", i), community("u2"))
		if err != nil {
			t.Fatalf("comment failed: %v", err)
		}
		if len(issue.Comments) < len(previous) {
			t.Fatalf("comment count decreased")
		}
		if !reflect.DeepEqual(issue.Comments[:len(previous)], previous) {
			t.Fatalf("existing comments changed")
		}
		previous = issue.Comments
	}
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	s := newTestStore(t)
	seedOne(s, models.Open)
	if _, err := s.AddComment("I1", "   ", community("u2")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestArchitectResponseAlwaysLeavesInProgress(t *testing.T) {
	for _, prior := range []models.IssueStatus{models.Open, models.InProgress, models.Resolved} {
		t.Run(string(prior), func(t *testing.T) {
			s := newTestStore(t)
			seedOne(s, prior)

			issue, err := s.AddArchitectResponse("I1", models.ResponseDraft{
				Comment:    "plant trees",
				DesignType: "green-space",
			}, architect("a1"))
			if err != nil {
				t.Fatalf("respond failed: %v", err)
			}
			if issue.Status != models.InProgress {
				t.Fatalf("expected in-progress, got %s", issue.Status)
			}
			if issue.ArchitectResponses[0].ArchitectName != "Architect a1" {
				t.Fatalf("expected name from identity, got %q", issue.ArchitectResponses[0].ArchitectName)
			}
		})
	}
}

func TestArchitectResponseRequiresArchitectRole(t *testing.T) {
	s := newTestStore(t)
	seedOne(s, models.Open)
	before := s.Snapshot()

	_, err := s.AddArchitectResponse("I1", models.ResponseDraft{Comment: "x", DesignType: "y"}, community("u2"))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatalf("forbidden response changed the store")
	}
}

func TestUnknownIDsLeaveStoreUnchanged(t *testing.T) {
	s := newTestStore(t)
	seedOne(s, models.Open)
	before := s.Snapshot()
	version := s.Version()

	if _, err := s.ToggleUpvote("nonexistent", community("u9")); !errors.Is(err, ErrIssueNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.AddComment("nonexistent", "hello", community("u9")); !errors.Is(err, ErrIssueNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.AddArchitectResponse("nonexistent", models.ResponseDraft{Comment: "x", DesignType: "y"}, architect("a1")); !errors.Is(err, ErrIssueNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatalf("store changed after unknown-id operations")
	}
	if s.Version() != version {
		t.Fatalf("version bumped without a commit")
	}
}

func TestMissingIdentityLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore(t)
	seedOne(s, models.Open)
	before := s.Snapshot()

	if _, err := s.ToggleUpvote("I1", nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := s.AddComment("I1", "hello", nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := s.AddArchitectResponse("I1", models.ResponseDraft{Comment: "x", DesignType: "y"}, nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatalf("store changed after unauthenticated operations")
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	seedOne(s, models.Open)

	snapshot := s.Snapshot()
	snapshot[0].Title = "tampered"
	snapshot[0].Upvotes = append(snapshot[0].Upvotes, "intruder")

	if _, err := s.ToggleUpvote("I1", community("u1")); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	current, err := s.Get("I1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if current.Title != "Broken lights" || current.Upvotes.Has("intruder") {
		t.Fatalf("store shares state with snapshot: %+v", current)
	}
	if snapshot[0].Upvotes.Has("u1") {
		t.Fatalf("old snapshot observed a later mutation")
	}
}

func TestSeedReplacesContent(t *testing.T) {
	s := newTestStore(t)
	seedOne(s, models.Open)
	s.Seed(nil)
	if s.Len() != 0 {
		t.Fatalf("expected empty store after reseed, got %d", s.Len())
	}
	if _, err := s.Get("I1"); !errors.Is(err, ErrIssueNotFound) {
		t.Fatalf("expected old issue gone, got %v", err)
	}
}

// No operation moves an issue to resolved; the status is only reachable
// through seed data.
func TestResolveIsCurrentlyUnreachable(t *testing.T) {
	s := newTestStore(t)
	seedOne(s, models.InProgress)
	before := s.Snapshot()

	if _, err := s.Resolve("I1", architect("a1")); !errors.Is(err, ErrResolveUnsupported) {
		t.Fatalf("expected resolve unsupported, got %v", err)
	}
	if _, err := s.Resolve("nonexistent", architect("a1")); !errors.Is(err, ErrIssueNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.Resolve("I1", nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatalf("resolve changed the store")
	}
}

func TestConcurrentWritersLoseNoUpdates(t *testing.T) {
	s := New(WithClock(func() time.Time { return testNow }))
	seedOne(s, models.Open)
	startVersion := s.Version()

	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := community(fmt.Sprintf("u%d", i))
			if _, err := s.ToggleUpvote("I1", user); err != nil {
				errs <- err
			}
			if _, err := s.AddComment("I1", fmt.Sprintf("comment %d", i), user); err != nil {
				errs <- err
			}
			s.Query(Filter{Search: "lights"})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent write failed: %v", err)
	}

	issue, err := s.Get("I1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if issue.Upvotes.Count() != workers {
		t.Fatalf("expected %d upvotes, got %d", workers, issue.Upvotes.Count())
	}
	if len(issue.Comments) != workers {
		t.Fatalf("expected %d comments, got %d", workers, len(issue.Comments))
	}
	seen := make(map[string]bool, workers)
	for _, comment := range issue.Comments {
		if seen[comment.ID] {
			t.Fatalf("duplicate comment id %q", comment.ID)
		}
		seen[comment.ID] = true
	}
	if got := s.Version() - startVersion; got != workers*2 {
		t.Fatalf("expected %d commits, got %d", workers*2, got)
	}
}
