package models

import (
	"reflect"
	"testing"
)

func TestUpvotesToggle(t *testing.T) {
	start := Upvotes{"u1", "u2"}

	added := start.Toggle("u3")
	if !reflect.DeepEqual(added, Upvotes{"u1", "u2", "u3"}) {
		t.Fatalf("unexpected upvotes after add: %v", added)
	}
	if len(start) != 2 {
		t.Fatalf("toggle modified receiver: %v", start)
	}

	removed := added.Toggle("u3")
	if !reflect.DeepEqual(removed, start) {
		t.Fatalf("double toggle should restore original, got %v", removed)
	}

	middle := start.Toggle("u1")
	if !reflect.DeepEqual(middle, Upvotes{"u2"}) {
		t.Fatalf("unexpected upvotes after remove: %v", middle)
	}
}

func TestUpvotesToggleNeverDuplicates(t *testing.T) {
	var votes Upvotes
	for i := 0; i < 5; i++ {
		votes = votes.Toggle("u9")
		seen := map[string]int{}
		for _, id := range votes {
			seen[id]++
			if seen[id] > 1 {
				t.Fatalf("duplicate voter %q in %v", id, votes)
			}
		}
	}
	if !votes.Has("u9") || votes.Count() != 1 {
		t.Fatalf("expected u9 after odd number of toggles, got %v", votes)
	}
}

func TestIssueCloneIsDeep(t *testing.T) {
	photo := "https://example.com/a.jpg"
	original := Issue{
		ID:       "1",
		PhotoURL: &photo,
		Upvotes:  Upvotes{"u1"},
		Comments: []Comment{{ID: "c1", Text: "hello"}},
		ArchitectResponses: []ArchitectResponse{
			{ID: "r1", Comment: "lights"},
		},
	}

	clone := original.Clone()
	clone.Upvotes[0] = "other"
	clone.Comments[0].Text = "changed"
	clone.ArchitectResponses[0].Comment = "changed"
	*clone.PhotoURL = "changed"

	if original.Upvotes[0] != "u1" || original.Comments[0].Text != "hello" ||
		original.ArchitectResponses[0].Comment != "lights" || *original.PhotoURL != photo {
		t.Fatalf("clone shares state with original: %+v", original)
	}
}

func TestIssueCloneKeepsEmptySlicesNonNil(t *testing.T) {
	clone := Issue{ID: "1"}.Clone()
	if clone.Upvotes == nil || clone.Comments == nil || clone.ArchitectResponses == nil {
		t.Fatalf("expected non-nil empty collections: %+v", clone)
	}
}

func TestCategoryAndStatusValid(t *testing.T) {
	if !AbandonedPlot.Valid() || IssueCategory("Road").Valid() {
		t.Fatalf("unexpected category validation")
	}
	if !Resolved.Valid() || IssueStatus("Pending").Valid() {
		t.Fatalf("unexpected status validation")
	}
	if !Architect.Valid() || Role("admin").Valid() {
		t.Fatalf("unexpected role validation")
	}
}
