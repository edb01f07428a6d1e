package models

// Upvotes is the set of user IDs endorsing an issue, kept in the order the
// votes were cast. A user appears at most once.
type Upvotes []string

// Has reports whether userID has upvoted
func (u Upvotes) Has(userID string) bool {
	for _, id := range u {
		if id == userID {
			return true
		}
	}
	return false
}

// Toggle returns a new set with userID removed if present, added otherwise.
// The receiver is never modified.
func (u Upvotes) Toggle(userID string) Upvotes {
	if u.Has(userID) {
		out := make(Upvotes, 0, len(u)-1)
		for _, id := range u {
			if id != userID {
				out = append(out, id)
			}
		}
		return out
	}
	out := make(Upvotes, len(u), len(u)+1)
	copy(out, u)
	return append(out, userID)
}

// Count returns the number of upvoters
func (u Upvotes) Count() int {
	return len(u)
}

func (u Upvotes) clone() Upvotes {
	out := make(Upvotes, len(u))
	copy(out, u)
	return out
}
