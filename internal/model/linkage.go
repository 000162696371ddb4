package model

import "github.com/google/uuid"

// NewChainID allocates a fresh chain identifier.
func NewChainID() string {
	return uuid.New().String()
}

// RequireAnchor checks that a daily task entry references an anchor.
// Entries of any other kind always pass.
func RequireAnchor(e *Entry) error {
	if e.Kind() != KindDailyTask {
		return nil
	}
	if e.AnchorID == nil || *e.AnchorID == "" {
		return &InvariantError{EntryID: e.ID, Reason: "daily task has no anchor"}
	}
	return nil
}

// CheckAnchorPair verifies that anchor may anchor daily: it must be a
// monthly or future row of the same chain and month.
func CheckAnchorPair(daily, anchor *Entry) error {
	if !anchor.IsAnchorLog() {
		return &InvariantError{
			EntryID: daily.ID,
			Reason:  "anchor " + anchor.ID + " is a " + string(anchor.LogType) + " entry",
		}
	}
	if daily.ChainID != anchor.ChainID {
		return &InvariantError{
			EntryID: daily.ID,
			Reason:  "chain differs from anchor " + anchor.ID,
		}
	}
	if !daily.Date.SameMonth(anchor.Date) {
		return &InvariantError{
			EntryID: daily.ID,
			Reason:  "anchor " + anchor.ID + " belongs to another month",
		}
	}
	return nil
}
