package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/bujo/internal/model"
)

// parseDay reads a day argument: YYYY-MM-DD, "today", "tomorrow" or
// "yesterday". An empty argument means today.
func parseDay(arg string, today model.Date) (model.Date, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return model.DateOf(today.Time().AddDate(0, 0, 1)), nil
	case "yesterday":
		return model.DateOf(today.Time().AddDate(0, 0, -1)), nil
	}
	return model.ParseDate(strings.TrimSpace(arg))
}

// parseMonth reads a month argument as YYYY-MM, any day of the month, or
// "this"/"next". It returns the first day of that month; empty means the
// current month.
func parseMonth(arg string, today model.Date) (model.Date, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	switch arg {
	case "", "this":
		return today.FirstOfMonth(), nil
	case "next":
		return model.DateOf(today.FirstOfMonth().Time().AddDate(0, 1, 0)), nil
	}
	if t, err := time.Parse("2006-01", arg); err == nil {
		return model.MonthStart(t.Year(), t.Month()), nil
	}
	d, err := model.ParseDate(arg)
	if err != nil {
		return "", fmt.Errorf("%w: month %q must be YYYY-MM", model.ErrInvalidInput, arg)
	}
	return d.FirstOfMonth(), nil
}

// resolutionsFor looks up how the chains of migrated rows ended, so views
// can mark history that was later completed or cancelled.
func (a *app) resolutionsFor(ctx context.Context, entries []model.Entry) (map[string]model.Status, error) {
	var chains []string
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.Status != model.StatusMigrated || seen[e.ChainID] {
			continue
		}
		seen[e.ChainID] = true
		chains = append(chains, e.ChainID)
	}
	if len(chains) == 0 {
		return nil, nil
	}
	return a.engine.ChainResolutions(ctx, a.userID(), chains)
}

// matchRef picks the single candidate whose id starts with ref or whose
// name equals it, ignoring case.
func matchRef[T any](kind, ref string, items []T, id, name func(T) string) (T, error) {
	var zero T
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return zero, fmt.Errorf("%w: %s reference must not be empty", model.ErrInvalidInput, kind)
	}

	var found []T
	for _, it := range items {
		if strings.HasPrefix(id(it), ref) || strings.EqualFold(name(it), ref) {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 0:
		return zero, fmt.Errorf("%s %q: %w", kind, ref, model.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return zero, fmt.Errorf("%w: %q matches %d %ss", model.ErrInvalidInput, ref, len(found), kind)
	}
}
