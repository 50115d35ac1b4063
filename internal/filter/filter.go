// Package filter selects which feed items a run should process.
package filter

import "github.com/mgaitan/lobstersgram/internal/model"

// Select returns the items whose id is absent from seenIDs, preserving
// input order and truncated to at most max items. The check runs against
// a working copy of the seen set that grows as items are accepted, so a
// duplicate id within a single batch counts as already seen.
func Select(items []model.Item, seenIDs []string, max int) []model.Item {
	if max < 1 {
		return nil
	}

	seen := make(map[string]bool, len(seenIDs))
	for _, id := range seenIDs {
		seen[id] = true
	}

	var candidates []model.Item
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		candidates = append(candidates, item)
		if len(candidates) == max {
			break
		}
	}
	return candidates
}
