// Package registry maintains the set of chats subscribed to notifications.
package registry

import (
	"slices"

	"github.com/mgaitan/lobstersgram/internal/model"
	"github.com/mgaitan/lobstersgram/internal/storage"
)

// ApplyDirectives applies subscribe/unsubscribe directives to a subscriber
// set in arrival order and returns the resulting set plus whether it differs
// from the input. The input set is not modified.
//
// A chat not present in the set is unsubscribed; repeating a directive that
// matches the current state is a no-op, and when one batch carries several
// directives for the same chat the last one wins. ChatIDs in the result are
// sorted so the persisted form is stable.
func ApplyDirectives(subs *storage.Subscribers, directives []model.Directive) (*storage.Subscribers, bool) {
	set := make(map[int64]bool, len(subs.ChatIDs))
	for _, id := range subs.ChatIDs {
		set[id] = true
	}

	for _, d := range directives {
		switch d.Kind {
		case model.DirectiveSubscribe:
			set[d.ChatID] = true
		case model.DirectiveUnsubscribe:
			delete(set, d.ChatID)
		}
	}

	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	changed := len(ids) != len(subs.ChatIDs)
	if !changed {
		for _, id := range subs.ChatIDs {
			if !set[id] {
				changed = true
				break
			}
		}
	}

	return &storage.Subscribers{ChatIDs: ids}, changed
}
