// Package storage defines the persistence interface and its implementations.
//
// The relay keeps two small JSON documents between runs: the processed-item
// record and the subscriber set. Both assume a single writer; overlapping
// runs are prevented by the surrounding scheduler, not by this package.
package storage

// State is the processed-item record persisted between runs.
type State struct {
	SeenIDs []string `json:"seen_ids"`
}

// Subscribers is the set of chats eligible to receive notifications.
type Subscribers struct {
	ChatIDs []int64 `json:"chat_ids"`
}

// StateStore loads and saves the processed-item record.
type StateStore interface {
	LoadState() (*State, error)
	SaveState(*State) error
}

// SubscriberStore loads and saves the subscriber set.
type SubscriberStore interface {
	LoadSubscribers() (*Subscribers, error)
	SaveSubscribers(*Subscribers) error
}
