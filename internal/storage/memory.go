package storage

// Memory implements StateStore and SubscriberStore in memory.
// It is used by tests in place of real files.
type Memory struct {
	State       *State
	Subscribers *Subscribers

	StateSaves      int
	SubscriberSaves int

	// When set, the corresponding Save method fails with this error.
	SaveStateErr       error
	SaveSubscribersErr error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{State: &State{}, Subscribers: &Subscribers{}}
}

// LoadState returns the in-memory processed-item record.
func (m *Memory) LoadState() (*State, error) {
	return m.State, nil
}

// SaveState replaces the in-memory processed-item record.
func (m *Memory) SaveState(s *State) error {
	if m.SaveStateErr != nil {
		return m.SaveStateErr
	}
	m.State = s
	m.StateSaves++
	return nil
}

// LoadSubscribers returns the in-memory subscriber set.
func (m *Memory) LoadSubscribers() (*Subscribers, error) {
	return m.Subscribers, nil
}

// SaveSubscribers replaces the in-memory subscriber set.
func (m *Memory) SaveSubscribers(s *Subscribers) error {
	if m.SaveSubscribersErr != nil {
		return m.SaveSubscribersErr
	}
	m.Subscribers = s
	m.SubscriberSaves++
	return nil
}
