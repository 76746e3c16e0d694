package challenges

import "sync"

// MockStore is an in-memory implementation of Store for testing.
type MockStore struct {
	mu         sync.Mutex
	Challenges map[string]*Challenge
	Sequences  map[string]*Sequence

	GetChallengeFunc func(id string) (*Challenge, error)
}

// NewMock creates a new mock challenge store.
func NewMock() *MockStore {
	return &MockStore{
		Challenges: make(map[string]*Challenge),
		Sequences:  make(map[string]*Sequence),
	}
}

func (m *MockStore) GetChallenge(id string) (*Challenge, error) {
	if m.GetChallengeFunc != nil {
		return m.GetChallengeFunc(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Challenges[id]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	return c, nil
}

func (m *MockStore) ListChallenges() ([]*Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Challenge
	for _, c := range m.Challenges {
		out = append(out, c)
	}
	return out, nil
}

func (m *MockStore) UpsertChallenge(c *Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Challenges[c.ID] = c
	return nil
}

func (m *MockStore) GetSequence(id string) (*Sequence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Sequences[id]
	if !ok {
		return nil, ErrSequenceNotFound
	}
	return s, nil
}

func (m *MockStore) ListSequences() ([]*Sequence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Sequence
	for _, s := range m.Sequences {
		out = append(out, s)
	}
	return out, nil
}

func (m *MockStore) UpsertSequence(s *Sequence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sequences[s.ID] = s
	return nil
}
