package game

import (
	"sync"
	"time"
)

// MockStore is an in-memory implementation of Store for testing. Individual
// methods can be overridden with the XxxFunc fields; mutating calls are
// recorded for assertions. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	Games       map[string]*Game
	Logs        map[string]*LogEntry
	AutoEvents  map[string]*AutoEvent
	ReviewItems map[string]*ReviewItem
	Trackers    map[string]*Tracker

	GetGameFunc          func(id string) (*Game, error)
	ClaimAutoEventFunc   func(eventID string) (bool, error)
	CreateReviewItemFunc func(item *ReviewItem) error

	ResolveAutoEventCalls []struct {
		EventID string
		Status  AutoEventStatus
		Reason  string
	}
	CreateReviewItemCalls []*ReviewItem
	ResolveReviewCalls    []struct {
		ID         string
		Resolution ReviewResolution
	}
}

// NewMock creates a new mock store.
func NewMock() *MockStore {
	return &MockStore{
		Games:       make(map[string]*Game),
		Logs:        make(map[string]*LogEntry),
		AutoEvents:  make(map[string]*AutoEvent),
		ReviewItems: make(map[string]*ReviewItem),
		Trackers:    make(map[string]*Tracker),
	}
}

func (m *MockStore) CreateGame(g *Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Games[g.ID] = g
	return nil
}

func (m *MockStore) GetGame(id string) (*Game, error) {
	if m.GetGameFunc != nil {
		return m.GetGameFunc(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.Games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (m *MockStore) ListGames() ([]*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Game
	for _, g := range m.Games {
		out = append(out, g)
	}
	return out, nil
}

func (m *MockStore) Transact(fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&mockTx{store: m})
}

type mockTx struct {
	store *MockStore
}

func (t *mockTx) GetGame(id string) (*Game, error) {
	g, ok := t.store.Games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (t *mockTx) SaveGame(g *Game) error {
	if _, ok := t.store.Games[g.ID]; !ok {
		return ErrGameNotFound
	}
	t.store.Games[g.ID] = g
	return nil
}

func (t *mockTx) InsertLog(l *LogEntry) error {
	t.store.Logs[l.ID] = l
	return nil
}

func (t *mockTx) DeleteLog(gameID, logID string) error {
	l, ok := t.store.Logs[logID]
	if !ok || l.GameID != gameID {
		return ErrLogNotFound
	}
	delete(t.store.Logs, logID)
	return nil
}

func (t *mockTx) GetLog(gameID, logID string) (*LogEntry, error) {
	l, ok := t.store.Logs[logID]
	if !ok || l.GameID != gameID {
		return nil, ErrLogNotFound
	}
	return l, nil
}

func (t *mockTx) ListChallengeLogs(gameID string, challengeIndex int) ([]*LogEntry, error) {
	var out []*LogEntry
	for _, l := range t.store.Logs {
		if l.GameID == gameID && l.ChallengeIndex == challengeIndex {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MockStore) ListLogs(gameID string) ([]*LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*LogEntry
	for _, l := range m.Logs {
		if l.GameID == gameID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MockStore) GetLog(gameID, logID string) (*LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.Logs[logID]
	if !ok || l.GameID != gameID {
		return nil, ErrLogNotFound
	}
	return l, nil
}

func (m *MockStore) SubmitAutoEvent(ev *AutoEvent) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.DedupeKey != "" {
		for _, existing := range m.AutoEvents {
			if existing.GameID == ev.GameID && existing.DedupeKey == ev.DedupeKey {
				return false, nil
			}
		}
	}
	if ev.Status == "" {
		ev.Status = EventPending
	}
	m.AutoEvents[ev.ID] = ev
	return true, nil
}

func (m *MockStore) ClaimAutoEvent(eventID string) (bool, error) {
	if m.ClaimAutoEventFunc != nil {
		return m.ClaimAutoEventFunc(eventID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.AutoEvents[eventID]
	if !ok || ev.Status != EventPending {
		return false, nil
	}
	ev.Status = EventProcessing
	return true, nil
}

func (m *MockStore) ResolveAutoEvent(eventID string, status AutoEventStatus, reason, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveAutoEventCalls = append(m.ResolveAutoEventCalls, struct {
		EventID string
		Status  AutoEventStatus
		Reason  string
	}{eventID, status, reason})
	ev, ok := m.AutoEvents[eventID]
	if !ok {
		return ErrEventNotFound
	}
	ev.Status = status
	ev.Reason = reason
	ev.Error = errMsg
	return nil
}

func (m *MockStore) GetAutoEvent(eventID string) (*AutoEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.AutoEvents[eventID]
	if !ok {
		return nil, ErrEventNotFound
	}
	return ev, nil
}

func (m *MockStore) ListPendingAutoEvents(gameID string) ([]*AutoEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*AutoEvent
	for _, ev := range m.AutoEvents {
		if ev.GameID == gameID && ev.Status == EventPending {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *MockStore) ListPendingGameIDs() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, ev := range m.AutoEvents {
		if ev.Status == EventPending && !seen[ev.GameID] {
			seen[ev.GameID] = true
			out = append(out, ev.GameID)
		}
	}
	return out, nil
}

func (m *MockStore) CreateReviewItem(item *ReviewItem) error {
	if m.CreateReviewItemFunc != nil {
		return m.CreateReviewItemFunc(item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateReviewItemCalls = append(m.CreateReviewItemCalls, item)
	m.ReviewItems[item.ID] = item
	return nil
}

func (m *MockStore) GetReviewItem(id string) (*ReviewItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.ReviewItems[id]
	if !ok {
		return nil, ErrReviewItemNotFound
	}
	return item, nil
}

func (m *MockStore) ListOpenReviewItems(gameID string) ([]*ReviewItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ReviewItem
	for _, item := range m.ReviewItems {
		if item.GameID == gameID && item.Resolution == "" {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *MockStore) ResolveReviewItem(id string, resolution ReviewResolution, resolvedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveReviewCalls = append(m.ResolveReviewCalls, struct {
		ID         string
		Resolution ReviewResolution
	}{id, resolution})
	item, ok := m.ReviewItems[id]
	if !ok {
		return ErrReviewItemNotFound
	}
	if item.Resolution != "" {
		return ErrReviewItemResolved
	}
	item.Resolution = resolution
	item.ResolvedBy = resolvedBy
	now := time.Now().Unix()
	item.ResolvedAt = &now
	return nil
}

func (m *MockStore) ReopenReviewItem(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.ReviewItems[id]
	if !ok {
		return ErrReviewItemNotFound
	}
	item.Resolution = ""
	item.ResolvedBy = ""
	item.ResolvedAt = nil
	return nil
}

func (m *MockStore) UpsertTracker(gameID, uid string, team TeamKey, seenAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Trackers[gameID+"/"+uid] = &Tracker{GameID: gameID, UID: uid, Team: team, LastSeenAt: seenAt}
	return nil
}

func (m *MockStore) DeleteTracker(gameID, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Trackers, gameID+"/"+uid)
	return nil
}

func (m *MockStore) ListTrackers(gameID string) ([]*Tracker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Tracker
	for _, t := range m.Trackers {
		if t.GameID == gameID {
			out = append(out, t)
		}
	}
	return out, nil
}
