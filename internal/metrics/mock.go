package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	shotsRecorded       int
	shotsReversed       int
	challengesWon       int
	eventsIngested      int
	eventsQueued        int
	eventsIgnored       int
	eventsBlocked       int
	processingDurations []float64
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncShotsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shotsRecorded++
}

func (m *Mock) IncShotsReversed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shotsReversed++
}

func (m *Mock) IncChallengesWon() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challengesWon++
}

func (m *Mock) IncEventsIngested() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsIngested++
}

func (m *Mock) IncEventsQueued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsQueued++
}

func (m *Mock) IncEventsIgnored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsIgnored++
}

func (m *Mock) IncEventsBlocked() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsBlocked++
}

func (m *Mock) ObserveEventProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// SlackNotifSent returns the recorded sent count.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the recorded failure count.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// EventsIngested returns the recorded ingest count.
func (m *Mock) EventsIngested() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsIngested
}

// EventsQueued returns the recorded queue count.
func (m *Mock) EventsQueued() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsQueued
}
