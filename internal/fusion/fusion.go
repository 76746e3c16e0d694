// Package fusion merges raw camera signals into shot proposals. Signals from
// several cameras that describe the same ball flight are grouped into short
// time windows per ball track, voted into a single proposal and handed to the
// auto-ingest queue with a content-derived dedupe key.
package fusion

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wellball/scorekeeper/internal/game"
)

// Signal kinds. A release signal carries shooter and zone estimates, a net
// signal carries the outcome.
type SignalKind string

const (
	SignalRelease SignalKind = "release"
	SignalNet     SignalKind = "net"
)

// Signal is one raw observation from a camera.
type Signal struct {
	CameraID    string     `json:"camera_id"`
	BallTrackID string     `json:"ball_track_id"`
	Kind        SignalKind `json:"kind"`
	TimestampMS int64      `json:"timestamp_ms"`

	Jersey     int          `json:"jersey,omitempty"`
	JerseyConf float64      `json:"jersey_conf,omitempty"`
	Team       game.TeamKey `json:"team,omitempty"`

	Range    string  `json:"range,omitempty"`
	Zone     string  `json:"zone,omitempty"`
	ZoneConf float64 `json:"zone_conf,omitempty"`
	SpotID   string  `json:"spot_id,omitempty"`

	OutcomeConf   float64 `json:"outcome_conf,omitempty"`
	MoneyballConf float64 `json:"moneyball_conf,omitempty"`
}

// Submitter accepts fused proposals, normally the ingest coordinator.
type Submitter interface {
	SubmitEvent(ev *game.AutoEvent) (bool, error)
}

// Config tunes the fusion windows and votes.
type Config struct {
	WindowMS       int64   // width of one fusion window
	MoneyballFloor float64 // minimum vote to flag a moneyball
	MissConfidence float64 // outcome confidence assigned to a miss
}

// DefaultConfig matches the camera pipeline's frame cadence.
func DefaultConfig() Config {
	return Config{WindowMS: 320, MoneyballFloor: 0.8, MissConfidence: 0.5}
}

type windowKey struct {
	track  string
	bucket int64
}

type window struct {
	signals []Signal
}

// Fuser accumulates signals for one game and emits proposals once their
// window has closed.
type Fuser struct {
	mu      sync.Mutex
	gameID  string
	teamA   []game.Player
	teamB   []game.Player
	cfg     Config
	windows map[windowKey]*window
	dedupe  *deduper
	submit  Submitter
}

// NewFuser creates a fuser for one game. The rosters are used to resolve
// jersey votes to players.
func NewFuser(gameID string, teamA, teamB []game.Player, cfg Config, submitter Submitter) *Fuser {
	if cfg.WindowMS <= 0 {
		cfg = DefaultConfig()
	}
	return &Fuser{
		gameID:  gameID,
		teamA:   teamA,
		teamB:   teamB,
		cfg:     cfg,
		windows: make(map[windowKey]*window),
		dedupe:  newDeduper(5 * time.Minute),
		submit:  submitter,
	}
}

// Observe buffers one signal into its fusion window.
func (f *Fuser) Observe(sig Signal) {
	if sig.BallTrackID == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := windowKey{track: sig.BallTrackID, bucket: sig.TimestampMS / f.cfg.WindowMS}
	w, ok := f.windows[key]
	if !ok {
		w = &window{}
		f.windows[key] = w
	}
	w.signals = append(w.signals, sig)
}

// Flush fuses every window that closed before nowMS and submits the
// resulting proposals. It returns the number of proposals submitted.
func (f *Fuser) Flush(nowMS int64) int {
	f.mu.Lock()
	var ready []fusedWindow
	for key, w := range f.windows {
		// One extra window of grace covers camera clock skew.
		if nowMS >= (key.bucket+2)*f.cfg.WindowMS {
			ready = append(ready, fusedWindow{key: key, window: w})
			delete(f.windows, key)
		}
	}
	f.mu.Unlock()

	sort.Slice(ready, func(i, j int) bool { return ready[i].key.bucket < ready[j].key.bucket })

	emitted := 0
	for _, fw := range ready {
		ev, ok := f.fuse(fw.key, fw.window)
		if !ok {
			continue
		}
		if f.dedupe.seen(ev.DedupeKey) {
			continue
		}
		accepted, err := f.submit.SubmitEvent(ev)
		if err != nil {
			log.Error("Submitting fused proposal failed", "gameID", f.gameID, "track", fw.key.track, "error", err)
			continue
		}
		if accepted {
			emitted++
		}
	}
	return emitted
}

type fusedWindow struct {
	key    windowKey
	window *window
}

// fuse votes a window's signals into one proposal. Windows without any
// release signal carry no shooter information and are dropped.
func (f *Fuser) fuse(key windowKey, w *window) (*game.AutoEvent, bool) {
	type jerseyVote struct {
		conf  float64
		teams map[game.TeamKey]float64
	}
	votes := make(map[int]*jerseyVote)

	var (
		zone, rng, spotID string
		zoneConf          float64
		made              bool
		outcomeConf       float64
		moneyballConf     float64
		cameraID          string
	)

	for _, sig := range w.signals {
		switch sig.Kind {
		case SignalRelease:
			if cameraID == "" {
				cameraID = sig.CameraID
			}
			v, ok := votes[sig.Jersey]
			if !ok {
				v = &jerseyVote{teams: make(map[game.TeamKey]float64)}
				votes[sig.Jersey] = v
			}
			v.conf += sig.JerseyConf
			if sig.Team.Valid() {
				v.teams[sig.Team] += sig.JerseyConf
			}
			if sig.ZoneConf > zoneConf {
				zone, rng, spotID, zoneConf = sig.Zone, sig.Range, sig.SpotID, sig.ZoneConf
			}
			if sig.MoneyballConf > moneyballConf {
				moneyballConf = sig.MoneyballConf
			}
		case SignalNet:
			made = true
			if sig.OutcomeConf > outcomeConf {
				outcomeConf = sig.OutcomeConf
			}
		}
	}
	if len(votes) == 0 {
		return nil, false
	}

	jersey, shooterConf := 0, -1.0
	for j, v := range votes {
		if v.conf > shooterConf {
			jersey, shooterConf = j, v.conf
		}
	}
	if shooterConf > 1 {
		shooterConf = 1
	}

	playerID := f.resolvePlayer(jersey, votes[jersey].teams)

	if !made {
		outcomeConf = f.cfg.MissConfidence
	}

	confidence := 0.4*shooterConf + 0.4*outcomeConf + 0.2*zoneConf

	var shotType game.ShotType
	switch rng {
	case "mid":
		shotType = game.ShotMid
	case "long":
		shotType = game.ShotLong
	}

	moneyball := moneyballConf >= f.cfg.MoneyballFloor
	shotKey := ""
	if rng != "" && zone != "" {
		shotKey = rng + "_" + zone
	}

	ev := &game.AutoEvent{
		GameID:     f.gameID,
		PlayerID:   playerID,
		ShotType:   shotType,
		Made:       made,
		Moneyball:  moneyball,
		Confidence: confidence,
		Zone:       zone,
		ShotKey:    shotKey,
		SpotID:     spotID,
		CameraID:   cameraID,
	}
	ev.DedupeKey = dedupeKey(f.gameID, key.track, key.bucket, jersey, made, shotKey)
	return ev, true
}

// resolvePlayer maps a jersey vote to a roster player. When both teams field
// the same jersey number, the per-team confidence votes disambiguate.
func (f *Fuser) resolvePlayer(jersey int, teamVotes map[game.TeamKey]float64) string {
	type match struct {
		id   string
		team game.TeamKey
	}
	var matches []match
	for _, p := range f.teamA {
		if p.Jersey == jersey {
			matches = append(matches, match{id: p.ID, team: game.TeamA})
		}
	}
	for _, p := range f.teamB {
		if p.Jersey == jersey {
			matches = append(matches, match{id: p.ID, team: game.TeamB})
		}
	}
	switch len(matches) {
	case 0:
		return ""
	case 1:
		return matches[0].id
	}

	team := game.TeamA
	if teamVotes[game.TeamB] > teamVotes[game.TeamA] {
		team = game.TeamB
	}
	for _, m := range matches {
		if m.team == team {
			return m.id
		}
	}
	return matches[0].id
}

// Run flushes closed windows on a fixed cadence until ctx is cancelled.
func (f *Fuser) Run(ctx context.Context) {
	interval := time.Duration(f.cfg.WindowMS) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			f.Flush(now.UnixMilli())
		}
	}
}

func dedupeKey(gameID, track string, bucket int64, jersey int, made bool, shotKey string) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d|%d|%t|%s", gameID, track, bucket, jersey, made, shotKey)
	return fmt.Sprintf("%016x", h.Sum64())
}
