package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellball/scorekeeper/internal/challenges"
	"github.com/wellball/scorekeeper/internal/clock"
	"github.com/wellball/scorekeeper/internal/config"
	"github.com/wellball/scorekeeper/internal/database"
	"github.com/wellball/scorekeeper/internal/game"
	"github.com/wellball/scorekeeper/internal/ingest"
	"github.com/wellball/scorekeeper/internal/metrics"
	"github.com/wellball/scorekeeper/internal/notifier"
	"github.com/wellball/scorekeeper/internal/presence"
	"github.com/wellball/scorekeeper/internal/pubsub"
	"github.com/wellball/scorekeeper/internal/scoring"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T) (*Server, *notifier.Mock, *pubsub.MockPubSubClient) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(func() {
		dbTeardown()
		db.Close()
	})

	store := game.New(db)
	challengeStore := challenges.New(db)
	require.NoError(t, challengeStore.UpsertChallenge(&challenges.Challenge{
		ID: "ch-1", Name: "Spot Shooting", TargetScore: 3, PointsForWin: 10,
	}))

	cfg := config.Config{
		Ingest: config.IngestConfig{
			IngestThreshold: 0.85,
			ReviewThreshold: 0.65,
			BonusSeconds:    180,
			OvertimeSeconds: 60,
		},
	}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	pubsubMock := pubsub.NewMock()
	notifierMock := notifier.NewMock()

	engine := scoring.NewEngine(store, challengeStore, metricsSvc)
	clockCtrl := clock.NewController(store, cfg.Ingest.BonusSeconds, cfg.Ingest.OvertimeSeconds)
	presenceMgr := presence.NewManager(store, 20*time.Second)
	coordinator := ingest.NewCoordinator(store, engine, metricsSvc, pubsub.NewPublisher(pubsubMock))

	server := NewServer(store, challengeStore, engine, clockCtrl, presenceMgr, coordinator, notifierMock, metricsSvc, metricsHandler, cfg, pubsubMock)
	return server, notifierMock, pubsubMock
}

func doJSON(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func createTestGame(t *testing.T, server *Server) gameView {
	t.Helper()
	rec := doJSON(t, server, "POST", "/games", createGameRequest{
		Name:         "Test game",
		Mode:         game.ModeSequence,
		CreatedBy:    "operator-1",
		TeamA:        []game.Player{{ID: "p1", Name: "Alice", Jersey: 7}},
		TeamB:        []game.Player{{ID: "p2", Name: "Bob", Jersey: 12}},
		ChallengeIDs: []string{"ch-1"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view gameView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, _ := setupTestServer(t)
	rec := doJSON(t, server, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK!", rec.Body.String())
}

func TestCreateAndGetGame(t *testing.T) {
	server, _, _ := setupTestServer(t)
	view := createTestGame(t, server)
	require.NotEmpty(t, view.ID)
	assert.Equal(t, game.StatusLive, view.Status)
	assert.InDelta(t, 0.85, view.Auto.IngestThreshold, 0.0001)

	rec := doJSON(t, server, "GET", "/games/"+view.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got gameView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, view.ID, got.ID)

	rec = doJSON(t, server, "GET", "/games/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateGame_Validation(t *testing.T) {
	server, _, _ := setupTestServer(t)

	rec := doJSON(t, server, "POST", "/games", createGameRequest{CreatedBy: "operator-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, "POST", "/games", createGameRequest{
		CreatedBy: "operator-1",
		Mode:      game.ModeSequence,
		TeamA:     []game.Player{{ID: "p1"}},
		TeamB:     []game.Player{{ID: "p2"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordShotHandler(t *testing.T) {
	server, notifierMock, _ := setupTestServer(t)
	view := createTestGame(t, server)

	rec := doJSON(t, server, "POST", "/games/"+view.ID+"/shots", game.Attempt{
		PlayerID: "p1", ShotType: game.ShotMid, Made: true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res scoring.ShotResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Log)
	assert.Nil(t, res.Won)

	// Two more makes reach the target and trigger the win announcement.
	for i := 0; i < 2; i++ {
		rec = doJSON(t, server, "POST", "/games/"+view.ID+"/shots", game.Attempt{
			PlayerID: "p1", ShotType: game.ShotMid, Made: true,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Won)
	assert.Equal(t, 20, res.Won.Points)
	require.Len(t, notifierMock.SendChallengeWonCalls, 1)
	assert.Equal(t, "Spot Shooting", notifierMock.SendChallengeWonCalls[0].Name)

	// Unknown player maps to a 400.
	rec = doJSON(t, server, "POST", "/games/"+view.ID+"/shots", game.Attempt{
		PlayerID: "ghost", ShotType: game.ShotMid, Made: true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReverseShotHandler(t *testing.T) {
	server, _, _ := setupTestServer(t)
	view := createTestGame(t, server)

	rec := doJSON(t, server, "POST", "/games/"+view.ID+"/shots", game.Attempt{
		PlayerID: "p1", ShotType: game.ShotMid, Made: true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var res scoring.ShotResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	rec = doJSON(t, server, "POST", "/games/"+view.ID+"/reverse-shot", map[string]string{"log_id": res.Log.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, server, "POST", "/games/"+view.ID+"/reverse-shot", map[string]string{"log_id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClockHandlers(t *testing.T) {
	server, _, _ := setupTestServer(t)
	view := createTestGame(t, server)

	rec := doJSON(t, server, "POST", "/games/"+view.ID+"/clock/set", map[string]int{"seconds": 120})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, "POST", "/games/"+view.ID+"/clock/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, "GET", "/games/"+view.ID, nil)
	var got gameView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Clock.Running)
	assert.LessOrEqual(t, got.ClockRemaining, 120)
	assert.Greater(t, got.ClockRemaining, 110)

	rec = doJSON(t, server, "POST", "/games/"+view.ID+"/clock/set", map[string]int{"seconds": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, "POST", "/games/"+view.ID+"/bonus/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, server, "GET", "/games/"+view.ID, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.BonusActive)
	assert.False(t, got.Clock.Running)
	assert.Equal(t, 180, got.Clock.Seconds)
}

func TestLockHandlers(t *testing.T) {
	server, _, _ := setupTestServer(t)
	view := createTestGame(t, server)

	rec := doJSON(t, server, "POST", "/games/"+view.ID+"/locks/claim", lockRequest{UID: "tracker-1", Team: game.TeamA})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, server, "POST", "/games/"+view.ID+"/locks/claim", lockRequest{UID: "tracker-2", Team: game.TeamA})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, server, "POST", "/games/"+view.ID+"/locks/assign", lockRequest{UID: "tracker-2", Team: game.TeamA, CallerUID: "operator-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, "GET", "/games/"+view.ID+"/trackers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAutoIngestFlow(t *testing.T) {
	server, _, pubsubMock := setupTestServer(t)
	view := createTestGame(t, server)

	rec := doJSON(t, server, "POST", "/games/"+view.ID+"/auto", game.AutoConfig{
		Enabled: true, IngestThreshold: 0.85, ReviewThreshold: 0.65,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, server, "POST", "/games/"+view.ID+"/events", game.AutoEvent{
		PlayerID: "p1", ShotType: game.ShotMid, Made: true, Confidence: 0.95,
	})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	rec = doJSON(t, server, "POST", "/process", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, "GET", "/games/"+view.ID, nil)
	var got gameView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.ChallengeScore.A)

	// The committed event fanned out on the score-updated topic.
	require.NotEmpty(t, pubsubMock.SendMessageCalls)
	assert.Equal(t, string(pubsub.EventScoreUpdated), pubsubMock.SendMessageCalls[0].Topic)

	t.Run("invalid thresholds rejected", func(t *testing.T) {
		rec := doJSON(t, server, "POST", "/games/"+view.ID+"/auto", game.AutoConfig{
			Enabled: true, IngestThreshold: 0.5, ReviewThreshold: 0.9,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReviewFlow(t *testing.T) {
	server, _, _ := setupTestServer(t)
	view := createTestGame(t, server)

	rec := doJSON(t, server, "POST", "/games/"+view.ID+"/auto", game.AutoConfig{
		Enabled: true, IngestThreshold: 0.85, ReviewThreshold: 0.65,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, "POST", "/games/"+view.ID+"/events", game.AutoEvent{
		PlayerID: "p1", ShotType: game.ShotMid, Made: true, Confidence: 0.7,
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = doJSON(t, server, "POST", "/process", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, "GET", "/games/"+view.ID+"/review", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []*game.ReviewItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, game.ReasonLowConfidence, items[0].Reason)

	rec = doJSON(t, server, "POST", "/review/"+items[0].ID+"/approve", reviewRequest{ResolvedBy: "operator-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, server, "GET", "/games/"+view.ID, nil)
	var got gameView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.ChallengeScore.A)

	// A second approval conflicts.
	rec = doJSON(t, server, "POST", "/review/"+items[0].ID+"/approve", reviewRequest{ResolvedBy: "operator-2"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignalsHandler(t *testing.T) {
	server, _, _ := setupTestServer(t)
	view := createTestGame(t, server)

	nowMS := time.Now().Add(-5 * time.Second).UnixMilli()
	rec := doJSON(t, server, "POST", fmt.Sprintf("/games/%s/signals", view.ID), []map[string]any{
		{
			"camera_id":     "cam-1",
			"ball_track_id": "t1",
			"kind":          "release",
			"timestamp_ms":  nowMS,
			"jersey":        7,
			"jersey_conf":   0.9,
			"range":         "mid",
			"zone":          "wing",
			"zone_conf":     0.8,
		},
		{
			"camera_id":     "cam-2",
			"ball_track_id": "t1",
			"kind":          "net",
			"timestamp_ms":  nowMS + 80,
			"outcome_conf":  0.95,
		},
	})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp["signals"])
	assert.Equal(t, float64(1), resp["proposals"])

	rec = doJSON(t, server, "GET", "/games/"+view.ID+"/events/pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []*game.AutoEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "p1", pending[0].PlayerID)
}

func TestEndGameHandler(t *testing.T) {
	server, notifierMock, _ := setupTestServer(t)
	view := createTestGame(t, server)

	rec := doJSON(t, server, "POST", "/games/"+view.ID+"/end", map[string]string{"caller_uid": "stranger"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, server, "POST", "/games/"+view.ID+"/end", map[string]string{"caller_uid": "operator-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, notifierMock.SendGameEndedCalls, 1)

	rec = doJSON(t, server, "POST", "/games/"+view.ID+"/shots", game.Attempt{
		PlayerID: "p1", ShotType: game.ShotMid, Made: true,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
