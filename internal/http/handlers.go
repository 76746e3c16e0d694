package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/wellball/scorekeeper/internal/challenges"
	"github.com/wellball/scorekeeper/internal/clock"
	"github.com/wellball/scorekeeper/internal/game"
)

// gameView is the API shape of a game: the stored document plus the derived
// clock remaining time.
type gameView struct {
	*game.Game
	ClockRemaining int `json:"clock_remaining"`
}

func newGameView(g *game.Game) gameView {
	return gameView{Game: g, ClockRemaining: clock.Remaining(g.Clock, time.Now())}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, game.ErrLogNotFound),
		errors.Is(err, game.ErrEventNotFound),
		errors.Is(err, game.ErrReviewItemNotFound),
		errors.Is(err, challenges.ErrChallengeNotFound),
		errors.Is(err, challenges.ErrSequenceNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrNotMainOperator),
		errors.Is(err, game.ErrNotAssignedTracker):
		return http.StatusForbidden
	case errors.Is(err, game.ErrGameEnded),
		errors.Is(err, game.ErrChallengeCompleted),
		errors.Is(err, game.ErrClockGated),
		errors.Is(err, game.ErrBonusNotActive),
		errors.Is(err, game.ErrSpecialtyAlreadyUsed),
		errors.Is(err, game.ErrShotRuleViolation),
		errors.Is(err, game.ErrInvalidLockTransition),
		errors.Is(err, game.ErrReviewItemResolved),
		errors.Is(err, game.ErrEventAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidThreshold),
		errors.Is(err, game.ErrUnknownPlayer),
		errors.Is(err, game.ErrBadEventShape):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

// broadcastState pushes the current game document to every live subscriber.
func (s *Server) broadcastState(gameID string) {
	g, err := s.Store.GetGame(gameID)
	if err != nil {
		log.Error("Failed to load game for broadcast", "gameID", gameID, "error", err)
		return
	}
	s.Hub.Broadcast(gameID, map[string]any{"type": "state", "game": newGameView(g)})
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

type createGameRequest struct {
	Name            string        `json:"name"`
	Mode            game.Mode     `json:"mode"`
	CreatedBy       string        `json:"created_by"`
	TeamA           []game.Player `json:"team_a"`
	TeamB           []game.Player `json:"team_b"`
	ChallengeIDs    []string      `json:"challenge_ids,omitempty"`
	SequenceID      string        `json:"sequence_id,omitempty"`
	FreestyleTarget int           `json:"freestyle_target,omitempty"`
	FreestylePoints int           `json:"freestyle_points,omitempty"`
}

func (s *Server) CreateGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGameRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.CreatedBy == "" || len(req.TeamA) == 0 || len(req.TeamB) == 0 {
			http.Error(w, "created_by and both team rosters are required", http.StatusBadRequest)
			return
		}
		if req.Mode == "" {
			req.Mode = game.ModeSequence
		}

		challengeIDs := req.ChallengeIDs
		if req.SequenceID != "" {
			seq, err := s.Challenges.GetSequence(req.SequenceID)
			if err != nil {
				respondError(w, err)
				return
			}
			challengeIDs = seq.ChallengeIDs
		}
		if req.Mode == game.ModeSequence && len(challengeIDs) == 0 {
			http.Error(w, "sequence games need challenge_ids or a sequence_id", http.StatusBadRequest)
			return
		}

		g := &game.Game{
			ID:              uuid.NewString(),
			Name:            req.Name,
			Status:          game.StatusLive,
			Mode:            req.Mode,
			CreatedBy:       req.CreatedBy,
			TeamA:           req.TeamA,
			TeamB:           req.TeamB,
			ChallengeIDs:    challengeIDs,
			FreestyleTarget: req.FreestyleTarget,
			FreestylePoints: req.FreestylePoints,
			Auto: game.AutoConfig{
				IngestThreshold: s.Cfg.Ingest.IngestThreshold,
				ReviewThreshold: s.Cfg.Ingest.ReviewThreshold,
			},
			CreatedAt: time.Now().Unix(),
		}
		if err := s.Store.CreateGame(g); err != nil {
			respondError(w, err)
			return
		}
		log.Info("Game created", "gameID", g.ID, "mode", g.Mode, "name", g.Name)
		writeJSON(w, http.StatusCreated, newGameView(g))
	}
}

func (s *Server) ListGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := s.Store.ListGames()
		if err != nil {
			respondError(w, err)
			return
		}
		views := make([]gameView, 0, len(games))
		for _, g := range games {
			views = append(views, newGameView(g))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func (s *Server) GetGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := s.Store.GetGame(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newGameView(g))
	}
}

func (s *Server) ListLogsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := s.Store.ListLogs(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, logs)
	}
}

func (s *Server) RecordShotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var attempt game.Attempt
		if err := decodeJSON(r, &attempt); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		attempt.Source = game.SourceManual

		res, err := s.Engine.RecordShot(gameID, attempt)
		if err != nil {
			respondError(w, err)
			return
		}
		s.broadcastState(gameID)
		if res.Won != nil {
			s.announceWin(gameID, res.Won, isDryRunFromContext(r))
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// announceWin sends the challenge-won fan-out: Slack and the live hub.
func (s *Server) announceWin(gameID string, won *game.ChallengeWon, dryRun bool) {
	g, err := s.Store.GetGame(gameID)
	if err != nil {
		log.Error("Failed to load game for win announcement", "gameID", gameID, "error", err)
		return
	}
	challengeName := ""
	if g.Mode == game.ModeSequence && won.AtIndex < len(g.ChallengeIDs) {
		if ch, err := s.Challenges.GetChallenge(g.ChallengeIDs[won.AtIndex]); err == nil {
			challengeName = ch.Name
		}
	}
	if err := s.Notifier.SendChallengeWonNotification(g, won, challengeName, dryRun); err != nil {
		log.Error("Failed to send challenge won notification", "gameID", gameID, "error", err)
	}
	s.Hub.Broadcast(gameID, map[string]any{"type": "challenge_won", "won": won})
}

func (s *Server) ReverseShotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var req struct {
			LogID string `json:"log_id"`
		}
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Engine.ReverseShot(gameID, req.LogID); err != nil {
			respondError(w, err)
			return
		}
		s.broadcastState(gameID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Shot reversed.")
	}
}

func (s *Server) AdvanceChallengeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var req struct {
			CallerUID string `json:"caller_uid"`
		}
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Engine.AdvanceChallenge(gameID, req.CallerUID); err != nil {
			respondError(w, err)
			return
		}
		s.broadcastState(gameID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Challenge advanced.")
	}
}

func (s *Server) EndGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var req struct {
			CallerUID string `json:"caller_uid"`
		}
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Clock.EndGame(gameID, req.CallerUID); err != nil {
			respondError(w, err)
			return
		}

		isDryRun := isDryRunFromContext(r)
		if g, err := s.Store.GetGame(gameID); err == nil {
			if err := s.Notifier.SendGameEndedNotification(g, isDryRun); err != nil {
				log.Error("Failed to send game ended notification", "gameID", gameID, "error", err)
			}
		}
		s.broadcastState(gameID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Game ended.")
	}
}

func (s *Server) ListChallengesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Challenges.ListChallenges()
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) UpsertChallengeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ch challenges.Challenge
		if err := decodeJSON(r, &ch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if ch.ID == "" {
			ch.ID = uuid.NewString()
		}
		if err := s.Challenges.UpsertChallenge(&ch); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ch)
	}
}

func (s *Server) ListSequencesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Challenges.ListSequences()
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) UpsertSequenceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var seq challenges.Sequence
		if err := decodeJSON(r, &seq); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if seq.ID == "" {
			seq.ID = uuid.NewString()
		}
		if err := s.Challenges.UpsertSequence(&seq); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, seq)
	}
}
