package http

import (
	"fmt"
	"net/http"

	"github.com/wellball/scorekeeper/internal/game"
)

func (s *Server) clockAction(w http.ResponseWriter, gameID string, fn func(gameID string) error, done string) {
	if err := fn(gameID); err != nil {
		respondError(w, err)
		return
	}
	s.broadcastState(gameID)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, done)
}

func (s *Server) ClockStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clockAction(w, r.PathValue("id"), s.Clock.Start, "Clock started.")
	}
}

func (s *Server) ClockStopHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clockAction(w, r.PathValue("id"), s.Clock.Stop, "Clock stopped.")
	}
}

func (s *Server) ClockSetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Seconds int `json:"seconds"`
		}
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Seconds < 0 {
			http.Error(w, "seconds must be non-negative", http.StatusBadRequest)
			return
		}
		s.clockAction(w, r.PathValue("id"), func(id string) error {
			return s.Clock.SetSeconds(id, req.Seconds)
		}, "Clock set.")
	}
}

func (s *Server) ClockResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Seconds int `json:"seconds"`
		}
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Seconds < 0 {
			http.Error(w, "seconds must be non-negative", http.StatusBadRequest)
			return
		}
		s.clockAction(w, r.PathValue("id"), func(id string) error {
			return s.Clock.Reset(id, req.Seconds)
		}, "Clock reset.")
	}
}

func (s *Server) BonusStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clockAction(w, r.PathValue("id"), s.Clock.StartBonus, "Bonus round started.")
	}
}

func (s *Server) BonusEndHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clockAction(w, r.PathValue("id"), s.Clock.EndBonus, "Bonus round ended.")
	}
}

// BonusCheckHandler lets a client report that the bonus clock it observes has
// hit zero. The observed overtime count makes duplicate reports harmless.
func (s *Server) BonusCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var req struct {
			ObservedOvertime int `json:"observed_overtime"`
		}
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fired, err := s.Clock.CheckBonusExpiry(gameID, req.ObservedOvertime)
		if err != nil {
			respondError(w, err)
			return
		}
		if fired {
			s.broadcastState(gameID)
		}
		writeJSON(w, http.StatusOK, map[string]bool{"overtime_started": fired})
	}
}

func (s *Server) PauseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Reason string `json:"reason"`
		}
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.clockAction(w, r.PathValue("id"), func(id string) error {
			return s.Clock.Pause(id, req.Reason)
		}, "Game paused.")
	}
}

func (s *Server) ResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clockAction(w, r.PathValue("id"), s.Clock.Resume, "Game resumed.")
	}
}

type lockRequest struct {
	UID       string       `json:"uid"`
	Team      game.TeamKey `json:"team"`
	CallerUID string       `json:"caller_uid,omitempty"`
}

func (s *Server) ClaimLockHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var req lockRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Presence.Claim(gameID, req.UID, req.Team); err != nil {
			respondError(w, err)
			return
		}
		s.broadcastState(gameID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Lock claimed.")
	}
}

func (s *Server) ReleaseLockHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var req lockRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Presence.Release(gameID, req.UID, req.Team); err != nil {
			respondError(w, err)
			return
		}
		s.broadcastState(gameID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Lock released.")
	}
}

func (s *Server) AssignLockHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var req lockRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Presence.Assign(gameID, req.CallerUID, req.Team, req.UID); err != nil {
			respondError(w, err)
			return
		}
		s.broadcastState(gameID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Lock assigned.")
	}
}

func (s *Server) HeartbeatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req lockRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Presence.Heartbeat(r.PathValue("id"), req.UID, req.Team); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

func (s *Server) LeaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var req lockRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Presence.Leave(gameID, req.UID); err != nil {
			respondError(w, err)
			return
		}
		s.broadcastState(gameID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Left.")
	}
}

func (s *Server) ListTrackersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackers, err := s.Presence.Trackers(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, trackers)
	}
}
