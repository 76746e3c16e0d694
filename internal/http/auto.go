package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wellball/scorekeeper/internal/fusion"
	"github.com/wellball/scorekeeper/internal/game"
	"github.com/wellball/scorekeeper/internal/pubsub"
)

func (s *Server) SetAutoModeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var cfg game.AutoConfig
		if err := decodeJSON(r, &cfg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Coordinator.SetAutoMode(gameID, cfg); err != nil {
			respondError(w, err)
			return
		}
		s.broadcastState(gameID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Auto mode updated.")
	}
}

func (s *Server) SubmitEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var ev game.AutoEvent
		if err := decodeJSON(r, &ev); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ev.GameID = gameID
		accepted, err := s.Coordinator.SubmitEvent(&ev)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"accepted": accepted, "event_id": ev.ID})
	}
}

// SignalsHandler ingests raw camera signals, fuses any closed windows and
// hands the proposals to the pending queue.
func (s *Server) SignalsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		var signals []fusion.Signal
		if err := decodeJSON(r, &signals); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		fuser, err := s.fuserFor(gameID)
		if err != nil {
			respondError(w, err)
			return
		}
		for _, sig := range signals {
			fuser.Observe(sig)
		}
		emitted := fuser.Flush(time.Now().UnixMilli())
		writeJSON(w, http.StatusAccepted, map[string]any{"signals": len(signals), "proposals": emitted})
	}
}

// fuserFor returns the per-game fuser, creating it from the game rosters on
// first use.
func (s *Server) fuserFor(gameID string) (*fusion.Fuser, error) {
	s.fuserMu.Lock()
	defer s.fuserMu.Unlock()
	if f, ok := s.fusers[gameID]; ok {
		return f, nil
	}
	g, err := s.Store.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	f := fusion.NewFuser(gameID, g.TeamA, g.TeamB, fusion.DefaultConfig(), s.Coordinator)
	s.fusers[gameID] = f
	return f, nil
}

func (s *Server) ListPendingEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := s.Store.ListPendingAutoEvents(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

func (s *Server) ProcessPendingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting pending event processing...")
		s.Coordinator.ProcessPending()
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Event processing completed.")
		log.Info("Event processing finished.")
	}
}

func (s *Server) ListReviewItemsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.Store.ListOpenReviewItems(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

type reviewRequest struct {
	ResolvedBy string       `json:"resolved_by"`
	Edit       game.Attempt `json:"edit,omitempty"`
}

func (s *Server) ApproveReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := r.PathValue("itemID")
		var req reviewRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Coordinator.ApproveReview(itemID, req.ResolvedBy); err != nil {
			respondError(w, err)
			return
		}
		s.broadcastReviewed(itemID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Review approved.")
	}
}

func (s *Server) EditReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := r.PathValue("itemID")
		var req reviewRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Coordinator.EditAndApprove(itemID, req.ResolvedBy, req.Edit); err != nil {
			respondError(w, err)
			return
		}
		s.broadcastReviewed(itemID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Review approved with edits.")
	}
}

func (s *Server) RejectReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := r.PathValue("itemID")
		var req reviewRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Coordinator.RejectReview(itemID, req.ResolvedBy); err != nil {
			respondError(w, err)
			return
		}
		s.broadcastReviewed(itemID)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Review rejected.")
	}
}

func (s *Server) broadcastReviewed(itemID string) {
	item, err := s.Store.GetReviewItem(itemID)
	if err != nil {
		return
	}
	s.broadcastState(item.GameID)
}

// ScoreUpdatedPushHandler receives pubsub push deliveries on the
// score-updated topic and relays them to the live hub.
func (s *Server) ScoreUpdatedPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received score updated message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		msg := pubsub.ScoreUpdatedMessage{}
		if err := s.pubsub.ProcessMessage(rawData, &msg); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		s.broadcastState(msg.GameID)
		w.Write([]byte("OK"))
	}
}
