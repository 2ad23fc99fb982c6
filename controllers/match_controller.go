package controllers

import (
	"encoding/json"
	"net/http"

	"matchmaker_core/middleware"
	"matchmaker_core/services"
	"matchmaker_core/utils"

	"github.com/gorilla/mux"
)

// MatchController exposes the match relationship engine over HTTP.
type MatchController struct {
	MatchService *services.MatchService
}

// UsersToMatchHandler returns the candidate pool for the actor's current
// acting context.
func (c *MatchController) UsersToMatchHandler(w http.ResponseWriter, r *http.Request) {
	candidates, err := c.MatchService.Candidates(middleware.UserID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, candidates)
}

// LikeHandler records a like toward liked_user_id.
func (c *MatchController) LikeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LikedUserID string `json:"liked_user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LikedUserID == "" {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "", "liked_user_id is required")
		return
	}

	if err := c.MatchService.Like(middleware.UserID(r), req.LikedUserID); err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "liked"})
}

// BlindMatchHandler creates an immediate blind match with liked_user_id.
func (c *MatchController) BlindMatchHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LikedUserID string `json:"liked_user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LikedUserID == "" {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "", "liked_user_id is required")
		return
	}

	if err := c.MatchService.BlindMatch(middleware.UserID(r), req.LikedUserID); err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "matched"})
}

// SendNoteHandler records a note-carrying like toward recipient_id.
func (c *MatchController) SendNoteHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecipientID string `json:"recipient_id"`
		Note        string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RecipientID == "" {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "", "recipient_id and note are required")
		return
	}

	if err := c.MatchService.SendNote(middleware.UserID(r), req.RecipientID, req.Note); err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// MatchesHandler returns the actor's matches partitioned by status.
func (c *MatchController) MatchesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := c.MatchService.Matches(middleware.UserID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// UnmatchHandler removes a match permanently.
func (c *MatchController) UnmatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	if err := c.MatchService.Unmatch(middleware.UserID(r), matchID); err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "unmatched"})
}

// RevealHandler flips a blind match to Revealed and returns the updated match.
func (c *MatchController) RevealHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	updated, err := c.MatchService.Reveal(middleware.UserID(r), matchID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, updated)
}

// HideHandler flips a revealed match back to Blind and returns the updated
// match.
func (c *MatchController) HideHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	updated, err := c.MatchService.Hide(middleware.UserID(r), matchID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, updated)
}

// ApproveHandler records this side's approval of a pending match.
func (c *MatchController) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	result, err := c.MatchService.Approve(middleware.UserID(r), matchID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
