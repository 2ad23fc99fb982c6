package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"matchmaker_core/middleware"
	"matchmaker_core/models"
	"matchmaker_core/services"
	"matchmaker_core/utils"

	"github.com/gorilla/mux"
)

// ConversationController exposes conversation reads and sends over HTTP.
type ConversationController struct {
	ConversationService *services.ConversationService
}

// GetConversationHandler returns the message history and the caller's view
// of the match.
func (c *ConversationController) GetConversationHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	page, err := c.ConversationService.Get(middleware.UserID(r), matchID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

// PostMessageHandler appends a message carrying text, a puzzle, or both.
func (c *ConversationController) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var req struct {
		Message    string `json:"message"`
		PuzzleType string `json:"puzzle_type"`
		PuzzleLink string `json:"puzzle_link"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "", "Invalid request body")
		return
	}

	var puzzle *models.Puzzle
	if req.PuzzleType != "" || req.PuzzleLink != "" {
		puzzle = &models.Puzzle{Type: req.PuzzleType, Link: req.PuzzleLink}
	}

	page, err := c.ConversationService.Post(middleware.UserID(r), matchID, strings.TrimSpace(req.Message), puzzle)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}
