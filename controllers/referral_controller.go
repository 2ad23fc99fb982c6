package controllers

import (
	"encoding/json"
	"net/http"

	"matchmaker_core/middleware"
	"matchmaker_core/models"
	"matchmaker_core/services"
	"matchmaker_core/utils"

	"github.com/gorilla/mux"
)

// ReferralController exposes the linked-dater list and the selected-dater
// switch over HTTP.
type ReferralController struct {
	ReferralService *services.ReferralService
}

// LinkedDatersHandler returns the daters linked to a matchmaker. The path
// id must be the authenticated matchmaker's own.
func (c *ReferralController) LinkedDatersHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID != middleware.UserID(r) {
		utils.WriteErrorMessage(w, http.StatusForbidden, "", "Unauthorized")
		return
	}

	linked, err := c.ReferralService.LinkedDaters(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string][]models.Dater{"linked_daters": linked})
}

// SetSelectedDaterHandler switches the matchmaker's acting context.
func (c *ReferralController) SetSelectedDaterHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SelectedDaterID string `json:"selected_dater_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SelectedDaterID == "" {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "", "selected_dater_id is required")
		return
	}

	if err := c.ReferralService.SetSelectedDater(middleware.UserID(r), req.SelectedDaterID); err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "selected"})
}
