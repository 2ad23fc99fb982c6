package controllers

import (
	"encoding/json"
	"net/http"

	"matchmaker_core/middleware"
	"matchmaker_core/services"
	"matchmaker_core/utils"
)

// ProfileController serves the session profile and ingests location reports.
type ProfileController struct {
	ProfileService *services.ProfileService
}

// SessionProfileHandler returns the authenticated actor's profile.
func (c *ProfileController) SessionProfileHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := c.ProfileService.SessionProfile(middleware.UserID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

// UpdateLocationHandler stores the actor's latest position fix.
func (c *ProfileController) UpdateLocationHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Latitude == nil || req.Longitude == nil {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "", "latitude and longitude are required")
		return
	}

	if err := c.ProfileService.UpdateLocation(middleware.UserID(r), *req.Latitude, *req.Longitude); err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
