package controllers

import (
	"errors"
	"net/http"

	"matchmaker_core/services"
	"matchmaker_core/utils"
)

// respondError maps a service failure onto the uniform error body.
func respondError(w http.ResponseWriter, err error) {
	var serr *services.Error
	if errors.As(err, &serr) {
		utils.WriteErrorMessage(w, serr.Status, serr.Code, serr.Message)
		return
	}
	utils.WriteErrorMessage(w, http.StatusInternalServerError, "", "Internal server error")
}
