package routes

import (
	"net/http"

	"matchmaker_core/controllers"
	"matchmaker_core/services"

	"github.com/gorilla/mux"
)

// RegisterReferralRoutes mounts the linked-dater endpoints under /referral.
func RegisterReferralRoutes(r *mux.Router, svc *services.ReferralService) {
	controller := &controllers.ReferralController{ReferralService: svc}

	referral := r.PathPrefix("/referral").Subrouter()
	referral.HandleFunc("/referrals/{userId}", controller.LinkedDatersHandler).Methods(http.MethodGet)
	referral.HandleFunc("/set_selected_dater", controller.SetSelectedDaterHandler).Methods(http.MethodPost)
}
