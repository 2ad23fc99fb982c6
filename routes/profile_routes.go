package routes

import (
	"net/http"

	"matchmaker_core/controllers"
	"matchmaker_core/services"

	"github.com/gorilla/mux"
)

// RegisterProfileRoutes mounts the session profile and location endpoints.
func RegisterProfileRoutes(r *mux.Router, svc *services.ProfileService) {
	controller := &controllers.ProfileController{ProfileService: svc}

	r.HandleFunc("/profile/", controller.SessionProfileHandler).Methods(http.MethodGet)
	r.HandleFunc("/location/update", controller.UpdateLocationHandler).Methods(http.MethodPost)
}
