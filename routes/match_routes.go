package routes

import (
	"net/http"

	"matchmaker_core/controllers"
	"matchmaker_core/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes mounts the match endpoints under /match.
func RegisterMatchRoutes(r *mux.Router, svc *services.MatchService) {
	controller := &controllers.MatchController{MatchService: svc}

	match := r.PathPrefix("/match").Subrouter()
	match.HandleFunc("/users_to_match", controller.UsersToMatchHandler).Methods(http.MethodGet)
	match.HandleFunc("/like", controller.LikeHandler).Methods(http.MethodPost)
	match.HandleFunc("/blind_match", controller.BlindMatchHandler).Methods(http.MethodPost)
	match.HandleFunc("/send_note", controller.SendNoteHandler).Methods(http.MethodPost)
	match.HandleFunc("/matches", controller.MatchesHandler).Methods(http.MethodGet)
	match.HandleFunc("/unmatch/{matchId}", controller.UnmatchHandler).Methods(http.MethodDelete)
	match.HandleFunc("/reveal/{matchId}", controller.RevealHandler).Methods(http.MethodPatch)
	match.HandleFunc("/hide/{matchId}", controller.HideHandler).Methods(http.MethodPatch)
	match.HandleFunc("/approve/{matchId}", controller.ApproveHandler).Methods(http.MethodPost)
}
