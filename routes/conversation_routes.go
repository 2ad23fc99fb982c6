package routes

import (
	"net/http"

	"matchmaker_core/controllers"
	"matchmaker_core/services"

	"github.com/gorilla/mux"
)

// RegisterConversationRoutes mounts the conversation endpoints under
// /conversation.
func RegisterConversationRoutes(r *mux.Router, svc *services.ConversationService) {
	controller := &controllers.ConversationController{ConversationService: svc}

	conversation := r.PathPrefix("/conversation").Subrouter()
	conversation.HandleFunc("/{matchId}", controller.GetConversationHandler).Methods(http.MethodGet)
	conversation.HandleFunc("/{matchId}", controller.PostMessageHandler).Methods(http.MethodPost)
}
