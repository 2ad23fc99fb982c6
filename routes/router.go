package routes

import (
	"matchmaker_core/middleware"
	"matchmaker_core/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// NewRouter wires every service onto an authenticated router backed by the
// given store. Shared by main and the integration tests.
func NewRouter(store *services.Store, logger zerolog.Logger) *mux.Router {
	matchService := &services.MatchService{Store: store, Log: logger}
	conversationService := &services.ConversationService{Store: store, Matches: matchService, Log: logger}
	referralService := &services.ReferralService{Store: store, Log: logger}
	profileService := &services.ProfileService{Store: store, Log: logger}

	r := mux.NewRouter()
	r.Use(middleware.Auth(store))

	RegisterMatchRoutes(r, matchService)
	RegisterConversationRoutes(r, conversationService)
	RegisterReferralRoutes(r, referralService)
	RegisterProfileRoutes(r, profileService)
	return r
}
