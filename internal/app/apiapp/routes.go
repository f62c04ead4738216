package apiapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/config"
	authsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/auth"
	buddysvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/buddies"
	chatsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/chat"
	discoversvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/discover"
	interestsvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/interests"
	swipesvc "github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/services/swipes"
	"github.com/YacineSoredake/FindYourBuddy-Event-Mobile-Application/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService     *authsvc.Service
	InterestService *interestsvc.Service
	SwipeService    *swipesvc.Service
	BuddyService    *buddysvc.Service
	DiscoverService *discoversvc.Service
	ChatService     *chatsvc.Service
	ChatSocket      http.Handler
	Logger          *zap.Logger
	Config          config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	interestHandler := handlers.NewInterestHandler(deps.InterestService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService, deps.BuddyService)
	buddyHandler := handlers.NewBuddyHandler(deps.BuddyService)
	discoverHandler := handlers.NewDiscoverHandler(deps.DiscoverService)
	chatHandler := handlers.NewChatHandler(deps.ChatService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Handle)

	// Identity lives upstream; local issuance is a dev convenience only.
	if deps.Config.Env == "dev" {
		authHandler := handlers.NewAuthHandler(deps.AuthService)
		r.Post("/auth/dev/session", authHandler.DevSession)
	}

	r.Route("/events", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/interest", interestHandler.Mark)
		r.Delete("/interest/{eventId}", interestHandler.Unmark)
		r.Get("/interests", interestHandler.List)
		r.Get("/explore", discoverHandler.Explore)
	})

	r.Route("/swipes", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", swipeHandler.Swipe)
		r.Get("/matches", swipeHandler.Matches)
	})

	r.Route("/buddies", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/request/{eventId}", buddyHandler.Request)
		r.Put("/{buddyId}/respond", buddyHandler.Respond)
		r.Get("/my-requests", buddyHandler.MyRequests)
		r.Get("/event/{eventId}", buddyHandler.EventBuddies)
	})

	r.Route("/messages", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/{buddyId}", chatHandler.GetMessages)
		r.Post("/{buddyId}", chatHandler.SendMessage)
	})

	// The socket authenticates itself from the token query parameter.
	if deps.ChatSocket != nil {
		r.Handle("/ws/chat", deps.ChatSocket)
	}
}
