package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/driftchat/driftchat-server/internal/api/http/handler"
	"github.com/driftchat/driftchat-server/internal/api/http/middleware"
	"github.com/driftchat/driftchat-server/internal/logger"
	"github.com/driftchat/driftchat-server/internal/model"
	"github.com/driftchat/driftchat-server/internal/realtime"
	"github.com/driftchat/driftchat-server/internal/service"
)

// Router wires handlers and middleware onto the HTTP surface.
type Router struct {
	authService    *service.Auth
	conversations  *service.Conversation
	registry       *realtime.Registry
	tokens         model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	conversations *service.Conversation,
	registry *realtime.Registry,
	tokens model.TokenManager,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		conversations:  conversations,
		registry:       registry,
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the route tree. Signup and login are the only open
// endpoints; everything else requires a valid access token.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)

	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)
	messageHandler := handler.NewMessage(r.conversations, r.contextManager, r.logger)
	wsHandler := handler.NewWS(r.registry, r.contextManager, r.logger)

	root := mux.NewRouter()
	root.Use(logging.Handle)

	auth := root.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	auth.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	authProtected := root.PathPrefix("/api/auth").Subrouter()
	authProtected.Use(authenticate.Handle)
	authProtected.HandleFunc("/check", authHandler.Check).Methods(http.MethodGet)
	authProtected.HandleFunc("/update-profile", authHandler.UpdateProfile).Methods(http.MethodPut)

	messages := root.PathPrefix("/api/messages").Subrouter()
	messages.Use(authenticate.Handle)
	messages.HandleFunc("/users", messageHandler.Contacts).Methods(http.MethodGet)
	messages.HandleFunc("/send/{id}", messageHandler.Send).Methods(http.MethodPost)
	messages.HandleFunc("/{id}", messageHandler.List).Methods(http.MethodGet)
	messages.HandleFunc("/{id}", messageHandler.Edit).Methods(http.MethodPut)
	messages.HandleFunc("/{id}", messageHandler.Delete).Methods(http.MethodDelete)

	ws := root.PathPrefix("/ws").Subrouter()
	ws.Use(authenticate.Handle)
	ws.HandleFunc("", wsHandler.Serve).Methods(http.MethodGet)

	return root
}
