package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/memvault/memory-vault/internal/api/recovery"
	"github.com/memvault/memory-vault/internal/auth"
	"github.com/memvault/memory-vault/internal/blob"
	"github.com/memvault/memory-vault/internal/services"
	"github.com/memvault/memory-vault/internal/store"
)

// Deps carries everything the router needs; run.go builds it once at startup.
type Deps struct {
	Store      store.Store
	Files      blob.FileStore
	Authorizer auth.Authorizer
	Providers  services.ProviderFactory
	Log        zerolog.Logger
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()

	router.Use(recovery.Middleware)

	chatSvc := services.NewChatService(d.Store, d.Providers, d.Log)
	memorySvc := services.NewMemoryService(d.Store)
	projectSvc := services.NewProjectService(d.Store)
	prdSvc := services.NewPRDService(d.Store, d.Files, d.Log)
	settingsSvc := services.NewSettingsService(d.Store)
	userSvc := services.NewUserService(d.Store)

	var pinger store.HealthPinger
	if hp, ok := d.Store.(store.HealthPinger); ok {
		pinger = hp
	}
	healthHandler := NewHealthHandler(pinger)
	chatHandler := NewChatHandler(chatSvc, d.Authorizer)
	memoryHandler := NewMemoryHandler(memorySvc, d.Authorizer)
	projectHandler := NewProjectHandler(projectSvc, d.Authorizer)
	prdHandler := NewPRDHandler(prdSvc, d.Authorizer)
	settingsHandler := NewSettingsHandler(settingsSvc, d.Authorizer)
	userHandler := NewUserHandler(userSvc, d.Authorizer)

	// Health endpoints
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/api/health/db", healthHandler.CheckStorageHealth).Methods("GET")

	// User endpoints; creation is the one unauthenticated mutation
	router.HandleFunc("/api/users", userHandler.CreateUser).Methods("POST")
	router.HandleFunc("/api/users/me", userHandler.GetUser).Methods("GET")

	// Chat endpoint
	router.HandleFunc("/api/chat", chatHandler.Chat).Methods("POST")

	// Memory endpoints
	router.HandleFunc("/api/memories", memoryHandler.CreateMemory).Methods("POST")
	router.HandleFunc("/api/memories", memoryHandler.ListMemories).Methods("GET")
	router.HandleFunc("/api/memories/{memoryId}", memoryHandler.DeleteMemory).Methods("DELETE")

	// PRD upload
	router.HandleFunc("/api/prd/upload", prdHandler.Upload).Methods("POST")

	// Project and conversation endpoints
	router.HandleFunc("/api/projects", projectHandler.ListProjects).Methods("GET")
	router.HandleFunc("/api/projects/{projectId}", projectHandler.GetProject).Methods("GET")
	router.HandleFunc("/api/projects/{projectId}/sections", projectHandler.ListSections).Methods("GET")
	router.HandleFunc("/api/conversations", projectHandler.ListConversations).Methods("GET")

	// Settings endpoints
	router.HandleFunc("/api/settings/api-key", settingsHandler.SetProviderKey).Methods("POST")
	router.HandleFunc("/api/settings", settingsHandler.GetSettings).Methods("GET")

	return router
}
