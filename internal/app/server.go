package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/subramaniyam22/Analyzer/internal/api/handlers"
	appMiddleware "github.com/subramaniyam22/Analyzer/internal/api/middlewares"
	"github.com/subramaniyam22/Analyzer/internal/config"
	"github.com/subramaniyam22/Analyzer/internal/core"
	"github.com/subramaniyam22/Analyzer/internal/core/ingest"
	"github.com/subramaniyam22/Analyzer/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, dbclient core.DbClient, objclient core.ObjectClient, ingestor ingest.Ingestor, chat *services.ChatService, analysis *services.AnalysisService) *Server {
	authHandler := handlers.NewAuthHandler(dbclient, cfg.JWTSecret)
	projectHandler := handlers.NewProjectHandler(dbclient)
	docHandler := handlers.NewDocumentHandler(dbclient, objclient, ingestor, cfg.BucketName)
	chatHandler := handlers.NewChatHandler(dbclient, chat)
	analysisHandler := handlers.NewAnalysisHandler(dbclient, analysis)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", handlers.Health)

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/signup", authHandler.Signup)
		api.Post("/login", authHandler.Login)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWTMiddleware(cfg.JWTSecret))

			protected.Post("/projects", projectHandler.CreateProject)
			protected.Get("/projects", projectHandler.ListProjects)

			protected.Route("/projects/{projectID}", func(pr chi.Router) {
				pr.Post("/organizations", projectHandler.CreateOrganization)
				pr.Get("/organizations", projectHandler.ListOrganizations)

				pr.Post("/organizations/{orgID}/documents", docHandler.UploadDocument)
				pr.Get("/documents", docHandler.ListDocuments)
				pr.Get("/documents/{documentID}", docHandler.GetDocument)
				pr.Post("/documents/{documentID}/reprocess", docHandler.ReprocessDocument)

				pr.Post("/chat", chatHandler.SendMessage)
				pr.Get("/chat", chatHandler.GetHistory)

				pr.Post("/analysis", analysisHandler.RunAnalysis)
				pr.Get("/analysis/latest", analysisHandler.GetLatestAnalysis)
			})
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
