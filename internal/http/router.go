package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/handlers"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	RAGService  service.RAGService
	VectorStore handlers.VectorStoreHealth
	APIKey      string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.RAGService)
	searchHandler := handlers.NewSearchHandler(deps.RAGService)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore)

	r.Route("/api/v1", func(r chi.Router) {
		// Health stays open for probes.
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(deps.APIKey))
			r.Use(Identity)
			r.Method(http.MethodPost, "/chat", chatHandler)
			r.Method(http.MethodPost, "/search", searchHandler)
		})
	})

	return r
}
