package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/config"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/http"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/llm"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/permissions"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/retrieval"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/service"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/storage"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx := context.Background()

	// Conversation persistence
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)
	conversationRepo := storage.NewConversationRepo(db)

	// Graph store holding records, users and permission edges
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		log.Fatalf("Failed to create Neo4j driver: %v", err)
	}
	defer func() {
		_ = driver.Close(ctx)
	}()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	slog.Info("Graph store connected", "uri", cfg.Neo4jURI)
	permissionStore := permissions.NewNeo4jStore(driver)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.EmbeddingVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.EmbeddingVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.EmbeddingVectorSize)

	// Qdrant vector index over the records collection
	vectorIndex, err := vectorstore.NewQdrantIndex(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.QdrantCollection, embedder, vectorstore.ModeHybrid)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	slog.Info("Vector index ready", "collection", cfg.QdrantCollection)

	// LLM provider, first configured wins
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		if errors.Is(err, llm.ErrNoProvider) {
			log.Fatalf("No LLM provider configured: set OPENAI_API_KEY or OLLAMA_HOST")
		}
		log.Fatalf("Failed to create LLM provider: %v", err)
	}

	ragService := service.NewRAGService(
		provider,
		retrieval.NewSearcher(permissionStore, vectorIndex),
		retrieval.NewSearcher(permissionStore, vectorIndex.WithMode(vectorstore.ModeDense)),
		conversationRepo,
	)
	slog.Info("RAG pipeline initialized")

	deps := &http.Deps{
		RAGService:  ragService,
		VectorStore: vectorIndex,
		APIKey:      cfg.APIKey,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
