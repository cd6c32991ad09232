// Command resync rebuilds the search index from the database. The database is
// the source of truth; index writes during normal operation are best effort,
// so drift accumulates after index outages. Run this to repair it.
package main

import (
	"context"
	"log"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"docsearch/internal/config"
	"docsearch/internal/database"
	"docsearch/internal/model"
	"docsearch/internal/repository/postgres"
	"docsearch/internal/search"
)

func main() {
	cfg := config.Load()

	if cfg.Meili.Host == "" {
		log.Fatal("MEILISEARCH_HOST is not set, nothing to sync")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	gateway := search.NewGateway(cfg.Meili, prometheus.NewRegistry())
	if err := gateway.Configure(ctx); err != nil {
		log.Fatalf("failed to configure search index: %v", err)
	}
	if !gateway.Health(ctx) {
		log.Fatal("search index is not available")
	}

	repo := postgres.NewDocumentPostgres(db)
	docs, err := repo.ListAll(ctx)
	if err != nil {
		log.Fatalf("failed to load documents: %v", err)
	}

	refs := make([]*model.Document, len(docs))
	for i := range docs {
		refs[i] = &docs[i]
	}

	if ok := gateway.SyncAll(ctx, refs); !ok {
		log.Fatalf("sync failed for %d documents", len(refs))
	}

	log.Printf("synced %d documents to index %q", len(refs), cfg.Meili.IndexUID)
}
