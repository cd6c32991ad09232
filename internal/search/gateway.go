package search

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus"

	"docsearch/internal/config"
	"docsearch/internal/model"
)

// Result is the shaped outcome of an index query.
type Result struct {
	Hits               []*model.Document `json:"hits"`
	ProcessingTimeMs   int64             `json:"processing_time_ms"`
	EstimatedTotalHits int64             `json:"estimated_total_hits"`
}

// Gateway is the single owner of all hosted-index calls. Mutating calls are
// best-effort: they report success or failure but the caller must treat a
// failure as non-fatal, because the database mutation has already been
// committed. When no search host is configured every method short-circuits
// without network I/O: mutations succeed as no-ops, queries return an empty
// result, and Health reports false.
type Gateway interface {
	Add(ctx context.Context, doc *model.Document) bool
	Update(ctx context.Context, id string, fields map[string]any) bool
	Delete(ctx context.Context, id string) bool
	Search(ctx context.Context, query string, filters model.SearchFilters) *Result
	Health(ctx context.Context) bool
	Configure(ctx context.Context) error
	SyncAll(ctx context.Context, docs []*model.Document) bool
}

const searchLimit = 50

type meiliGateway struct {
	client   meilisearch.ServiceManager
	index    meilisearch.IndexManager
	indexUID string
	failures *prometheus.CounterVec
}

// NewGateway builds the index gateway from configuration. An empty host means
// search is disabled and the returned gateway never performs network I/O.
func NewGateway(cfg config.MeiliConfig, reg prometheus.Registerer) Gateway {
	g := &meiliGateway{
		indexUID: cfg.IndexUID,
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_index_failures_total",
				Help: "Total number of failed calls to the search index.",
			},
			[]string{"operation"},
		),
	}
	if reg != nil {
		if err := reg.Register(g.failures); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				g.failures = are.ExistingCollector.(*prometheus.CounterVec)
			}
		}
	}

	if cfg.Host == "" {
		logJSON(map[string]any{
			"component": "search",
			"event":     "search_disabled",
			"msg":       "no search host configured, using database search only",
		})
		return g
	}

	g.client = meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))
	g.index = g.client.Index(cfg.IndexUID)
	return g
}

func (g *meiliGateway) enabled() bool { return g.client != nil }

func (g *meiliGateway) fail(op string, err error) bool {
	g.failures.WithLabelValues(op).Inc()
	logJSON(map[string]any{
		"component":     "search",
		"event":         "index_" + op + "_failed",
		"status":        "error",
		"error_message": err.Error(),
	})
	return false
}

// Add indexes a freshly persisted document record.
func (g *meiliGateway) Add(ctx context.Context, doc *model.Document) bool {
	if !g.enabled() {
		return true
	}
	if _, err := g.index.AddDocumentsWithContext(ctx, []Doc{ToProjection(doc)}); err != nil {
		return g.fail("add", err)
	}
	return true
}

// Update applies a partial field update to an indexed document. Fields use the
// projection's attribute names (e.g. "views", "downloads").
func (g *meiliGateway) Update(ctx context.Context, id string, fields map[string]any) bool {
	if !g.enabled() {
		return true
	}
	payload := map[string]any{"id": id}
	for k, v := range fields {
		payload[k] = v
	}
	if _, err := g.index.UpdateDocumentsWithContext(ctx, []map[string]any{payload}); err != nil {
		return g.fail("update", err)
	}
	return true
}

// Delete removes a document from the index.
func (g *meiliGateway) Delete(ctx context.Context, id string) bool {
	if !g.enabled() {
		return true
	}
	if _, err := g.index.DeleteDocumentWithContext(ctx, id); err != nil {
		return g.fail("delete", err)
	}
	return true
}

// Search queries the index with a conjunctive filter expression, newest first,
// capped at 50 hits, with <mark> highlight markers on the display fields.
// Engine failures return an empty result, never an error.
func (g *meiliGateway) Search(ctx context.Context, query string, filters model.SearchFilters) *Result {
	empty := &Result{Hits: []*model.Document{}}
	if !g.enabled() {
		return empty
	}

	req := &meilisearch.SearchRequest{
		Limit:                 searchLimit,
		Sort:                  []string{"createdAt:desc"},
		AttributesToHighlight: []string{"title", "description", "content"},
		HighlightPreTag:       "<mark>",
		HighlightPostTag:      "</mark>",
	}
	if expr := buildFilter(filters); expr != "" {
		req.Filter = expr
	}

	resp, err := g.index.SearchWithContext(ctx, query, req)
	if err != nil {
		g.fail("search", err)
		return empty
	}

	hits := make([]*model.Document, 0, len(resp.Hits))
	for _, raw := range resp.Hits {
		var hit Doc
		b, err := json.Marshal(raw)
		if err != nil {
			continue
		}
		if err := json.Unmarshal(b, &hit); err != nil {
			continue
		}
		hits = append(hits, FromHit(hit))
	}
	return &Result{
		Hits:               hits,
		ProcessingTimeMs:   resp.ProcessingTimeMs,
		EstimatedTotalHits: resp.EstimatedTotalHits,
	}
}

// Health probes the engine. A disabled gateway reports false without warning,
// which routes query traffic to the database's native search.
func (g *meiliGateway) Health(ctx context.Context) bool {
	if !g.enabled() {
		return false
	}
	h, err := g.client.HealthWithContext(ctx)
	if err != nil {
		logJSON(map[string]any{
			"component": "search",
			"event":     "health_check_failed",
			"status":    "warn",
			"msg":       "search index not available, using database search",
		})
		return false
	}
	return h.Status == "available"
}

// Configure creates the index and applies attribute settings. This runs at
// index-setup time (server start, resync tool), not on the query path.
func (g *meiliGateway) Configure(ctx context.Context) error {
	if !g.enabled() {
		return nil
	}
	if _, err := g.client.CreateIndexWithContext(ctx, &meilisearch.IndexConfig{
		Uid:        g.indexUID,
		PrimaryKey: "id",
	}); err != nil {
		// Index may already exist; settings below still apply.
		logJSON(map[string]any{
			"component":     "search",
			"event":         "index_create_skipped",
			"error_message": err.Error(),
		})
	}
	if err := g.updateSettings(ctx); err != nil {
		g.failures.WithLabelValues("configure").Inc()
		logJSON(map[string]any{
			"component":     "search",
			"event":         "index_configure_failed",
			"status":        "error",
			"error_message": err.Error(),
		})
		return err
	}
	return nil
}

func (g *meiliGateway) updateSettings(ctx context.Context) error {
	_, err := g.index.UpdateSettingsWithContext(ctx, &meilisearch.Settings{
		SearchableAttributes: []string{"title", "description", "content", "fileName", "tags"},
		FilterableAttributes: []string{"fileType", "categoryId", "uploadedBy", "createdAt", "tags"},
		SortableAttributes:   []string{"createdAt", "views", "downloads"},
		DisplayedAttributes: []string{
			"id", "title", "description", "fileName", "fileType", "fileSize",
			"fileUrl", "categoryId", "tags", "views", "downloads", "createdAt", "fileId",
		},
	})
	return err
}

// SyncAll re-submits every record to the index in one batch. Used by the
// resync tool to repair drift after failed writes.
func (g *meiliGateway) SyncAll(ctx context.Context, docs []*model.Document) bool {
	if !g.enabled() {
		logJSON(map[string]any{
			"component": "search",
			"event":     "sync_skipped",
			"msg":       "search disabled, skipping sync",
		})
		return false
	}
	projected := make([]Doc, 0, len(docs))
	for _, d := range docs {
		projected = append(projected, ToProjection(d))
	}
	if _, err := g.index.AddDocumentsWithContext(ctx, projected); err != nil {
		return g.fail("sync", err)
	}
	logJSON(map[string]any{
		"component": "search",
		"event":     "sync_complete",
		"count":     len(projected),
	})
	return true
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal search log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
