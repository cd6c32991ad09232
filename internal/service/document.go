package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"docsearch/internal/extract"
	"docsearch/internal/model"
	"docsearch/internal/repository"
	"docsearch/internal/search"
	"docsearch/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("document not found")
	ErrReaderNil  = errors.New("reader is nil")
)

const nativeSearchLimit = 50

// UploadInput carries the user-supplied metadata accompanying one file.
// Title and Description are optional: a missing title defaults to the
// filename, a missing description to a truncated prefix of the extracted
// content.
type UploadInput struct {
	FileName    string
	ContentType string
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	UploadedBy  string
}

// UpdateInput carries a partial metadata edit. Nil pointers leave the field
// untouched; nil Tags leaves the tag list untouched, an empty slice clears it.
type UpdateInput struct {
	Title       *string
	Description *string
	CategoryID  *string
	Tags        []string
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// SearchResult is the service-level DTO for a search query, regardless of
// which engine served it.
type SearchResult struct {
	Items              []*model.Document `json:"data"`
	ProcessingTimeMs   int64             `json:"processing_time_ms"`
	EstimatedTotalHits int64             `json:"estimated_total_hits"`
	Engine             string            `json:"engine"`
}

// DocumentService defines the use cases for handling documents. It sequences
// the upload pipeline (blob → extraction → record → index), routes search
// queries based on index availability, and keeps counter mutations flowing
// into both stores.
type DocumentService interface {
	// Upload stores the blob, extracts and normalizes text content, persists
	// the document record, and submits the record to the search index. The
	// index write is best-effort; blob and record failures surface to the
	// caller and roll the pipeline back.
	Upload(ctx context.Context, r io.Reader, in UploadInput) (*model.Document, error)

	// Search routes the query to the hosted index when it is available and a
	// search term is present, and to the database's native search otherwise.
	Search(ctx context.Context, filters model.SearchFilters) (*SearchResult, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// View increments the document's view counter and mirrors the new value
	// to the search index (best-effort).
	View(ctx context.Context, id string) (*model.Document, error)

	// Update applies a partial metadata edit to the record and mirrors the
	// changed attributes to the search index (best-effort).
	Update(ctx context.Context, id string, in UpdateInput) (*model.Document, error)

	// Download increments the download counter, mirrors it to the index
	// (best-effort), and returns a time-limited download URL.
	Download(ctx context.Context, id string) (string, *model.Document, error)

	// Delete removes the blob and the record, then attempts an index delete.
	// An index-delete failure does not fail the operation.
	Delete(ctx context.Context, id string) error

	// Refresh re-probes the search index health and returns the new routing
	// decision.
	Refresh(ctx context.Context) bool

	// Progress snapshots all in-flight upload progress entries.
	Progress() []UploadProgress

	// ClearProgress removes a progress entry. In-flight I/O is not aborted.
	ClearProgress(id string)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store    storage.Storage
	repo     repository.DocumentRepository
	gateway  search.Gateway
	avail    *search.Availability
	progress *ProgressTracker
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, gw search.Gateway, avail *search.Availability) DocumentService {
	return &documentService{
		store:    store,
		repo:     repo,
		gateway:  gw,
		avail:    avail,
		progress: NewProgressTracker(),
	}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, in UploadInput) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	pid := s.progress.Start(in.FileName)
	s.progress.SetStatus(pid, StatusUploading)

	// The file is buffered once: the extractors need the full bytes and the
	// storage client streams the same buffer out.
	data, err := io.ReadAll(r)
	if err != nil {
		s.progress.Fail(pid, err.Error())
		return nil, fmt.Errorf("read upload: %w", err)
	}

	ext := filepath.Ext(in.FileName)
	key := filepath.ToSlash(filepath.Join("documents", uuid.New().String()+ext))

	pr := &progressReader{
		r:       bytes.NewReader(data),
		tracker: s.progress,
		id:      pid,
		total:   int64(len(data)),
	}
	_, err = s.store.Put(ctx, key, pr, storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.FileName,
		},
	})
	if err != nil {
		s.progress.Fail(pid, err.Error())
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	s.progress.SetStatus(pid, StatusProcessing)

	content := extract.Clean(extract.Content(data, in.ContentType, in.FileName))

	title := in.Title
	if title == "" {
		title = in.FileName
	}
	description := in.Description
	if description == "" {
		description = extract.Truncate(content, extract.DefaultDescriptionLength)
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Content:     content,
		FileID:      key,
		FileName:    in.FileName,
		FileSize:    int64(len(data)),
		FileType:    in.ContentType,
		FileURL:     s.store.URL(key),
		CategoryID:  in.CategoryID,
		Tags:        tags,
		UploadedBy:  in.UploadedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.progress.Fail(pid, err.Error())
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		s.progress.Fail(pid, err.Error())
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	// Best-effort: a failed index write leaves the record authoritative and
	// the index stale until the next write or a batch resync.
	s.gateway.Add(ctx, stored)

	s.progress.SetStatus(pid, StatusCompleted)
	return stored, nil
}

func (s *documentService) Search(ctx context.Context, filters model.SearchFilters) (*SearchResult, error) {
	if s.avail.Enabled() && filters.Query != "" {
		res := s.gateway.Search(ctx, filters.Query, filters)
		return &SearchResult{
			Items:              res.Hits,
			ProcessingTimeMs:   res.ProcessingTimeMs,
			EstimatedTotalHits: res.EstimatedTotalHits,
			Engine:             "meilisearch",
		}, nil
	}

	docs, err := s.repo.Search(ctx, repository.NativeQuery{
		Query:      filters.Query,
		FileType:   filters.FileType,
		CategoryID: filters.CategoryID,
		Limit:      nativeSearchLimit,
	})
	if err != nil {
		return nil, err
	}
	items := make([]*model.Document, 0, len(docs))
	for i := range docs {
		items = append(items, &docs[i])
	}
	return &SearchResult{
		Items:              items,
		EstimatedTotalHits: int64(len(items)),
		Engine:             "database",
	}, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) View(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	views, err := s.repo.IncrementCounter(ctx, id, "views")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// The projection's counter lags until this update lands.
	s.gateway.Update(ctx, id, map[string]any{"views": views})

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, id string, in UpdateInput) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	// The repository takes column names, the index mirror takes projection
	// attribute names.
	fields := map[string]any{}
	mirror := map[string]any{}
	if in.Title != nil {
		fields["title"] = *in.Title
		mirror["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
		mirror["description"] = *in.Description
	}
	if in.CategoryID != nil {
		fields["category_id"] = *in.CategoryID
		if *in.CategoryID == "" {
			mirror["categoryId"] = nil
		} else {
			mirror["categoryId"] = *in.CategoryID
		}
	}
	if in.Tags != nil {
		fields["tags"] = in.Tags
		mirror["tags"] = in.Tags
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	doc, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.gateway.Update(ctx, id, mirror)
	return doc, nil
}

func (s *documentService) Download(ctx context.Context, id string) (string, *model.Document, error) {
	if id == "" {
		return "", nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrNotFound
		}
		return "", nil, err
	}

	downloads, err := s.repo.IncrementCounter(ctx, id, "downloads")
	if err != nil {
		return "", nil, err
	}
	s.gateway.Update(ctx, id, map[string]any{"downloads": downloads})
	doc.Downloads = downloads

	url, err := s.store.PresignGet(ctx, doc.FileID, 15*time.Minute)
	if err != nil {
		return "", nil, fmt.Errorf("presign download: %w", err)
	}
	return url, doc, nil
}

// Delete removes a document from storage and the database, then attempts the
// index delete. The record and blob being gone is what makes the operation a
// success; a stale index entry is repaired by the next resync.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Delete from storage first; if this fails, keep DB row to avoid orphaned storage reference loss
	if err := s.store.Delete(ctx, doc.FileID); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.gateway.Delete(ctx, id)
	return nil
}

func (s *documentService) Refresh(ctx context.Context) bool {
	return s.avail.Refresh(ctx)
}

func (s *documentService) Progress() []UploadProgress {
	return s.progress.List()
}

func (s *documentService) ClearProgress(id string) {
	s.progress.Remove(id)
}
