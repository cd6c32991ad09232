package repository

import (
	"context"

	"docsearch/internal/model"
)

// DocumentRepository defines data access for document records using SQL
// queries only. No business logic here — strictly persistence operations.
// The database is the system of record; the search index is a derived copy
// maintained elsewhere.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a paginated list of documents and total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// Search runs the database's native search: substring title match plus
	// equality filters, newest first, limited. This is the degraded path used
	// when the search index is unavailable.
	Search(ctx context.Context, q NativeQuery) ([]model.Document, error)

	// ListAll returns every document record, newest first. Used by the batch
	// resync tool, not by the interactive request path.
	ListAll(ctx context.Context) ([]model.Document, error)

	// Update applies a partial field merge to a document and bumps its
	// updated_at timestamp. Unknown field names are rejected.
	Update(ctx context.Context, id string, fields map[string]any) (*model.Document, error)

	// IncrementCounter atomically increments the named counter column
	// ("views" or "downloads") and returns the new value.
	IncrementCounter(ctx context.Context, id string, counter string) (int, error)

	// Delete removes a document by ID. It returns nil if the row was deleted
	// or did not exist.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// NativeQuery holds the parameters of the fallback search path.
type NativeQuery struct {
	Query      string
	FileType   string
	CategoryID string
	Limit      int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
