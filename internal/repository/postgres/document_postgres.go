package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"docsearch/internal/model"
	"docsearch/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of
// repository.DocumentRepository. It uses database/sql with parameterized
// queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, title, description, content, file_id, file_name, file_size,
		file_type, file_url, category_id, tags, uploaded_by, views, downloads,
		created_at, updated_at`

// updatableColumns whitelists the fields a partial Update may touch. The five
// file facts are immutable after upload and the counters have their own
// increment path.
var updatableColumns = map[string]struct{}{
	"title":       {},
	"description": {},
	"content":     {},
	"category_id": {},
	"tags":        {},
	"views":       {},
	"downloads":   {},
}

// counterColumns whitelists the monotonically increasing counters.
var counterColumns = map[string]struct{}{
	"views":     {},
	"downloads": {},
}

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	var description, content, categoryID, uploadedBy sql.NullString
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&description,
		&content,
		&d.FileID,
		&d.FileName,
		&d.FileSize,
		&d.FileType,
		&d.FileURL,
		&categoryID,
		pq.Array(&d.Tags),
		&uploadedBy,
		&d.Views,
		&d.Downloads,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.Description = description.String
	d.Content = content.String
	d.CategoryID = categoryID.String
	d.UploadedBy = uploadedBy.String
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	q := `
		INSERT INTO documents (id, title, description, content, file_id, file_name,
			file_size, file_type, file_url, category_id, tags, uploaded_by,
			views, downloads, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		nullIfEmpty(doc.Description),
		nullIfEmpty(doc.Content),
		doc.FileID,
		doc.FileName,
		doc.FileSize,
		doc.FileType,
		doc.FileURL,
		nullIfEmpty(doc.CategoryID),
		pq.Array(doc.Tags),
		nullIfEmpty(doc.UploadedBy),
		doc.Views,
		doc.Downloads,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + documentColumns + `
		FROM documents
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collectDocuments(rows)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// Search is the database's native (non-ranked) search path: case-insensitive
// substring match on title plus equality filters, newest first.
func (r *DocumentPostgres) Search(ctx context.Context, nq repository.NativeQuery) ([]model.Document, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if nq.Query != "" {
		conds = append(conds, "title ILIKE "+arg("%"+nq.Query+"%"))
	}
	if nq.FileType != "" {
		conds = append(conds, "file_type = "+arg(nq.FileType))
	}
	if nq.CategoryID != "" {
		conds = append(conds, "category_id = "+arg(nq.CategoryID))
	}

	q := `SELECT ` + documentColumns + ` FROM documents`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC LIMIT " + arg(nq.Limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// ListAll returns every record for the batch resync tool.
func (r *DocumentPostgres) ListAll(ctx context.Context) ([]model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// Update applies a partial field merge and bumps updated_at. Column names
// outside the whitelist are rejected before any SQL is built.
func (r *DocumentPostgres) Update(ctx context.Context, id string, fields map[string]any) (*model.Document, error) {
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	for col, val := range fields {
		if _, ok := updatableColumns[col]; !ok {
			return nil, fmt.Errorf("column %q is not updatable", col)
		}
		if col == "tags" {
			if tags, ok := val.([]string); ok {
				val = pq.Array(tags)
			}
		}
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE documents SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), documentColumns)
	return scanDocument(r.db.QueryRowContext(ctx, q, args...))
}

// IncrementCounter atomically bumps a counter column and returns the new value.
func (r *DocumentPostgres) IncrementCounter(ctx context.Context, id string, counter string) (int, error) {
	if _, ok := counterColumns[counter]; !ok {
		return 0, fmt.Errorf("column %q is not a counter", counter)
	}
	q := fmt.Sprintf(`UPDATE documents SET %s = %s + 1, updated_at = now() WHERE id = $1 RETURNING %s`,
		counter, counter, counter)
	var value int
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

// Delete removes a document by ID. It does not return an error if the row
// does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

func collectDocuments(rows *sql.Rows) ([]model.Document, error) {
	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
