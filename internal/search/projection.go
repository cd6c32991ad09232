// Package search owns every call to the hosted search index and the
// translation between persisted document records and the denormalized shape
// the index requires. Index failures are logged and reported as a failure
// signal, never propagated as fatal errors: the database remains the system
// of record and the index may drift until the next successful write or a
// batch resync.
package search

import (
	"time"

	"docsearch/internal/model"
)

// Doc is the search index projection of a document record. Optional record
// fields are materialized with explicit defaults (empty string, null, empty
// list) because the engine does not tolerate missing keys uniformly across
// documents. The creation timestamp is stored as epoch milliseconds so the
// engine can sort on it numerically.
type Doc struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	FileID      string     `json:"fileId"`
	FileName    string     `json:"fileName"`
	FileSize    int64      `json:"fileSize"`
	FileType    string     `json:"fileType"`
	FileURL     string     `json:"fileUrl"`
	CategoryID  *string    `json:"categoryId"`
	Tags        []string   `json:"tags"`
	UploadedBy  string     `json:"uploadedBy"`
	Views       int        `json:"views"`
	Downloads   int        `json:"downloads"`
	CreatedAt   int64      `json:"createdAt"`
	Formatted   *Formatted `json:"_formatted,omitempty"`
}

// Formatted carries the engine's highlight markup for the searchable display
// fields. It is passed through to the caller unchanged.
type Formatted struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// ToProjection maps a document record to its index projection. The mapping is
// total: every optional field gets an explicit default.
func ToProjection(d *model.Document) Doc {
	var category *string
	if d.CategoryID != "" {
		c := d.CategoryID
		category = &c
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return Doc{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Content:     d.Content,
		FileID:      d.FileID,
		FileName:    d.FileName,
		FileSize:    d.FileSize,
		FileType:    d.FileType,
		FileURL:     d.FileURL,
		CategoryID:  category,
		Tags:        tags,
		UploadedBy:  d.UploadedBy,
		Views:       d.Views,
		Downloads:   d.Downloads,
		CreatedAt:   d.CreatedAt.UnixMilli(),
	}
}

// FromHit reconstructs a display-ready document from a search hit. The
// projection keeps a single timestamp, so both CreatedAt and UpdatedAt are
// derived from the same millisecond instant; that loss is accepted for
// display purposes.
func FromHit(hit Doc) *model.Document {
	var category string
	if hit.CategoryID != nil {
		category = *hit.CategoryID
	}
	tags := hit.Tags
	if tags == nil {
		tags = []string{}
	}
	created := time.UnixMilli(hit.CreatedAt).UTC()

	doc := &model.Document{
		ID:          hit.ID,
		Title:       hit.Title,
		Description: hit.Description,
		Content:     hit.Content,
		FileID:      hit.FileID,
		FileName:    hit.FileName,
		FileSize:    hit.FileSize,
		FileType:    hit.FileType,
		FileURL:     hit.FileURL,
		CategoryID:  category,
		Tags:        tags,
		UploadedBy:  hit.UploadedBy,
		Views:       hit.Views,
		Downloads:   hit.Downloads,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	if hit.Formatted != nil {
		doc.Highlighted = map[string]string{
			"title":       hit.Formatted.Title,
			"description": hit.Formatted.Description,
			"content":     hit.Formatted.Content,
		}
	}
	return doc
}
