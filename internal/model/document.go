package model

import "time"

// Document represents one uploaded file and its extracted, search-ready text.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage, search) without coupling
// to persistence.
//
// FileID, FileName, FileSize, FileType and FileURL are set once at upload and
// never change afterwards. Views and Downloads only ever grow, and only through
// the explicit increment operations on the service layer.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content,omitempty"`
	FileID      string    `json:"file_id"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	FileType    string    `json:"file_type"`
	FileURL     string    `json:"file_url"`
	CategoryID  string    `json:"category_id,omitempty"`
	Tags        []string  `json:"tags"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	Views       int       `json:"views"`
	Downloads   int       `json:"downloads"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Highlighted carries engine-supplied highlight markup for title,
	// description and content when the document was produced from a search
	// hit. It is passed through to the presentation layer untouched and is
	// never persisted.
	Highlighted map[string]string `json:"highlighted,omitempty"`
}

// SearchFilters narrows a document query. All fields are optional; zero values
// mean "no constraint". Tag filters are a disjunction among themselves and a
// conjunction with the other fields.
type SearchFilters struct {
	Query      string   `json:"query"`
	FileType   string   `json:"file_type"`
	CategoryID string   `json:"category_id"`
	Tags       []string `json:"tags"`
}
