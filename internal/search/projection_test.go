package search

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsearch/internal/model"
)

func TestToProjection_Defaults(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := &model.Document{
		ID:        "doc-1",
		Title:     "Quarterly Report",
		FileID:    "file-1",
		FileName:  "report.pdf",
		FileSize:  1024,
		FileType:  "application/pdf",
		FileURL:   "https://blob/report.pdf",
		CreatedAt: created,
	}

	p := ToProjection(doc)

	assert.Equal(t, "doc-1", p.ID)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, "", p.Content)
	assert.Nil(t, p.CategoryID)
	assert.Equal(t, []string{}, p.Tags)
	assert.Equal(t, 0, p.Views)
	assert.Equal(t, 0, p.Downloads)
	assert.Equal(t, created.UnixMilli(), p.CreatedAt)
}

// Every optional field must serialize to an explicit value, never a missing key.
func TestToProjection_NoMissingKeys(t *testing.T) {
	b, err := json.Marshal(ToProjection(&model.Document{ID: "x"}))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	for _, key := range []string{
		"id", "title", "description", "content", "fileId", "fileName",
		"fileSize", "fileType", "fileUrl", "categoryId", "tags",
		"uploadedBy", "views", "downloads", "createdAt",
	} {
		_, ok := m[key]
		assert.True(t, ok, "missing key %q", key)
	}
	assert.Nil(t, m["categoryId"])
	assert.Equal(t, []any{}, m["tags"])
}

func TestRoundTrip(t *testing.T) {
	created := time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC)
	doc := &model.Document{
		ID:          "doc-2",
		Title:       "Quarterly report",
		Description: "figures for the quarter",
		Content:     "full text",
		FileID:      "file-2",
		FileName:    "report.docx",
		FileSize:    2048,
		FileType:    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		FileURL:     "https://blob/report.docx",
		CategoryID:  "cat-1",
		Tags:        []string{"design", "draft"},
		UploadedBy:  "user-1",
		Views:       3,
		Downloads:   1,
		CreatedAt:   created,
	}

	got := FromHit(ToProjection(doc))

	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.FileName, got.FileName)
	assert.Equal(t, doc.FileType, got.FileType)
	assert.Equal(t, doc.Tags, got.Tags)
	assert.Equal(t, doc.CategoryID, got.CategoryID)
	assert.Equal(t, doc.Views, got.Views)
	// Both display timestamps derive from the same stored instant.
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.Equal(created))
}

func TestFromHit_CarriesHighlights(t *testing.T) {
	hit := Doc{
		ID:    "doc-3",
		Title: "Roadmap",
		Formatted: &Formatted{
			Title:   "<mark>Roadmap</mark>",
			Content: "plan for <mark>search</mark>",
		},
	}

	got := FromHit(hit)

	require.NotNil(t, got.Highlighted)
	assert.Equal(t, "<mark>Roadmap</mark>", got.Highlighted["title"])
	assert.Equal(t, "plan for <mark>search</mark>", got.Highlighted["content"])
}
