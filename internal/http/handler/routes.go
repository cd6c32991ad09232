package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docsearch/internal/model"
	"docsearch/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay free of business logic: they parse, delegate, and translate
// errors into the standardized payload.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService) {
	app.Get("/health", HealthCheck(db, docSvc))
	app.Get("/healthz", LivenessProbe())

	app.Get("/documents", ListOrSearchDocuments(docSvc))
	app.Post("/documents", UploadDocument(docSvc))
	app.Get("/documents/:id", GetDocument(docSvc))
	app.Patch("/documents/:id", UpdateDocument(docSvc))
	app.Post("/documents/:id/view", ViewDocument(docSvc))
	app.Get("/documents/:id/download", DownloadDocument(docSvc))
	app.Delete("/documents/:id", DeleteDocument(docSvc))

	app.Get("/uploads/progress", UploadProgress(docSvc))
	app.Delete("/uploads/progress/:id", ClearUploadProgress(docSvc))
}

// HealthCheck verifies DB connectivity and reports the search index routing
// decision. A down search index does not make the service unhealthy: queries
// degrade to the database path.
func HealthCheck(db *sql.DB, docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"search": docSvc.Refresh(ctx),
		})
	}
}

// LivenessProbe is a backward-compatible simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListOrSearchDocuments serves GET /documents. With a search term or filter
// present it runs a search (routed by index availability); otherwise it
// returns the paginated listing.
func ListOrSearchDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filters := model.SearchFilters{
			Query:      c.Query("q"),
			FileType:   c.Query("file_type"),
			CategoryID: c.Query("category_id"),
			Tags:       splitTags(c.Query("tags")),
		}

		if filters.Query != "" || filters.FileType != "" || filters.CategoryID != "" || len(filters.Tags) > 0 {
			res, err := docSvc.Search(c.UserContext(), filters)
			if err != nil {
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
			return c.JSON(res)
		}

		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// UploadDocument serves POST /documents (multipart/form-data, field name:
// file, optional title/description/tags/category_id fields).
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docSvc.Upload(c.UserContext(), f, service.UploadInput{
			FileName:    fh.Filename,
			ContentType: ct,
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			Tags:        splitTags(c.FormValue("tags")),
			CategoryID:  c.FormValue("category_id"),
			UploadedBy:  c.FormValue("uploaded_by"),
		})
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument serves GET /documents/:id.
func GetDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.Get(c.UserContext(), id)
		if err != nil {
			return translateDocumentError(c, err)
		}
		return c.JSON(doc)
	}
}

type updateDocumentRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	CategoryID  *string  `json:"category_id"`
	Tags        []string `json:"tags"`
}

// UpdateDocument serves PATCH /documents/:id: a partial metadata edit.
// Omitted fields keep their current values.
func UpdateDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		doc, err := docSvc.Update(c.UserContext(), id, service.UpdateInput{
			Title:       req.Title,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			Tags:        req.Tags,
		})
		if err != nil {
			return translateDocumentError(c, err)
		}
		return c.JSON(doc)
	}
}

// ViewDocument serves POST /documents/:id/view: bumps the view counter and
// returns the refreshed record.
func ViewDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.View(c.UserContext(), id)
		if err != nil {
			return translateDocumentError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument serves GET /documents/:id/download: bumps the download
// counter and returns a time-limited URL.
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, doc, err := docSvc.Download(c.UserContext(), id)
		if err != nil {
			return translateDocumentError(c, err)
		}
		return c.JSON(fiber.Map{"url": url, "document": doc})
	}
}

// DeleteDocument serves DELETE /documents/:id.
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := docSvc.Delete(c.UserContext(), id); err != nil {
			return translateDocumentError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UploadProgress serves GET /uploads/progress: a snapshot of in-flight
// uploads.
func UploadProgress(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"uploads": docSvc.Progress()})
	}
}

// ClearUploadProgress serves DELETE /uploads/progress/:id. This only removes
// the progress entry; in-flight I/O is not aborted.
func ClearUploadProgress(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docSvc.ClearProgress(c.Params("id"))
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func translateDocumentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
