package handler

import (
	"net/http"
	"strconv"

	"algoarena/internal/logger"
	"algoarena/internal/middleware"
	"algoarena/internal/service"

	"github.com/go-chi/chi/v5"
)

// DocumentHandler holds the dependencies for the document handlers.
type DocumentHandler struct {
	docs            service.DocumentServicer
	defaultPageSize int
	log             logger.Logger
}

// NewDocumentHandler creates a new DocumentHandler with the given dependencies.
func NewDocumentHandler(ds service.DocumentServicer, defaultPageSize int, log logger.Logger) *DocumentHandler {
	return &DocumentHandler{docs: ds, defaultPageSize: defaultPageSize, log: log}
}

// pagination reads the page and size query parameters, falling back to
// page 0 and the configured default size.
func (h *DocumentHandler) pagination(r *http.Request) (page, size int) {
	page = 0
	size = h.defaultPageSize
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			size = n
		}
	}
	return page, size
}

// listDocuments returns one page of a topic's active documents, content omitted.
func (h *DocumentHandler) listDocuments(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, size := h.pagination(r)
	result, err := h.docs.ListByTopic(r.Context(), chi.URLParam(r, "topicID"), page, size, false)
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusOK, result)
}

// getDocument returns a single document with its full content.
func (h *DocumentHandler) getDocument(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	doc, err := h.docs.GetByID(r.Context(), chi.URLParam(r, "id"), false)
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusOK, doc)
}

// getDocumentBySlug resolves a document by its slug within a topic.
func (h *DocumentHandler) getDocumentBySlug(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	doc, err := h.docs.GetByTopicAndSlug(r.Context(), chi.URLParam(r, "topicID"), chi.URLParam(r, "slug"), false)
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusOK, doc)
}

// adminListDocuments returns one page of a topic's documents, hidden ones included.
func (h *DocumentHandler) adminListDocuments(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, size := h.pagination(r)
	result, err := h.docs.ListByTopic(r.Context(), chi.URLParam(r, "topicID"), page, size, true)
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusOK, result)
}

// adminGetDocument returns any document regardless of visibility.
func (h *DocumentHandler) adminGetDocument(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	doc, err := h.docs.GetByID(r.Context(), chi.URLParam(r, "id"), true)
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) createDocument(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var input service.DocumentInput
	if appErr := decodeJSON(r, &input); appErr != nil {
		return appErr
	}
	actor := middleware.GetUserInfo(r.Context()).Subject
	doc, err := h.docs.Create(r.Context(), input, actor)
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) updateDocument(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var input service.DocumentInput
	if appErr := decodeJSON(r, &input); appErr != nil {
		return appErr
	}
	actor := middleware.GetUserInfo(r.Context()).Subject
	doc, err := h.docs.Update(r.Context(), chi.URLParam(r, "id"), input, actor)
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) deleteDocument(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.docs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusNoContent, nil)
}
