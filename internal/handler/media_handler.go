package handler

import (
	"errors"
	"io"
	"net/http"

	"algoarena/internal/logger"
	"algoarena/internal/middleware"
	"algoarena/internal/service"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 1 << 20

// MediaHandler holds the dependencies for the image upload handlers.
type MediaHandler struct {
	media service.MediaServicer
	log   logger.Logger
}

// NewMediaHandler creates a new MediaHandler with the given dependencies.
func NewMediaHandler(ms service.MediaServicer, log logger.Logger) *MediaHandler {
	return &MediaHandler{media: ms, log: log}
}

// uploadImage accepts a multipart form with an "image" file part and an
// optional "folder" field, and stores the image in the media store.
func (h *MediaHandler) uploadImage(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return &middleware.AppError{Err: err, Message: "Invalid multipart form", Code: http.StatusBadRequest}
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return &middleware.AppError{Err: err, Message: "Missing image file", Code: http.StatusBadRequest}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return &middleware.AppError{Err: err, Message: "Failed to read image", Code: http.StatusInternalServerError}
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	result, err := h.media.Upload(r.Context(), data, r.FormValue("folder"), contentType)
	if err != nil {
		return appError(err)
	}
	return respondJSON(w, http.StatusCreated, result)
}

// deleteImage deletes the media object behind the URL given in the "url"
// query parameter. Deletion is best-effort, so the response is always 204
// for a well-formed request.
func (h *MediaHandler) deleteImage(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	url := r.URL.Query().Get("url")
	if url == "" {
		return &middleware.AppError{Err: errors.New("missing url parameter"), Message: "Missing url parameter", Code: http.StatusBadRequest}
	}
	h.media.DeleteByURL(r.Context(), url)
	return respondJSON(w, http.StatusNoContent, nil)
}
