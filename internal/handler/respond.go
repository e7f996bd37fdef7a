package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"algoarena/internal/middleware"
	"algoarena/internal/service"
)

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, code int, v interface{}) *middleware.AppError {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return nil
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return &middleware.AppError{Err: err, Message: "Failed to encode response", Code: http.StatusInternalServerError}
	}
	return nil
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) *middleware.AppError {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &middleware.AppError{Err: err, Message: "Invalid request body", Code: http.StatusBadRequest}
	}
	return nil
}

// appError maps service errors onto HTTP status codes.
func appError(err error) *middleware.AppError {
	var sizeErr *service.SizeError
	var typeErr *service.MediaTypeError
	switch {
	case errors.Is(err, service.ErrTopicNotFound), errors.Is(err, service.ErrDocumentNotFound):
		return &middleware.AppError{Err: err, Message: err.Error(), Code: http.StatusNotFound}
	case errors.Is(err, service.ErrNameTaken), errors.Is(err, service.ErrTitleTaken), errors.Is(err, service.ErrTopicNotEmpty):
		return &middleware.AppError{Err: err, Message: err.Error(), Code: http.StatusConflict}
	case errors.Is(err, service.ErrDocumentHidden):
		return &middleware.AppError{Err: err, Message: err.Error(), Code: http.StatusForbidden}
	case errors.Is(err, service.ErrValidation):
		return &middleware.AppError{Err: err, Message: err.Error(), Code: http.StatusBadRequest}
	case errors.As(err, &sizeErr):
		return &middleware.AppError{Err: err, Message: err.Error(), Code: http.StatusRequestEntityTooLarge}
	case errors.As(err, &typeErr):
		return &middleware.AppError{Err: err, Message: err.Error(), Code: http.StatusUnsupportedMediaType}
	default:
		return &middleware.AppError{Err: err, Message: fmt.Sprintf("Internal error: %v", err), Code: http.StatusInternalServerError}
	}
}
