package handler

import (
	"net/http"

	appmw "algoarena/internal/middleware"
	"algoarena/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures a new chi router.
func NewRouter(
	topicHandler *TopicHandler,
	documentHandler *DocumentHandler,
	mediaHandler *MediaHandler,
	authHandler *AuthHandler,
	authzMiddleware func(http.Handler) http.Handler,
	errorMiddleware func(appmw.AppHandler) http.Handler,
	sm session.Manager,
) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(sm.LoadAndSave)

	// Authentication routes
	r.Get("/auth/login", authHandler.handleLogin)
	r.Get("/auth/callback", authHandler.handleCallback)
	r.Get("/auth/logout", authHandler.handleLogout)

	// Everything else goes through the authorizer; the seeded policies
	// grant anonymous access to the public read surface.
	r.Group(func(r chi.Router) {
		r.Use(authzMiddleware)

		// Public read surface
		r.Method(http.MethodGet, "/topics", errorMiddleware(topicHandler.listTopics))
		r.Method(http.MethodGet, "/topics/{identifier}", errorMiddleware(topicHandler.getTopic))
		r.Method(http.MethodGet, "/topics/{topicID}/documents", errorMiddleware(documentHandler.listDocuments))
		r.Method(http.MethodGet, "/topics/{topicID}/documents/slug/{slug}", errorMiddleware(documentHandler.getDocumentBySlug))
		r.Method(http.MethodGet, "/documents/{id}", errorMiddleware(documentHandler.getDocument))
		r.Method(http.MethodGet, "/stats", errorMiddleware(topicHandler.stats))

		// Management surface
		r.Method(http.MethodGet, "/admin/topics", errorMiddleware(topicHandler.adminListTopics))
		r.Method(http.MethodPost, "/admin/topics", errorMiddleware(topicHandler.createTopic))
		r.Method(http.MethodPut, "/admin/topics/{id}", errorMiddleware(topicHandler.updateTopic))
		r.Method(http.MethodDelete, "/admin/topics/{id}", errorMiddleware(topicHandler.deleteTopic))

		r.Method(http.MethodGet, "/admin/topics/{topicID}/documents", errorMiddleware(documentHandler.adminListDocuments))
		r.Method(http.MethodGet, "/admin/documents/{id}", errorMiddleware(documentHandler.adminGetDocument))
		r.Method(http.MethodPost, "/admin/documents", errorMiddleware(documentHandler.createDocument))
		r.Method(http.MethodPut, "/admin/documents/{id}", errorMiddleware(documentHandler.updateDocument))
		r.Method(http.MethodDelete, "/admin/documents/{id}", errorMiddleware(documentHandler.deleteDocument))

		r.Method(http.MethodPost, "/admin/images", errorMiddleware(mediaHandler.uploadImage))
		r.Method(http.MethodDelete, "/admin/images", errorMiddleware(mediaHandler.deleteImage))
	})

	return r
}
