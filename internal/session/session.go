package session

import (
	"context"
	"net/http"
)

// Manager is the subset of the session store the handlers and middleware
// rely on. Satisfied by *scs.SessionManager; mocked in handler tests.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	PopString(ctx context.Context, key string) string
	Destroy(ctx context.Context) error
	Remove(ctx context.Context, key string)
}
