package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	externalUIDKey contextKey = "externalUID"
	emailKey       contextKey = "email"
)

// WithIdentity adds the authenticated identity to the request context
func WithIdentity(r *http.Request, externalUID, email string) *http.Request {
	ctx := context.WithValue(r.Context(), externalUIDKey, externalUID)
	ctx = context.WithValue(ctx, emailKey, email)
	return r.WithContext(ctx)
}

// ExternalUID retrieves the authenticated identity's subject from
// context, returns empty string if not found
func ExternalUID(r *http.Request) string {
	uid, _ := r.Context().Value(externalUIDKey).(string)
	return uid
}

// Email retrieves the authenticated identity's email from context
func Email(r *http.Request) string {
	email, _ := r.Context().Value(emailKey).(string)
	return email
}
