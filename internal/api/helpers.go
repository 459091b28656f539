package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/sortflow/sortflow/internal/auth"
	"github.com/sortflow/sortflow/internal/models"
	"github.com/sortflow/sortflow/internal/session"
)

// GetSessionFromContext extracts the session token from context and resolves
// the signed-in user, writing appropriate HTTP errors when it fails. Returns
// (token, user, true) on success. Shared by every authenticated handler so
// that session failures look the same everywhere.
func GetSessionFromContext(ctx context.Context, w http.ResponseWriter, sessions *session.Store) (string, models.User, bool) {
	token, ok := auth.GetSessionTokenFromContext(ctx)
	if !ok {
		log.Println("API: No session token in context")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", models.User{}, false
	}

	user, err := sessions.CurrentUser(ctx, token)
	if err != nil {
		log.Printf("API: Failed to resolve session: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", models.User{}, false
	}

	return token, user, true
}

// WriteJSONResponse encodes the value to a buffer first and only then writes
// it, so an encoding failure produces a clean 500 instead of a torn body.
// Returns false if anything went wrong.
func WriteJSONResponse(w http.ResponseWriter, v any) bool {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("API: Failed to encode JSON response: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return false
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("API: Failed to write JSON response: %v", err)
		return false
	}
	return true
}

// DecodeJSONBody decodes the request body into dst, rejecting unknown fields.
// Writes a 400 and returns false on failure.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
