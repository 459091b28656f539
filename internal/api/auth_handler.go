package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/sortflow/sortflow/internal/auth"
	"github.com/sortflow/sortflow/internal/models"
	"github.com/sortflow/sortflow/internal/session"
)

// AuthHandler handles sign-up, sign-in, sign-out, and the current-user view.
type AuthHandler struct {
	sessions *session.Store
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(sessions *session.Store) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates a new identity and returns a session token.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	user, token, err := h.sessions.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrEmailTaken) {
			http.Error(w, "Email already registered", http.StatusConflict)
			return
		}
		log.Printf("AuthHandler: Failed to sign up: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSONResponse(w, models.AuthResponse{Token: token, User: user})
}

// SignIn validates credentials and returns a session token.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}

	user, token, err := h.sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Printf("AuthHandler: Failed to sign in: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSONResponse(w, models.AuthResponse{Token: token, User: user})
}

// SignOut invalidates the current session token.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.GetSessionTokenFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.sessions.SignOut(r.Context(), token); err != nil {
		log.Printf("AuthHandler: Failed to sign out: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Upgrade flips the signed-in identity to the pro plan and returns the
// updated user.
func (h *AuthHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	token, _, ok := GetSessionFromContext(r.Context(), w, h.sessions)
	if !ok {
		return
	}

	user, err := h.sessions.Upgrade(r.Context(), token)
	if err != nil {
		log.Printf("AuthHandler: Failed to upgrade: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSONResponse(w, user)
}

// Me returns the signed-in user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	_, user, ok := GetSessionFromContext(r.Context(), w, h.sessions)
	if !ok {
		return
	}

	WriteJSONResponse(w, user)
}
