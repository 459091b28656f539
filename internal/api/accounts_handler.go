package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/sortflow/sortflow/internal/session"
)

// AccountsHandler handles linked-account management for the signed-in identity.
type AccountsHandler struct {
	sessions *session.Store
}

// NewAccountsHandler creates a new AccountsHandler instance.
func NewAccountsHandler(sessions *session.Store) *AccountsHandler {
	return &AccountsHandler{sessions: sessions}
}

type addAccountRequest struct {
	Email string `json:"email"`
}

type accountIDRequest struct {
	AccountID string `json:"accountId"`
}

// Add links a new account to the identity.
func (h *AccountsHandler) Add(w http.ResponseWriter, r *http.Request) {
	token, _, ok := GetSessionFromContext(r.Context(), w, h.sessions)
	if !ok {
		return
	}

	var req addAccountRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	user, err := h.sessions.AddAccount(r.Context(), token, req.Email)
	if err != nil {
		log.Printf("AccountsHandler: Failed to add account: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSONResponse(w, user)
}

// Switch makes a linked account the active one.
func (h *AccountsHandler) Switch(w http.ResponseWriter, r *http.Request) {
	token, _, ok := GetSessionFromContext(r.Context(), w, h.sessions)
	if !ok {
		return
	}

	var req accountIDRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}

	user, err := h.sessions.SwitchAccount(r.Context(), token, req.AccountID)
	if err != nil {
		if errors.Is(err, session.ErrAccountNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		}
		log.Printf("AccountsHandler: Failed to switch account: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSONResponse(w, user)
}

// Remove unlinks an account. Removing the last account ends the session,
// which is reported as 204 with no user payload.
func (h *AccountsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	token, _, ok := GetSessionFromContext(r.Context(), w, h.sessions)
	if !ok {
		return
	}

	var req accountIDRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}

	user, err := h.sessions.RemoveAccount(r.Context(), token, req.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrAccountNotFound):
			http.Error(w, "Account not found", http.StatusNotFound)
		case errors.Is(err, session.ErrNoAccountsLeft):
			w.WriteHeader(http.StatusNoContent)
		default:
			log.Printf("AccountsHandler: Failed to remove account: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	WriteJSONResponse(w, user)
}
