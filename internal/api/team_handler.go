package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/sortflow/sortflow/internal/session"
)

// TeamHandler handles team collaboration: listing, inviting, and removing
// members. Invitations go through the same simulated transport delay as
// sends; no invitation email actually leaves the process.
type TeamHandler struct {
	sessions      *session.Store
	inviteLatency time.Duration
}

// NewTeamHandler creates a new TeamHandler instance.
func NewTeamHandler(sessions *session.Store, inviteLatency time.Duration) *TeamHandler {
	return &TeamHandler{sessions: sessions, inviteLatency: inviteLatency}
}

type inviteRequest struct {
	Email string `json:"email"`
}

type removeMemberRequest struct {
	MemberID string `json:"memberId"`
}

// List returns the team members for the signed-in identity.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	token, _, ok := GetSessionFromContext(r.Context(), w, h.sessions)
	if !ok {
		return
	}

	members, err := h.sessions.Members(r.Context(), token)
	if err != nil {
		log.Printf("TeamHandler: Failed to list members: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSONResponse(w, members)
}

// Invite adds a team member, enforcing the free-plan member cap.
func (h *TeamHandler) Invite(w http.ResponseWriter, r *http.Request) {
	token, _, ok := GetSessionFromContext(r.Context(), w, h.sessions)
	if !ok {
		return
	}

	var req inviteRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	if h.inviteLatency > 0 {
		time.Sleep(h.inviteLatency)
	}

	member, err := h.sessions.InviteMember(r.Context(), token, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrDuplicateMember):
			http.Error(w, "This user is already a team member", http.StatusConflict)
		case errors.Is(err, session.ErrTeamLimit):
			http.Error(w, "Free plan is limited to 2 team members. Upgrade to Pro for unlimited team members.", http.StatusForbidden)
		default:
			log.Printf("TeamHandler: Failed to invite member: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	WriteJSONResponse(w, member)
}

// Remove deletes a team member by id.
func (h *TeamHandler) Remove(w http.ResponseWriter, r *http.Request) {
	token, _, ok := GetSessionFromContext(r.Context(), w, h.sessions)
	if !ok {
		return
	}

	var req removeMemberRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}

	if err := h.sessions.RemoveMember(r.Context(), token, req.MemberID); err != nil {
		if errors.Is(err, session.ErrAccountNotFound) {
			http.Error(w, "Team member not found", http.StatusNotFound)
			return
		}
		log.Printf("TeamHandler: Failed to remove member: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
