package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/sortflow/sortflow/internal/mailbox"
	"github.com/sortflow/sortflow/internal/models"
	"github.com/sortflow/sortflow/internal/session"
	"github.com/sortflow/sortflow/internal/smartreply"
)

// MaxFreeAttachmentBytes is the total attachment size cap for free-plan
// senders. Pro accounts have no cap.
const MaxFreeAttachmentBytes = 25 * 1024 * 1024

// ComposeHandler handles sending, replying, and smart-reply suggestions.
// Sends go through a configurable artificial latency standing in for a real
// mail transport. Once started a send always completes and applies its
// effect; there is no abort path.
type ComposeHandler struct {
	sessions    *session.Store
	ctrl        *mailbox.Controller
	sendLatency time.Duration
}

// NewComposeHandler creates a new ComposeHandler instance.
func NewComposeHandler(sessions *session.Store, ctrl *mailbox.Controller, sendLatency time.Duration) *ComposeHandler {
	return &ComposeHandler{sessions: sessions, ctrl: ctrl, sendLatency: sendLatency}
}

type sendRequest struct {
	To          string              `json:"to"`
	Subject     string              `json:"subject"`
	Body        string              `json:"body"`
	Attachments []models.Attachment `json:"attachments,omitempty"`
	Deadline    *time.Time          `json:"deadline,omitempty"`
	Signature   bool                `json:"signature,omitempty"`
}

type replyRequest struct {
	Body        string              `json:"body"`
	Attachments []models.Attachment `json:"attachments,omitempty"`
}

// Send composes an outgoing message from the signed-in account.
func (h *ComposeHandler) Send(w http.ResponseWriter, r *http.Request) {
	_, user, ok := GetSessionFromContext(r.Context(), w, h.sessions)
	if !ok {
		return
	}

	var req sendRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}

	if !user.IsProUser && mailbox.TotalAttachmentSize(req.Attachments) > MaxFreeAttachmentBytes {
		http.Error(w, "Free accounts are limited to 25MB attachments. Upgrade to Pro for larger files.", http.StatusRequestEntityTooLarge)
		return
	}

	h.simulateTransport()

	msg, err := h.ctrl.Send(mailbox.SendRequest{
		From:        user.Email,
		To:          req.To,
		Subject:     req.Subject,
		Body:        req.Body,
		Attachments: req.Attachments,
		Deadline:    req.Deadline,
		Signature:   req.Signature,
	})
	if err != nil {
		h.writeComposeError(w, err)
		return
	}

	WriteJSONResponse(w, msg)
}

// Reply composes a reply to the message in the path.
func (h *ComposeHandler) Reply(w http.ResponseWriter, r *http.Request) {
	_, user, ok := GetSessionFromContext(r.Context(), w, h.sessions)
	if !ok {
		return
	}

	id, ok := h.messageID(w, r)
	if !ok {
		return
	}

	var req replyRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}

	if !user.IsProUser && mailbox.TotalAttachmentSize(req.Attachments) > MaxFreeAttachmentBytes {
		http.Error(w, "Free accounts are limited to 25MB attachments. Upgrade to Pro for larger files.", http.StatusRequestEntityTooLarge)
		return
	}

	h.simulateTransport()

	msg, err := h.ctrl.Reply(id, user.Email, req.Body, req.Attachments)
	if err != nil {
		h.writeComposeError(w, err)
		return
	}

	WriteJSONResponse(w, msg)
}

type smartReplyResponse struct {
	Suggestion string `json:"suggestion"`
}

// SmartReply returns a suggested reply body for the message in the path.
// Pro-only: free accounts get a 403 with upsell text, matching the client's
// upgrade prompt.
func (h *ComposeHandler) SmartReply(w http.ResponseWriter, r *http.Request) {
	_, user, ok := GetSessionFromContext(r.Context(), w, h.sessions)
	if !ok {
		return
	}

	if !user.IsProUser {
		http.Error(w, "AI Compose not available in Free plan. Upgrade to Pro to use this feature.", http.StatusForbidden)
		return
	}

	id, ok := h.messageID(w, r)
	if !ok {
		return
	}

	source, found := h.ctrl.Snapshot().Get(id)
	if !found {
		http.Error(w, "Message not found", http.StatusNotFound)
		return
	}

	WriteJSONResponse(w, smartReplyResponse{Suggestion: smartreply.Generate(source)})
}

// simulateTransport stands in for the network round trip of a real mail
// backend. Zero latency in tests.
func (h *ComposeHandler) simulateTransport() {
	if h.sendLatency > 0 {
		time.Sleep(h.sendLatency)
	}
}

func (h *ComposeHandler) messageID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid message id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *ComposeHandler) writeComposeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mailbox.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, mailbox.ErrNotFound):
		http.Error(w, "Message not found", http.StatusNotFound)
	default:
		log.Printf("ComposeHandler: Failed to send: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
