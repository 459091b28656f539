package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/sortflow/sortflow/internal/mailbox"
	"github.com/sortflow/sortflow/internal/models"
	"github.com/sortflow/sortflow/internal/session"
)

// MailboxHandler exposes the mailbox store's derived views and the
// controller's message mutations.
type MailboxHandler struct {
	sessions *session.Store
	ctrl     *mailbox.Controller
}

// NewMailboxHandler creates a new MailboxHandler instance.
func NewMailboxHandler(sessions *session.Store, ctrl *mailbox.Controller) *MailboxHandler {
	return &MailboxHandler{sessions: sessions, ctrl: ctrl}
}

// GetCounts returns the folder, mood, and starred counts for the sidebar.
func (h *MailboxHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := GetSessionFromContext(r.Context(), w, h.sessions); !ok {
		return
	}

	store := h.ctrl.Snapshot()
	WriteJSONResponse(w, models.CountsResponse{
		Folders: store.FolderCounts(),
		Moods:   store.MoodCounts(),
		Starred: store.StarredCount(),
	})
}

// GetMessages returns the filtered message list for a selector and search
// query. The selector is a folder name, "Starred", or "Mood:<name>"; it
// defaults to Inbox. An empty query matches everything.
func (h *MailboxHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := GetSessionFromContext(r.Context(), w, h.sessions); !ok {
		return
	}

	selectorParam := r.URL.Query().Get("selector")
	if selectorParam == "" {
		selectorParam = string(models.FolderInbox)
	}
	selector, err := models.ParseSelector(selectorParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	query := r.URL.Query().Get("q")
	messages := h.ctrl.Snapshot().Filter(selector, query)

	WriteJSONResponse(w, models.MessagesResponse{Messages: messages, Total: len(messages)})
}

// GetMessage opens a message: it becomes the selected message, is marked
// read, and the returned body is decoded if the message is encrypted.
func (h *MailboxHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := GetSessionFromContext(r.Context(), w, h.sessions); !ok {
		return
	}

	id, ok := h.messageID(w, r)
	if !ok {
		return
	}

	msg, err := h.ctrl.Select(id)
	if err != nil {
		h.writeControllerError(w, err)
		return
	}

	WriteJSONResponse(w, msg)
}

// Star toggles the starred flag on a message.
func (h *MailboxHandler) Star(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.ctrl.Star)
}

// Trash moves a message to the Trash folder. Deleting the currently open
// message clears the selection, which reaches clients as a detail-close
// notification.
func (h *MailboxHandler) Trash(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.ctrl.MoveToTrash)
}

// MarkRead sets the read flag on a message.
func (h *MailboxHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.ctrl.MarkRead)
}

type moveRequest struct {
	Folder string `json:"folder"`
}

// Move reassigns a message to a concrete folder. The synthetic Starred and
// Mood selectors are not folders and are rejected.
func (h *MailboxHandler) Move(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := GetSessionFromContext(r.Context(), w, h.sessions); !ok {
		return
	}

	id, ok := h.messageID(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}
	folder, err := models.ParseFolder(req.Folder)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.ctrl.Move(id, folder); err != nil {
		h.writeControllerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mutate runs a single-id controller operation with shared auth, parsing,
// and error handling.
func (h *MailboxHandler) mutate(w http.ResponseWriter, r *http.Request, op func(int64) error) {
	if _, _, ok := GetSessionFromContext(r.Context(), w, h.sessions); !ok {
		return
	}

	id, ok := h.messageID(w, r)
	if !ok {
		return
	}

	if err := op(id); err != nil {
		h.writeControllerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MailboxHandler) messageID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid message id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *MailboxHandler) writeControllerError(w http.ResponseWriter, err error) {
	if errors.Is(err, mailbox.ErrNotFound) {
		http.Error(w, "Message not found", http.StatusNotFound)
		return
	}
	log.Printf("MailboxHandler: Controller operation failed: %v", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
