package api

import (
	"log"
	"net/http"

	"github.com/sortflow/sortflow/internal/mailbox"
	"github.com/sortflow/sortflow/internal/models"
	"github.com/sortflow/sortflow/internal/session"
)

// ImportHandler provides the test-only message ingest endpoint. It is only
// registered in test environments and lets E2E tests drop raw RFC 822 mail
// into the store to simulate incoming messages.
type ImportHandler struct {
	sessions *session.Store
	ctrl     *mailbox.Controller
}

// NewImportHandler creates a new ImportHandler instance.
func NewImportHandler(sessions *session.Store, ctrl *mailbox.Controller) *ImportHandler {
	return &ImportHandler{sessions: sessions, ctrl: ctrl}
}

// ImportMessage parses the request body as a raw RFC 822 message and
// delivers it into the mailbox. Optional query parameters override the
// destination folder and the mood classification (both default per Deliver).
func (h *ImportHandler) ImportMessage(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := GetSessionFromContext(r.Context(), w, h.sessions); !ok {
		return
	}

	msg, err := mailbox.ParseRFC822(r.Body)
	if err != nil {
		log.Printf("ImportHandler: Failed to parse message: %v", err)
		http.Error(w, "Invalid RFC 822 message", http.StatusBadRequest)
		return
	}

	if folderParam := r.URL.Query().Get("folder"); folderParam != "" {
		folder, err := models.ParseFolder(folderParam)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		msg.Folder = folder
	}
	if moodParam := r.URL.Query().Get("mood"); moodParam != "" {
		mood, err := models.ParseMood(moodParam)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		msg.Mood = mood
	}

	delivered := h.ctrl.Deliver(msg)
	WriteJSONResponse(w, delivered)
}
