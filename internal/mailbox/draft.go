package mailbox

import (
	"github.com/google/uuid"

	"github.com/sortflow/sortflow/internal/models"
)

// Draft attachment lists are transient: they belong to no message until the
// compose or reply they back is actually sent. Both helpers return a new
// list and leave the input untouched.

// Attach appends the new attachments to the draft list.
func Attach(draft []models.Attachment, added ...models.Attachment) []models.Attachment {
	out := make([]models.Attachment, 0, len(draft)+len(added))
	out = append(out, draft...)
	out = append(out, added...)
	return out
}

// Detach removes the attachment with the given id from the draft list.
// Removing an unknown id returns the list unchanged.
func Detach(draft []models.Attachment, id string) []models.Attachment {
	out := make([]models.Attachment, 0, len(draft))
	for _, a := range draft {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

// NewAttachment builds an attachment record for an ingested file, assigning
// it a fresh unique id.
func NewAttachment(name string, size int64, mimeType, url string) models.Attachment {
	return models.Attachment{
		ID:       uuid.NewString(),
		Name:     name,
		Size:     size,
		MimeType: mimeType,
		URL:      url,
	}
}

// TotalAttachmentSize sums the byte sizes of the attachments. The free plan
// caps this at send time; the controller itself does not enforce the cap.
func TotalAttachmentSize(attachments []models.Attachment) int64 {
	var total int64
	for _, a := range attachments {
		total += a.Size
	}
	return total
}
