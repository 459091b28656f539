package mailbox

import (
	"fmt"
	"io"

	"github.com/jhillyerd/enmime"

	"github.com/sortflow/sortflow/internal/models"
)

// ParseRFC822 reads a raw RFC 822 message and converts it into a Message
// record ready for Deliver: subject, sender, recipient, and plain-text body
// from the envelope, plus an Attachment tuple per MIME attachment part. The
// caller decides folder and mood; the parser only fills what the wire form
// carries.
func ParseRFC822(r io.Reader) (models.Message, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return models.Message{}, fmt.Errorf("failed to parse message: %w", err)
	}

	msg := models.Message{
		Subject: env.GetHeader("Subject"),
		From:    env.GetHeader("From"),
		To:      env.GetHeader("To"),
		Body:    env.Text,
	}

	for _, part := range env.Attachments {
		msg.Attachments = append(msg.Attachments, NewAttachment(
			part.FileName,
			int64(len(part.Content)),
			part.ContentType,
			"#",
		))
	}

	return msg, nil
}
