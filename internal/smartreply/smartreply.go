// Package smartreply generates a suggested reply for a message based on its
// mood. The templates stand in for a hosted language-model call; swapping in
// a real service only needs to preserve the Generate signature.
package smartreply

import (
	"fmt"

	"github.com/sortflow/sortflow/internal/models"
)

const urgentTemplate = `I've received your urgent message regarding "%s". I understand the time-sensitive nature of this matter and will prioritize it immediately.

Let's schedule a call today to discuss this further. I'm available between 2-4pm, or please suggest a time that works for you.

Best regards,`

const earlyTemplate = `Thank you for your message about "%s". I appreciate you sharing this information early, which gives us ample time to prepare.

I've reviewed the details you've provided and will incorporate them into our planning. Would you like to discuss this further in our next team meeting?

Kind regards,`

const lateTemplate = `Thank you for your message regarding "%s". I understand there may be some urgency given the timing.

I'll review the details you've shared and respond with a comprehensive plan of action shortly. I appreciate your patience.

Best regards,`

const neutralTemplate = `Thank you for your message about "%s". I've reviewed the information you've shared and appreciate you keeping me in the loop.

I'll take the appropriate action based on your message and will follow up if I have any questions or updates to share.

Kind regards,`

// Generate returns a suggested reply body for the message. Unknown moods
// fall back to the neutral template.
func Generate(m models.Message) string {
	switch m.Mood {
	case models.MoodUrgent:
		return fmt.Sprintf(urgentTemplate, m.Subject)
	case models.MoodEarly:
		return fmt.Sprintf(earlyTemplate, m.Subject)
	case models.MoodLate:
		return fmt.Sprintf(lateTemplate, m.Subject)
	default:
		return fmt.Sprintf(neutralTemplate, m.Subject)
	}
}
