package mailbox

import (
	"time"

	"github.com/sortflow/sortflow/internal/models"
)

// SeedMessages returns the demo mailbox contents. There is no persistence
// layer behind the store, so every process start begins from these fixtures.
func SeedMessages() []models.Message {
	return []models.Message{
		{
			ID:        1,
			Subject:   "Project Update Meeting",
			From:      "manager@company.com",
			Body:      "Let's discuss the progress on the current project and set priorities for next week.",
			Mood:      models.MoodUrgent,
			Timestamp: at("2023-11-15T09:30:00Z"),
			Folder:    models.FolderInbox,
			Attachments: []models.Attachment{
				{ID: "att-1", Name: "project-timeline.pdf", Size: 245000, MimeType: "application/pdf", URL: "#"},
			},
			Deadline:  deadline("2023-12-20T23:59:59Z"),
			Encrypted: true,
		},
		{
			ID:        2,
			Subject:   "Weekly Newsletter",
			From:      "newsletter@tech.com",
			Body:      "Check out the latest tech trends and updates from around the industry.",
			Mood:      models.MoodNeutral,
			Timestamp: at("2023-11-15T08:15:00Z"),
			Starred:   true,
			Folder:    models.FolderInbox,
			Read:      true,
		},
		{
			ID:        3,
			Subject:   "Early Bird Special Offer",
			From:      "marketing@store.com",
			Body:      "Don't miss out on our limited-time early bird special with 30% off all items!",
			Mood:      models.MoodEarly,
			Timestamp: at("2023-11-15T07:45:00Z"),
			Folder:    models.FolderSocial,
			Read:      true,
			Encrypted: true,
		},
		{
			ID:        4,
			Subject:   "Overdue Invoice Reminder",
			From:      "accounting@services.com",
			Body:      "This is a reminder that your invoice #12345 is now overdue. Please make payment as soon as possible.",
			Mood:      models.MoodLate,
			Timestamp: at("2023-11-14T16:20:00Z"),
			Folder:    models.FolderWork,
			Deadline:  deadline("2023-11-30T23:59:59Z"),
			Encrypted: true,
		},
		{
			ID:        5,
			Subject:   "Team Building Event",
			From:      "hr@company.com",
			Body:      "Join us for a fun team building event next Friday at 3pm in the main conference room.",
			Mood:      models.MoodNeutral,
			Timestamp: at("2023-11-14T14:10:00Z"),
			Folder:    models.FolderWork,
			Read:      true,
		},
		{
			ID:        6,
			Subject:   "System Maintenance Notice",
			From:      "it@company.com",
			Body:      "The system will be down for maintenance this Saturday from 10pm to 2am. Please save your work accordingly.",
			Mood:      models.MoodEarly,
			Timestamp: at("2023-11-14T11:05:00Z"),
			Folder:    models.FolderInbox,
			Read:      true,
			Encrypted: true,
		},
		{
			ID:        7,
			Subject:   "Your Order Has Shipped",
			From:      "orders@ecommerce.com",
			Body:      "Your recent order #67890 has been shipped and is on its way to you. Expected delivery in 3-5 business days.",
			Mood:      models.MoodNeutral,
			Timestamp: at("2023-11-13T15:30:00Z"),
			Folder:    models.FolderInbox,
			Read:      true,
		},
		{
			ID:        8,
			Subject:   "Feedback Request",
			From:      "support@service.com",
			Body:      "We value your opinion! Please take a moment to complete our customer satisfaction survey.",
			Mood:      models.MoodNeutral,
			Timestamp: at("2023-11-13T10:45:00Z"),
			Folder:    models.FolderSpam,
			Read:      true,
			Encrypted: true,
		},
		{
			ID:        9,
			Subject:   "Draft Email",
			From:      "me@myemail.com",
			To:        "colleague@company.com",
			Body:      "Here are my thoughts on the project proposal. Let me know what you think.",
			Mood:      models.MoodNeutral,
			Timestamp: at("2023-11-12T14:20:00Z"),
			Folder:    models.FolderDrafts,
			Read:      true,
			Encrypted: true,
		},
		{
			ID:        10,
			Subject:   "Meeting Invitation",
			From:      "calendar@company.com",
			Body:      "You have been invited to a meeting on Monday at 10am. Topic: Quarterly Review.",
			Mood:      models.MoodEarly,
			Timestamp: at("2023-11-12T09:15:00Z"),
			Starred:   true,
			Folder:    models.FolderInbox,
			Read:      true,
			Deadline:  deadline("2023-11-25T10:00:00Z"),
		},
	}
}

func at(value string) time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return ts
}

func deadline(value string) *time.Time {
	ts := at(value)
	return &ts
}
