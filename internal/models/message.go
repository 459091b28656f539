package models

import (
	"fmt"
	"strings"
	"time"
)

// Mood is the urgency classification assigned to an inbound message.
type Mood string

const (
	MoodUrgent  Mood = "Urgent"
	MoodEarly   Mood = "Early"
	MoodLate    Mood = "Late"
	MoodNeutral Mood = "Neutral"
)

// Moods lists all moods in display order.
var Moods = []Mood{MoodUrgent, MoodEarly, MoodLate, MoodNeutral}

// ParseMood parses a mood name. Unknown names are rejected rather than
// silently mapped to Neutral so that API callers get a clear error.
func ParseMood(s string) (Mood, error) {
	for _, m := range Moods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}

// Folder is the single location a message occupies. "Starred" is a view
// filter, not a folder, and is therefore not listed here.
type Folder string

const (
	FolderInbox  Folder = "Inbox"
	FolderSent   Folder = "Sent"
	FolderDrafts Folder = "Drafts"
	FolderTrash  Folder = "Trash"
	FolderSpam   Folder = "Spam"
	FolderSocial Folder = "Social"
	FolderWork   Folder = "Work"
)

// Folders lists all storable folders in display order.
var Folders = []Folder{
	FolderInbox, FolderSent, FolderDrafts, FolderTrash,
	FolderSpam, FolderSocial, FolderWork,
}

// ParseFolder parses a concrete folder name.
func ParseFolder(s string) (Folder, error) {
	for _, f := range Folders {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown folder %q", s)
}

// Attachment is a file attached to a message, or held in a compose draft
// before the message exists.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	URL      string `json:"url"`
}

// Message is the central mailbox entity. A message belongs to exactly one
// folder at a time; the starred flag is orthogonal to the folder.
type Message struct {
	ID          int64        `json:"id"`
	Subject     string       `json:"subject"`
	From        string       `json:"from"`
	To          string       `json:"to,omitempty"`
	Body        string       `json:"body"`
	Mood        Mood         `json:"mood"`
	Timestamp   time.Time    `json:"timestamp"`
	Starred     bool         `json:"is_starred"`
	Read        bool         `json:"is_read"`
	Folder      Folder       `json:"folder"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	Encrypted   bool         `json:"encrypted"`
	Signature   bool         `json:"signature,omitempty"`
}

// Selector identifies which messages a list view shows: a concrete folder,
// the synthetic "Starred" view, or a synthetic "Mood:<name>" view.
type Selector struct {
	Folder  Folder
	Starred bool
	Mood    Mood
	byMood  bool
}

// ParseSelector parses a selector string: a folder name, "Starred", or
// "Mood:<name>".
func ParseSelector(s string) (Selector, error) {
	if s == "Starred" {
		return Selector{Starred: true}, nil
	}
	if rest, ok := strings.CutPrefix(s, "Mood:"); ok {
		mood, err := ParseMood(rest)
		if err != nil {
			return Selector{}, err
		}
		return Selector{Mood: mood, byMood: true}, nil
	}
	folder, err := ParseFolder(s)
	if err != nil {
		return Selector{}, err
	}
	return Selector{Folder: folder}, nil
}

// FolderSelector returns the selector for a concrete folder.
func FolderSelector(f Folder) Selector {
	return Selector{Folder: f}
}

// MoodSelector returns the synthetic selector matching all messages with the
// given mood, regardless of folder.
func MoodSelector(m Mood) Selector {
	return Selector{Mood: m, byMood: true}
}

// StarredSelector returns the synthetic selector matching all starred
// messages, regardless of folder.
func StarredSelector() Selector {
	return Selector{Starred: true}
}

// Matches reports whether the message satisfies the selector's folder, mood,
// or starred predicate.
func (sel Selector) Matches(m Message) bool {
	switch {
	case sel.Starred:
		return m.Starred
	case sel.byMood:
		return m.Mood == sel.Mood
	default:
		return m.Folder == sel.Folder
	}
}

// String returns the wire form of the selector, the inverse of ParseSelector.
func (sel Selector) String() string {
	switch {
	case sel.Starred:
		return "Starred"
	case sel.byMood:
		return "Mood:" + string(sel.Mood)
	default:
		return string(sel.Folder)
	}
}
