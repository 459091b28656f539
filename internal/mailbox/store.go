package mailbox

import (
	"strings"

	"github.com/sortflow/sortflow/internal/models"
)

// Store is an immutable snapshot of the ordered message collection. Every
// controller mutation produces a fresh Store; the derived views below are
// pure functions of the snapshot, recomputed on demand.
type Store struct {
	messages []models.Message
}

// NewStore creates a snapshot over a copy of the given messages.
func NewStore(messages []models.Message) Store {
	copied := make([]models.Message, len(messages))
	copy(copied, messages)
	return Store{messages: copied}
}

// Messages returns the messages in insertion order.
func (s Store) Messages() []models.Message {
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the snapshot.
func (s Store) Len() int {
	return len(s.messages)
}

// Get returns the message with the given id.
func (s Store) Get(id int64) (models.Message, bool) {
	for _, m := range s.messages {
		if m.ID == id {
			return m, true
		}
	}
	return models.Message{}, false
}

// FolderCounts returns the number of messages currently in each folder.
func (s Store) FolderCounts() map[models.Folder]int {
	counts := make(map[models.Folder]int, len(models.Folders))
	for _, m := range s.messages {
		counts[m.Folder]++
	}
	return counts
}

// MoodCounts returns the number of messages carrying each mood, independent
// of folder.
func (s Store) MoodCounts() map[models.Mood]int {
	counts := make(map[models.Mood]int, len(models.Moods))
	for _, m := range s.messages {
		counts[m.Mood]++
	}
	return counts
}

// StarredCount returns the number of starred messages, independent of folder.
func (s Store) StarredCount() int {
	count := 0
	for _, m := range s.messages {
		if m.Starred {
			count++
		}
	}
	return count
}

// Filter returns the ordered subsequence of messages matching both the
// selector and the search query. The query is a case-insensitive substring
// match against subject, sender, and body; an empty query matches everything.
// Relative order is preserved from the underlying collection.
func (s Store) Filter(sel models.Selector, query string) []models.Message {
	needle := strings.ToLower(query)

	var matched []models.Message
	for _, m := range s.messages {
		if !sel.Matches(m) {
			continue
		}
		if needle != "" && !matchesQuery(m, needle) {
			continue
		}
		matched = append(matched, m)
	}
	return matched
}

func matchesQuery(m models.Message, needle string) bool {
	return strings.Contains(strings.ToLower(m.Subject), needle) ||
		strings.Contains(strings.ToLower(m.From), needle) ||
		strings.Contains(strings.ToLower(m.Body), needle)
}
