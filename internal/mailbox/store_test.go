package mailbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sortflow/sortflow/internal/models"
)

func testMessages() []models.Message {
	base := time.Date(2023, 11, 15, 9, 0, 0, 0, time.UTC)
	return []models.Message{
		{ID: 1, Subject: "Project kickoff", From: "alice@company.com", Body: "Agenda attached", Mood: models.MoodUrgent, Folder: models.FolderInbox, Timestamp: base},
		{ID: 2, Subject: "Newsletter", From: "news@tech.com", Body: "Weekly digest", Mood: models.MoodNeutral, Folder: models.FolderInbox, Starred: true, Timestamp: base},
		{ID: 3, Subject: "Re: Project kickoff", From: "me@company.com", Body: "Sounds good", Mood: models.MoodNeutral, Folder: models.FolderSent, Timestamp: base},
		{ID: 4, Subject: "Invoice overdue", From: "billing@vendor.com", Body: "Pay up", Mood: models.MoodLate, Folder: models.FolderTrash, Timestamp: base},
	}
}

func TestStoreFolderCounts(t *testing.T) {
	store := NewStore(testMessages())

	counts := store.FolderCounts()
	assert.Equal(t, 2, counts[models.FolderInbox])
	assert.Equal(t, 1, counts[models.FolderSent])
	assert.Equal(t, 1, counts[models.FolderTrash])
	assert.Equal(t, 0, counts[models.FolderSpam])
}

func TestStoreMoodCounts(t *testing.T) {
	store := NewStore(testMessages())

	counts := store.MoodCounts()
	assert.Equal(t, 1, counts[models.MoodUrgent])
	assert.Equal(t, 2, counts[models.MoodNeutral])
	assert.Equal(t, 1, counts[models.MoodLate])
	assert.Equal(t, 0, counts[models.MoodEarly])
}

func TestStoreStarredCount(t *testing.T) {
	store := NewStore(testMessages())
	assert.Equal(t, 1, store.StarredCount())
}

func TestStoreFilter(t *testing.T) {
	store := NewStore(testMessages())

	tests := []struct {
		name     string
		selector models.Selector
		query    string
		wantIDs  []int64
	}{
		{
			name:     "folder selector with empty query matches all in folder",
			selector: models.FolderSelector(models.FolderInbox),
			wantIDs:  []int64{1, 2},
		},
		{
			name:     "starred selector ignores folders",
			selector: models.StarredSelector(),
			wantIDs:  []int64{2},
		},
		{
			name:     "mood selector ignores folders",
			selector: models.MoodSelector(models.MoodNeutral),
			wantIDs:  []int64{2, 3},
		},
		{
			name:     "query matches subject case-insensitively",
			selector: models.FolderSelector(models.FolderInbox),
			query:    "PROJECT",
			wantIDs:  []int64{1},
		},
		{
			name:     "query matches sender",
			selector: models.FolderSelector(models.FolderInbox),
			query:    "news@tech",
			wantIDs:  []int64{2},
		},
		{
			name:     "query matches body",
			selector: models.FolderSelector(models.FolderInbox),
			query:    "digest",
			wantIDs:  []int64{2},
		},
		{
			name:     "query with no matches returns empty",
			selector: models.FolderSelector(models.FolderInbox),
			query:    "nonexistent",
			wantIDs:  nil,
		},
		{
			name:     "trash folder",
			selector: models.FolderSelector(models.FolderTrash),
			wantIDs:  []int64{4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := store.Filter(tt.selector, tt.query)

			var ids []int64
			for _, m := range matched {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)

			// Every returned message must satisfy both predicates.
			for _, m := range matched {
				assert.True(t, tt.selector.Matches(m))
			}
		})
	}
}

func TestStoreFilterPreservesInsertionOrder(t *testing.T) {
	messages := testMessages()
	// Give the earliest position the latest timestamp to prove the filter
	// does not re-sort by time.
	messages[0].Timestamp = messages[0].Timestamp.Add(48 * time.Hour)
	store := NewStore(messages)

	matched := store.Filter(models.FolderSelector(models.FolderInbox), "")
	assert.Equal(t, int64(1), matched[0].ID)
	assert.Equal(t, int64(2), matched[1].ID)
}

func TestStoreSnapshotIsolation(t *testing.T) {
	messages := testMessages()
	store := NewStore(messages)

	// Mutating the input slice after construction must not affect the store.
	messages[0].Subject = "changed"

	got, ok := store.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "Project kickoff", got.Subject)
}

func TestStoreGet(t *testing.T) {
	store := NewStore(testMessages())

	_, ok := store.Get(99)
	assert.False(t, ok)

	msg, ok := store.Get(3)
	assert.True(t, ok)
	assert.Equal(t, models.FolderSent, msg.Folder)
}
