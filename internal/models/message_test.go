package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMood(t *testing.T) {
	for _, m := range Moods {
		got, err := ParseMood(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMood("Furious")
	assert.Error(t, err)

	// Case sensitive, matching the stored values exactly.
	_, err = ParseMood("urgent")
	assert.Error(t, err)
}

func TestParseFolder(t *testing.T) {
	for _, f := range Folders {
		got, err := ParseFolder(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFolder("Archive")
	assert.Error(t, err)

	// Starred is a view, not a folder.
	_, err = ParseFolder("Starred")
	assert.Error(t, err)
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Selector
		wantErr bool
	}{
		{"folder", "Inbox", FolderSelector(FolderInbox), false},
		{"starred view", "Starred", StarredSelector(), false},
		{"mood view", "Mood:Urgent", MoodSelector(MoodUrgent), false},
		{"unknown folder", "Archive", Selector{}, true},
		{"unknown mood", "Mood:Furious", Selector{}, true},
		{"empty", "", Selector{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelector(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// String is the inverse of ParseSelector.
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestSelectorMatches(t *testing.T) {
	msg := Message{
		Folder:  FolderInbox,
		Mood:    MoodUrgent,
		Starred: true,
	}

	assert.True(t, FolderSelector(FolderInbox).Matches(msg))
	assert.False(t, FolderSelector(FolderSent).Matches(msg))

	assert.True(t, MoodSelector(MoodUrgent).Matches(msg))
	assert.False(t, MoodSelector(MoodLate).Matches(msg))

	assert.True(t, StarredSelector().Matches(msg))
	msg.Starred = false
	assert.False(t, StarredSelector().Matches(msg))

	// Mood and starred views ignore the message's folder entirely.
	msg.Folder = FolderTrash
	assert.True(t, MoodSelector(MoodUrgent).Matches(msg))
}
