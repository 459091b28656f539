package mailbox

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sortflow/sortflow/internal/crypto"
	"github.com/sortflow/sortflow/internal/models"
)

// ErrNotFound is returned when an operation targets a message id that is not
// in the store.
var ErrNotFound = errors.New("message not found")

// ErrValidation is returned when send or reply input fails validation.
var ErrValidation = errors.New("invalid message")

// EventType identifies a controller notification.
type EventType string

const (
	// EventMessageTrashed fires when a message is moved to Trash by a delete.
	EventMessageTrashed EventType = "message_trashed"
	// EventSweepCompleted fires when a deadline sweep moved at least one message.
	EventSweepCompleted EventType = "sweep_completed"
	// EventMessageSent fires when a composed message or reply lands in Sent.
	EventMessageSent EventType = "message_sent"
)

// Event is what the controller reports to the presentation layer. No
// transport is mandated; the server bridges these onto WebSocket clients.
type Event struct {
	Type         EventType `json:"type"`
	MessageID    int64     `json:"message_id,omitempty"`
	Moved        int       `json:"moved,omitempty"`
	DetailClosed bool      `json:"detail_closed,omitempty"`
	To           string    `json:"to,omitempty"`
}

// Notifier receives controller events.
type Notifier interface {
	Notify(Event)
}

type noopNotifier struct{}

func (noopNotifier) Notify(Event) {}

// Controller is the only component permitted to mutate the message
// collection. Every mutation is a read-modify-write under one mutex and
// produces a new snapshot, so a Store handed out earlier never changes
// underneath its holder.
type Controller struct {
	mu         sync.Mutex
	messages   []models.Message
	nextID     int64
	selectedID int64

	now      func() time.Time
	codec    *crypto.MessageCodec
	notifier Notifier
}

// NewController creates a controller seeded with the given messages. The
// clock is injectable for deterministic tests; pass nil for time.Now. The id
// counter starts above the highest seeded id and only ever increments, so ids
// are never reused after a trash-and-recreate sequence.
func NewController(seed []models.Message, now func() time.Time, codec *crypto.MessageCodec, notifier Notifier) *Controller {
	if now == nil {
		now = time.Now
	}
	if codec == nil {
		codec = crypto.NewMessageCodec()
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}

	messages := make([]models.Message, len(seed))
	copy(messages, seed)

	var maxID int64
	for _, m := range messages {
		if m.ID > maxID {
			maxID = m.ID
		}
	}

	return &Controller{
		messages: messages,
		nextID:   maxID + 1,
		now:      now,
		codec:    codec,
		notifier: notifier,
	}
}

// Snapshot returns the current store snapshot.
func (c *Controller) Snapshot() Store {
	c.mu.Lock()
	defer c.mu.Unlock()
	return NewStore(c.messages)
}

// SelectedID returns the id of the currently open message, or 0 if none.
func (c *Controller) SelectedID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedID
}

// Star toggles the starred flag on the message with the given id.
func (c *Controller) Star(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.update(id, func(m models.Message) models.Message {
		m.Starred = !m.Starred
		return m
	}) {
		return fmt.Errorf("star %d: %w", id, ErrNotFound)
	}
	return nil
}

// MoveToTrash moves the message to Trash regardless of its current folder.
// Trashing an already-trashed message is a state-wise no-op. If the trashed
// message was the currently selected one, the selection is cleared and the
// emitted event tells the presentation layer to close the detail view.
func (c *Controller) MoveToTrash(id int64) error {
	c.mu.Lock()

	if !c.update(id, func(m models.Message) models.Message {
		m.Folder = models.FolderTrash
		return m
	}) {
		c.mu.Unlock()
		return fmt.Errorf("trash %d: %w", id, ErrNotFound)
	}

	closedDetail := c.selectedID == id
	if closedDetail {
		c.selectedID = 0
	}
	c.mu.Unlock()

	c.notifier.Notify(Event{
		Type:         EventMessageTrashed,
		MessageID:    id,
		DetailClosed: closedDetail,
	})
	return nil
}

// Move reassigns the message to the given concrete folder.
func (c *Controller) Move(id int64, folder models.Folder) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.update(id, func(m models.Message) models.Message {
		m.Folder = folder
		return m
	}) {
		return fmt.Errorf("move %d: %w", id, ErrNotFound)
	}
	return nil
}

// MarkRead sets the read flag on the message. Idempotent.
func (c *Controller) MarkRead(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.update(id, func(m models.Message) models.Message {
		m.Read = true
		return m
	}) {
		return fmt.Errorf("mark read %d: %w", id, ErrNotFound)
	}
	return nil
}

// Select opens the message: it becomes the selected message and is marked
// read. The returned copy carries the decoded body when the message is
// encrypted; the stored body stays encoded.
func (c *Controller) Select(id int64) (models.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.update(id, func(m models.Message) models.Message {
		m.Read = true
		return m
	}) {
		return models.Message{}, fmt.Errorf("select %d: %w", id, ErrNotFound)
	}
	c.selectedID = id

	for _, m := range c.messages {
		if m.ID == id {
			if m.Encrypted {
				m.Body = c.codec.Decode(m.Body)
			}
			return m, nil
		}
	}
	// update above guarantees the id exists.
	return models.Message{}, fmt.Errorf("select %d: %w", id, ErrNotFound)
}

// ClearSelection closes the detail view.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedID = 0
}

// SweepDeadlines moves every message whose deadline is strictly in the past
// to Trash. Messages already in Trash or Sent are never swept; those two
// folders are absorbing. It returns how many messages moved and
// notifies when that count is non-zero. Pure function of the collection and
// the given instant, so tests can inject any clock value.
func (c *Controller) SweepDeadlines(now time.Time) int {
	c.mu.Lock()

	moved := 0
	updated := make([]models.Message, len(c.messages))
	copy(updated, c.messages)
	for i, m := range updated {
		if m.Deadline == nil || !m.Deadline.Before(now) {
			continue
		}
		if m.Folder == models.FolderTrash || m.Folder == models.FolderSent {
			continue
		}
		updated[i].Folder = models.FolderTrash
		moved++
	}
	if moved > 0 {
		c.messages = updated
	}
	c.mu.Unlock()

	if moved > 0 {
		c.notifier.Notify(Event{Type: EventSweepCompleted, Moved: moved})
	}
	return moved
}

// SendRequest is the validated input to Send.
type SendRequest struct {
	From        string
	To          string
	Subject     string
	Body        string
	Attachments []models.Attachment
	Deadline    *time.Time
	Signature   bool
}

// Send composes an outgoing message and appends it to the collection. The
// body is always stored encoded and the message always marked encrypted;
// there is no per-message opt-out. Outbound messages are Neutral, land in
// Sent, and are born read.
func (c *Controller) Send(req SendRequest) (models.Message, error) {
	if err := validateSend(req.To, req.Subject, req.Body); err != nil {
		return models.Message{}, err
	}

	c.mu.Lock()
	msg := models.Message{
		ID:          c.nextID,
		Subject:     req.Subject,
		From:        req.From,
		To:          req.To,
		Body:        c.codec.Encode(req.Body),
		Mood:        models.MoodNeutral,
		Timestamp:   c.now(),
		Folder:      models.FolderSent,
		Read:        true,
		Attachments: req.Attachments,
		Deadline:    req.Deadline,
		Encrypted:   true,
		Signature:   req.Signature,
	}
	c.nextID++
	c.messages = append(c.snapshotLocked(), msg)
	c.mu.Unlock()

	c.notifier.Notify(Event{Type: EventMessageSent, MessageID: msg.ID, To: msg.To})
	return msg, nil
}

// Reply composes a reply to the message with the given id: the subject gains
// a "Re: " prefix and the recipient is the original sender. The reply body is
// stored encoded like any other outgoing message. Replying to the open
// message also closes the detail view, like a regular send.
func (c *Controller) Reply(sourceID int64, from, body string, attachments []models.Attachment) (models.Message, error) {
	if body == "" {
		return models.Message{}, fmt.Errorf("reply: empty body: %w", ErrValidation)
	}

	c.mu.Lock()
	source, ok := c.findLocked(sourceID)
	if !ok {
		c.mu.Unlock()
		return models.Message{}, fmt.Errorf("reply to %d: %w", sourceID, ErrNotFound)
	}

	msg := models.Message{
		ID:          c.nextID,
		Subject:     "Re: " + source.Subject,
		From:        from,
		To:          source.From,
		Body:        c.codec.Encode(body),
		Mood:        models.MoodNeutral,
		Timestamp:   c.now(),
		Folder:      models.FolderSent,
		Read:        true,
		Attachments: attachments,
		Encrypted:   true,
	}
	c.nextID++
	c.messages = append(c.snapshotLocked(), msg)
	if c.selectedID == sourceID {
		c.selectedID = 0
	}
	c.mu.Unlock()

	c.notifier.Notify(Event{Type: EventMessageSent, MessageID: msg.ID, To: msg.To})
	return msg, nil
}

// Deliver appends an inbound message, assigning it the next id. Folder
// defaults to Inbox and the timestamp to the current instant; inbound
// messages arrive unread and keep whatever mood they were classified with
// at creation.
func (c *Controller) Deliver(msg models.Message) models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg.ID = c.nextID
	c.nextID++
	if msg.Folder == "" {
		msg.Folder = models.FolderInbox
	}
	if msg.Mood == "" {
		msg.Mood = models.MoodNeutral
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = c.now()
	}
	msg.Read = false
	c.messages = append(c.snapshotLocked(), msg)
	return msg
}

func validateSend(to, subject, body string) error {
	switch {
	case to == "":
		return fmt.Errorf("send: empty recipient: %w", ErrValidation)
	case subject == "":
		return fmt.Errorf("send: empty subject: %w", ErrValidation)
	case body == "":
		return fmt.Errorf("send: empty body: %w", ErrValidation)
	}
	return nil
}

// update applies fn to the message with the given id on a fresh copy of the
// collection. Returns false if the id is not present. Caller must hold mu.
func (c *Controller) update(id int64, fn func(models.Message) models.Message) bool {
	for i, m := range c.messages {
		if m.ID == id {
			updated := c.snapshotLocked()
			updated[i] = fn(m)
			c.messages = updated
			return true
		}
	}
	return false
}

func (c *Controller) findLocked(id int64) (models.Message, bool) {
	for _, m := range c.messages {
		if m.ID == id {
			return m, true
		}
	}
	return models.Message{}, false
}

func (c *Controller) snapshotLocked() []models.Message {
	copied := make([]models.Message, len(c.messages))
	copy(copied, c.messages)
	return copied
}
