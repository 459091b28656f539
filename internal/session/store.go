package session

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sortflow/sortflow/internal/crypto"
)

// The identity service is the durable half of the application: mailbox state
// lives in memory and resets on restart, but the signed-in identity and its
// linked accounts survive in a local SQLite file.

var (
	// ErrInvalidCredentials is returned when sign-in fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when signing up with an email that already has an identity.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNoSession is returned when a token does not map to a signed-in identity.
	ErrNoSession = errors.New("no active session")
	// ErrAccountNotFound is returned when an account id is not linked to the identity.
	ErrAccountNotFound = errors.New("account not found")
	// ErrNoAccountsLeft is returned when removing the last linked account; the
	// identity is signed out as a side effect.
	ErrNoAccountsLeft = errors.New("no accounts left")
	// ErrDuplicateMember is returned when inviting an email that is already on the team.
	ErrDuplicateMember = errors.New("already a team member")
	// ErrTeamLimit is returned when a free-plan identity invites beyond the member cap.
	ErrTeamLimit = errors.New("free plan team member limit reached")
)

// FreeTeamLimit is the team size cap for free-plan identities. Pro has none.
const FreeTeamLimit = 2

// Demo credentials accepted on first sign-in, so the app works out of the
// box with no prior sign-up.
const (
	DemoEmail    = "user@example.com"
	DemoPassword = "password"
)

const schema = `
CREATE TABLE IF NOT EXISTS identities (
	id                 TEXT PRIMARY KEY,
	email              TEXT NOT NULL UNIQUE,
	name               TEXT NOT NULL,
	photo_url          TEXT NOT NULL,
	is_pro             INTEGER NOT NULL DEFAULT 0,
	active_account_id  TEXT,
	encrypted_password BLOB NOT NULL,
	created_at         TIMESTAMP NOT NULL,
	updated_at         TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
	id          TEXT PRIMARY KEY,
	identity_id TEXT NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
	email       TEXT NOT NULL,
	name        TEXT NOT NULL,
	photo_url   TEXT NOT NULL,
	is_pro      INTEGER NOT NULL DEFAULT 0,
	position    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tokens (
	token       TEXT PRIMARY KEY,
	identity_id TEXT NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
	created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS team_members (
	id          TEXT PRIMARY KEY,
	identity_id TEXT NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
	email       TEXT NOT NULL,
	name        TEXT NOT NULL,
	invited_at  TIMESTAMP NOT NULL,
	UNIQUE(identity_id, email)
);
`

// Store is the SQLite-backed identity service. Stored passwords are
// encrypted at rest with the process encryption key.
type Store struct {
	db        *sqlx.DB
	encryptor *crypto.Encryptor
}

// Open opens (creating if needed) the identity database at the given path
// and applies the schema. Use ":memory:" for tests.
func Open(path string, encryptor *crypto.Encryptor) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open identity database: %w", err)
	}

	// An in-memory database exists per connection; the pool must not open a
	// second one.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply identity schema: %w", err)
	}

	return &Store{db: db, encryptor: encryptor}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type identityRow struct {
	ID                string    `db:"id"`
	Email             string    `db:"email"`
	Name              string    `db:"name"`
	PhotoURL          string    `db:"photo_url"`
	IsPro             bool      `db:"is_pro"`
	ActiveAccountID   *string   `db:"active_account_id"`
	EncryptedPassword []byte    `db:"encrypted_password"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

type accountRow struct {
	ID         string `db:"id"`
	IdentityID string `db:"identity_id"`
	Email      string `db:"email"`
	Name       string `db:"name"`
	PhotoURL   string `db:"photo_url"`
	IsPro      bool   `db:"is_pro"`
	Position   int    `db:"position"`
}

type memberRow struct {
	ID         string    `db:"id"`
	IdentityID string    `db:"identity_id"`
	Email      string    `db:"email"`
	Name       string    `db:"name"`
	InvitedAt  time.Time `db:"invited_at"`
}

// displayName derives the display name from an email local part
// ("jane@co.com" -> "jane").
func displayName(email string) string {
	name, _, found := strings.Cut(email, "@")
	if !found || name == "" {
		return email
	}
	return name
}

// avatarURL builds the generated-avatar URL for a display name.
func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
