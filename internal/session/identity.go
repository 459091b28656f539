package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sortflow/sortflow/internal/models"
)

// SignUp creates a new identity with a single linked account and signs it in,
// returning the assembled user and a session token.
func (s *Store) SignUp(ctx context.Context, email, password string) (models.User, string, error) {
	var exists int
	if err := s.db.GetContext(ctx, &exists, `SELECT COUNT(*) FROM identities WHERE email = ?`, email); err != nil {
		return models.User{}, "", fmt.Errorf("failed to check existing identity: %w", err)
	}
	if exists > 0 {
		return models.User{}, "", fmt.Errorf("sign up %s: %w", email, ErrEmailTaken)
	}

	identityID, err := s.createIdentity(ctx, email, password)
	if err != nil {
		return models.User{}, "", err
	}

	token, err := s.issueToken(ctx, identityID)
	if err != nil {
		return models.User{}, "", err
	}

	user, err := s.userByIdentity(ctx, identityID)
	return user, token, err
}

// SignIn validates credentials and issues a session token. On a fresh
// database the demo credentials create the demo identity on first use, so
// the demo login works without a prior sign-up.
func (s *Store) SignIn(ctx context.Context, email, password string) (models.User, string, error) {
	var row identityRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM identities WHERE email = ?`, email)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if email != DemoEmail || password != DemoPassword {
			return models.User{}, "", ErrInvalidCredentials
		}
		identityID, createErr := s.createIdentity(ctx, email, password)
		if createErr != nil {
			return models.User{}, "", createErr
		}
		token, tokenErr := s.issueToken(ctx, identityID)
		if tokenErr != nil {
			return models.User{}, "", tokenErr
		}
		user, userErr := s.userByIdentity(ctx, identityID)
		return user, token, userErr
	case err != nil:
		return models.User{}, "", fmt.Errorf("failed to load identity: %w", err)
	}

	stored, err := s.encryptor.Decrypt(row.EncryptedPassword)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to decrypt stored password: %w", err)
	}
	if stored != password {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, row.ID)
	if err != nil {
		return models.User{}, "", err
	}
	user, err := s.userByIdentity(ctx, row.ID)
	return user, token, err
}

// SignOut invalidates the session token. Unknown tokens are not an error.
func (s *Store) SignOut(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// ValidateToken resolves a session token to the active account's email
// address. This is what the auth middleware calls on every request.
func (s *Store) ValidateToken(ctx context.Context, token string) (string, error) {
	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

// CurrentUser returns the signed-in user for the token, assembled from the
// identity row, its linked accounts, and whichever account is active.
func (s *Store) CurrentUser(ctx context.Context, token string) (models.User, error) {
	var identityID string
	err := s.db.GetContext(ctx, &identityID, `SELECT identity_id FROM tokens WHERE token = ?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoSession
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to resolve token: %w", err)
	}
	return s.userByIdentity(ctx, identityID)
}

// Upgrade switches the signed-in identity and all its linked accounts to the
// pro plan. There is no payment flow behind it; the flag simply flips.
func (s *Store) Upgrade(ctx context.Context, token string) (models.User, error) {
	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return models.User{}, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE identities SET is_pro = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, user.ID); err != nil {
		return models.User{}, fmt.Errorf("failed to upgrade identity: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET is_pro = 1 WHERE identity_id = ?`, user.ID); err != nil {
		return models.User{}, fmt.Errorf("failed to upgrade accounts: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, fmt.Errorf("failed to commit upgrade: %w", err)
	}

	return s.userByIdentity(ctx, user.ID)
}

func (s *Store) createIdentity(ctx context.Context, email, password string) (string, error) {
	encrypted, err := s.encryptor.Encrypt(password)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt password: %w", err)
	}

	identityID := uuid.NewString()
	accountID := uuid.NewString()
	name := displayName(email)
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO identities (id, email, name, photo_url, is_pro, active_account_id, encrypted_password, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?)`,
		identityID, email, name, avatarURL(name), accountID, encrypted, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to create identity: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO accounts (id, identity_id, email, name, photo_url, is_pro, position)
		VALUES (?, ?, ?, ?, ?, 0, 0)`,
		accountID, identityID, email, name, avatarURL(name))
	if err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit identity: %w", err)
	}
	return identityID, nil
}

func (s *Store) issueToken(ctx context.Context, identityID string) (string, error) {
	token := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO tokens (token, identity_id, created_at) VALUES (?, ?, ?)`,
		token, identityID, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// userByIdentity assembles the User view: accounts in linked order, with the
// top-level fields mirroring the active account.
func (s *Store) userByIdentity(ctx context.Context, identityID string) (models.User, error) {
	var row identityRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM identities WHERE id = ?`, identityID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoSession
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load identity: %w", err)
	}

	var accounts []accountRow
	err = s.db.SelectContext(ctx, &accounts,
		`SELECT * FROM accounts WHERE identity_id = ? ORDER BY position`, identityID)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load accounts: %w", err)
	}

	user := models.User{
		ID:        row.ID,
		Email:     row.Email,
		Name:      row.Name,
		PhotoURL:  row.PhotoURL,
		IsProUser: row.IsPro,
		Accounts:  make([]models.UserAccount, 0, len(accounts)),
	}
	if row.ActiveAccountID != nil {
		user.ActiveAccountID = *row.ActiveAccountID
	}

	for _, a := range accounts {
		user.Accounts = append(user.Accounts, models.UserAccount{
			ID:        a.ID,
			Email:     a.Email,
			Name:      a.Name,
			PhotoURL:  a.PhotoURL,
			IsProUser: a.IsPro,
		})
		if a.ID == user.ActiveAccountID {
			user.Email = a.Email
			user.Name = a.Name
			user.PhotoURL = a.PhotoURL
			user.IsProUser = a.IsPro
		}
	}

	return user, nil
}
