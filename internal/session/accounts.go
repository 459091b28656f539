package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sortflow/sortflow/internal/models"
)

// AddAccount links a new account to the signed-in identity. The new account
// is appended but not activated.
func (s *Store) AddAccount(ctx context.Context, token, email string) (models.User, error) {
	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return models.User{}, err
	}

	name := displayName(email)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, identity_id, email, name, photo_url, is_pro, position)
		VALUES (?, ?, ?, ?, ?, 0, ?)`,
		uuid.NewString(), user.ID, email, name, avatarURL(name), len(user.Accounts))
	if err != nil {
		return models.User{}, fmt.Errorf("failed to add account: %w", err)
	}

	return s.userByIdentity(ctx, user.ID)
}

// SwitchAccount makes the given linked account the active one. The user's
// top-level email, name, avatar, and pro flag follow the active account.
func (s *Store) SwitchAccount(ctx context.Context, token, accountID string) (models.User, error) {
	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return models.User{}, err
	}

	var account accountRow
	err = s.db.GetContext(ctx, &account,
		`SELECT * FROM accounts WHERE id = ? AND identity_id = ?`, accountID, user.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("switch to %s: %w", accountID, ErrAccountNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load account: %w", err)
	}

	if err := s.setActiveAccount(ctx, user.ID, account.ID); err != nil {
		return models.User{}, err
	}
	return s.userByIdentity(ctx, user.ID)
}

// RemoveAccount unlinks an account. Removing the active account activates
// the first remaining one; removing the last account signs the identity out
// and returns ErrNoAccountsLeft.
func (s *Store) RemoveAccount(ctx context.Context, token, accountID string) (models.User, error) {
	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return models.User{}, err
	}

	found := false
	for _, a := range user.Accounts {
		if a.ID == accountID {
			found = true
			break
		}
	}
	if !found {
		return models.User{}, fmt.Errorf("remove %s: %w", accountID, ErrAccountNotFound)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, accountID); err != nil {
		return models.User{}, fmt.Errorf("failed to remove account: %w", err)
	}

	var remaining []accountRow
	err = s.db.SelectContext(ctx, &remaining,
		`SELECT * FROM accounts WHERE identity_id = ? ORDER BY position`, user.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load remaining accounts: %w", err)
	}

	if len(remaining) == 0 {
		if err := s.SignOut(ctx, token); err != nil {
			return models.User{}, err
		}
		return models.User{}, ErrNoAccountsLeft
	}

	if user.ActiveAccountID == accountID {
		if err := s.setActiveAccount(ctx, user.ID, remaining[0].ID); err != nil {
			return models.User{}, err
		}
	}
	return s.userByIdentity(ctx, user.ID)
}

func (s *Store) setActiveAccount(ctx context.Context, identityID, accountID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE identities SET active_account_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		accountID, identityID)
	if err != nil {
		return fmt.Errorf("failed to set active account: %w", err)
	}
	return nil
}
