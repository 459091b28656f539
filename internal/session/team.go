package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sortflow/sortflow/internal/models"
)

// Members returns the identity's team members in invitation order.
func (s *Store) Members(ctx context.Context, token string) ([]models.TeamMember, error) {
	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}

	var rows []memberRow
	err = s.db.SelectContext(ctx, &rows,
		`SELECT * FROM team_members WHERE identity_id = ? ORDER BY invited_at`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}

	members := make([]models.TeamMember, 0, len(rows))
	for _, r := range rows {
		members = append(members, models.TeamMember{ID: r.ID, Email: r.Email, Name: r.Name})
	}
	return members, nil
}

// InviteMember adds a team member. Duplicate emails are rejected, and
// free-plan identities are capped at FreeTeamLimit members.
func (s *Store) InviteMember(ctx context.Context, token, email string) (models.TeamMember, error) {
	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return models.TeamMember{}, err
	}

	members, err := s.Members(ctx, token)
	if err != nil {
		return models.TeamMember{}, err
	}
	for _, m := range members {
		if m.Email == email {
			return models.TeamMember{}, fmt.Errorf("invite %s: %w", email, ErrDuplicateMember)
		}
	}
	if !user.IsProUser && len(members) >= FreeTeamLimit {
		return models.TeamMember{}, fmt.Errorf("invite %s: %w", email, ErrTeamLimit)
	}

	member := models.TeamMember{
		ID:    uuid.NewString(),
		Email: email,
		Name:  displayName(email),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO team_members (id, identity_id, email, name, invited_at)
		VALUES (?, ?, ?, ?, ?)`,
		member.ID, user.ID, member.Email, member.Name, time.Now().UTC())
	if err != nil {
		return models.TeamMember{}, fmt.Errorf("failed to invite team member: %w", err)
	}
	return member, nil
}

// RemoveMember removes a team member by id.
func (s *Store) RemoveMember(ctx context.Context, token, memberID string) error {
	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM team_members WHERE id = ? AND identity_id = ?`, memberID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check removal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("remove member %s: %w", memberID, ErrAccountNotFound)
	}
	return nil
}
