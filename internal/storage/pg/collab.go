package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/taskboard-dev/taskboard/internal/domain"
	internal_errors "github.com/taskboard-dev/taskboard/internal/errors"
)

// =========================================================================
// Public Methods (satisfy the service.CollabStorage interface)
// =========================================================================

// Invitation fetches an invitation by id.
func (s *Storage) Invitation(id string) (domain.Invitation, error) {
	return s.invitation(s.db, id)
}

// CreateInvitation inserts a PENDING invitation after re-checking, inside
// one transaction, that the invitee is not already a collaborator and has
// no pending invitation on the board. The partial unique index on
// (board_id, invitee_id) WHERE status='PENDING' backs the check against
// concurrent inserts.
func (s *Storage) CreateInvitation(inv domain.Invitation) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		isCollaborator, err := s.hasCollaborator(tx, inv.BoardId, inv.InviteeId)
		if err != nil {
			return err
		}
		if isCollaborator {
			return internal_errors.Conflict("User is already a collaborator on this board")
		}

		hasPending, err := s.hasPendingInvitation(tx, inv.BoardId, inv.InviteeId)
		if err != nil {
			return err
		}
		if hasPending {
			return internal_errors.Conflict("User already has a pending invitation for this board")
		}

		_, err = tx.Exec(`
            INSERT INTO invitations(id, board_id, inviter_id, invitee_id, access_right, status)
            VALUES($1, $2, $3, $4, $5, $6)`,
			inv.Id, inv.BoardId, inv.InviterId, inv.InviteeId, inv.AccessRight, domain.InvitationPending)
		if err != nil {
			if isUniqueViolation(err, "invitations_pending_unique") {
				return internal_errors.Conflict("User already has a pending invitation for this board")
			}
			return fmt.Errorf("failed to insert invitation: %w", err)
		}
		return nil
	})
}

// AcceptInvitation marks a PENDING invitation ACCEPTED and creates the
// collaborator row, upserting the owner-shadow first, all in one
// transaction. The status flip is a compare-and-set so a second accept of
// the same invitation fails instead of double-creating a collaborator.
func (s *Storage) AcceptInvitation(invitationId string, shadow domain.CachedUser, collaborator domain.Collaborator) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			"UPDATE invitations SET status = $1 WHERE id = $2 AND status = $3",
			domain.InvitationAccepted, invitationId, domain.InvitationPending)
		if err != nil {
			return fmt.Errorf("failed to update invitation status: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for invitation accept: %w", err)
		}
		if rowsAffected == 0 {
			return internal_errors.Forbidden("Invitation is not pending")
		}

		if err := s.upsertCachedUser(tx, shadow); err != nil {
			return err
		}

		return s.insertCollaborator(tx, collaborator)
	})
}

// DeleteInvitation removes an invitation row. Terminal, non-recoverable.
func (s *Storage) DeleteInvitation(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM invitations WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete invitation: %w", err)
		}
		rowsDeleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for invitation deletion: %w", err)
		}
		if rowsDeleted == 0 {
			return internal_errors.NotFound("Invitation not found")
		}
		return nil
	})
}

// PendingInvitations lists the PENDING invitations addressed to inviteeId
// on the board. Other users' invitations are never returned.
func (s *Storage) PendingInvitations(boardId domain.BoardId, inviteeId domain.UserId) ([]domain.Invitation, error) {
	rows, err := s.db.Query(`
        SELECT id, board_id, inviter_id, invitee_id, access_right, status, created_at
        FROM invitations
        WHERE board_id = $1 AND invitee_id = $2 AND status = $3
        ORDER BY created_at`,
		boardId, inviteeId, domain.InvitationPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending invitations: %w", err)
	}
	defer rows.Close()

	var invitations []domain.Invitation
	for rows.Next() {
		var inv domain.Invitation
		if err := rows.Scan(&inv.Id, &inv.BoardId, &inv.InviterId, &inv.InviteeId, &inv.AccessRight, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// HasCollaborator reports whether userId already collaborates on the board.
func (s *Storage) HasCollaborator(boardId domain.BoardId, userId domain.UserId) (bool, error) {
	return s.hasCollaborator(s.db, boardId, userId)
}

// Collaborators lists all collaborator rows for a board.
func (s *Storage) Collaborators(boardId domain.BoardId) ([]domain.Collaborator, error) {
	rows, err := s.db.Query(`
        SELECT id, board_id, user_id, name, email, access_right, status, added_at
        FROM collaborators
        WHERE board_id = $1
        ORDER BY added_at`,
		boardId)
	if err != nil {
		return nil, fmt.Errorf("failed to query collaborators: %w", err)
	}
	defer rows.Close()

	var collaborators []domain.Collaborator
	for rows.Next() {
		var c domain.Collaborator
		if err := rows.Scan(&c.Id, &c.BoardId, &c.UserId, &c.Name, &c.Email, &c.AccessRight, &c.Status, &c.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan collaborator: %w", err)
		}
		collaborators = append(collaborators, c)
	}
	return collaborators, rows.Err()
}

// CreateCollaborator upserts the owner-shadow and inserts the collaborator
// row as one atomic unit (the direct-add path).
func (s *Storage) CreateCollaborator(shadow domain.CachedUser, collaborator domain.Collaborator) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.upsertCachedUser(tx, shadow); err != nil {
			return err
		}
		return s.insertCollaborator(tx, collaborator)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) invitation(q Querier, id string) (domain.Invitation, error) {
	var inv domain.Invitation
	err := q.QueryRow(`
        SELECT id, board_id, inviter_id, invitee_id, access_right, status, created_at
        FROM invitations WHERE id = $1`,
		id,
	).Scan(&inv.Id, &inv.BoardId, &inv.InviterId, &inv.InviteeId, &inv.AccessRight, &inv.Status, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Invitation{}, internal_errors.NotFound("Invitation not found")
		}
		return domain.Invitation{}, fmt.Errorf("failed to query invitation: %w", err)
	}
	return inv, nil
}

func (s *Storage) hasCollaborator(q Querier, boardId domain.BoardId, userId domain.UserId) (bool, error) {
	var exists bool
	err := q.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM collaborators WHERE board_id = $1 AND user_id = $2)",
		boardId, userId,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check collaborator existence: %w", err)
	}
	return exists, nil
}

func (s *Storage) hasPendingInvitation(q Querier, boardId domain.BoardId, inviteeId domain.UserId) (bool, error) {
	var exists bool
	err := q.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM invitations WHERE board_id = $1 AND invitee_id = $2 AND status = $3)",
		boardId, inviteeId, domain.InvitationPending,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending invitation existence: %w", err)
	}
	return exists, nil
}

func (s *Storage) insertCollaborator(q Querier, c domain.Collaborator) error {
	_, err := q.Exec(`
        INSERT INTO collaborators(id, board_id, user_id, name, email, access_right, status)
        VALUES($1, $2, $3, $4, $5, $6, $7)`,
		c.Id, c.BoardId, c.UserId, c.Name, c.Email, c.AccessRight, domain.InvitationAccepted)
	if err != nil {
		if isUniqueViolation(err, "collaborators_board_user_unique") {
			return internal_errors.Conflict("User is already a collaborator on this board")
		}
		return fmt.Errorf("failed to insert collaborator: %w", err)
	}
	return nil
}
