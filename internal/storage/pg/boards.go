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

// Board fetches a board by id. The gate calls this on every board-scoped
// request, read-only on the connection pool.
func (s *Storage) Board(id domain.BoardId) (domain.Board, error) {
	return s.board(s.db, id)
}

// SaveBoard inserts a board record. Board CRUD business rules live outside
// this service; this entry point serves seeding and tests.
func (s *Storage) SaveBoard(board domain.Board) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			"INSERT INTO boards(id, owner_id, title, visibility) VALUES($1, $2, $3, $4)",
			board.Id, board.OwnerId, board.Title, board.Visibility)
		if err != nil {
			if isUniqueViolation(err, "") {
				return internal_errors.Conflict("Board already exists")
			}
			return fmt.Errorf("failed to insert board: %w", err)
		}
		return nil
	})
}

// BoardsFor lists boards the user owns or collaborates on.
func (s *Storage) BoardsFor(userId domain.UserId) ([]domain.Board, error) {
	rows, err := s.db.Query(`
        SELECT DISTINCT b.id, b.owner_id, b.title, b.visibility, b.created_at
        FROM boards b
        LEFT JOIN collaborators c ON c.board_id = b.id
        WHERE b.owner_id = $1 OR c.user_id = $1
        ORDER BY b.created_at`,
		userId)
	if err != nil {
		return nil, fmt.Errorf("failed to query boards: %w", err)
	}
	defer rows.Close()

	var boards []domain.Board
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.Id, &b.OwnerId, &b.Title, &b.Visibility, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (s *Storage) board(q Querier, id domain.BoardId) (domain.Board, error) {
	var board domain.Board
	err := q.QueryRow(
		"SELECT id, owner_id, title, visibility, created_at FROM boards WHERE id = $1", id,
	).Scan(&board.Id, &board.OwnerId, &board.Title, &board.Visibility, &board.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Board{}, internal_errors.NotFound("Board not found")
		}
		return domain.Board{}, fmt.Errorf("failed to query board: %w", err)
	}
	return board, nil
}
