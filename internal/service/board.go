package service

import "github.com/taskboard-dev/taskboard/internal/domain"

// Board business rules live outside this service; these are the read
// operations the HTTP surface needs around the access-control core.
type BoardService interface {
	Get(id domain.BoardId) (domain.Board, error)
	For(userId domain.UserId) ([]domain.Board, error)
}

type BoardStorage interface {
	Board(id domain.BoardId) (domain.Board, error)
	BoardsFor(userId domain.UserId) ([]domain.Board, error)
}

type Board struct {
	storage BoardStorage
}

func NewBoard(storage BoardStorage) *Board {
	return &Board{storage: storage}
}

func (b *Board) Get(id domain.BoardId) (domain.Board, error) {
	return b.storage.Board(id)
}

func (b *Board) For(userId domain.UserId) ([]domain.Board, error) {
	return b.storage.BoardsFor(userId)
}
