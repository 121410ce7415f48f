// Package store persists whole board snapshots for offline use.
// Every save replaces the previous snapshot; nothing is merged.
package store

import (
	"context"
	"errors"
	"os"

	"kanbanstudio/internal/kanban/fs"
	"kanbanstudio/internal/kanban/models"
	"kanbanstudio/internal/logs"
)

// ErrNoBoard is returned by a store that holds no snapshot yet
var ErrNoBoard = errors.New("no board stored")

// Store loads and saves a complete board snapshot
type Store interface {
	Load(ctx context.Context) (models.Board, error)
	Save(ctx context.Context, board models.Board) error
}

// LoadOrSeed loads the stored board, seeding the store with models.InitialBoard
// when it is empty.
func LoadOrSeed(ctx context.Context, s Store) (models.Board, error) {
	board, err := s.Load(ctx)
	if err == nil {
		return board, nil
	}
	if !errors.Is(err, ErrNoBoard) {
		return models.Board{}, err
	}

	logs.Logger.Printf("No stored board, seeding initial board")
	board = models.InitialBoard()
	if err := s.Save(ctx, board); err != nil {
		return models.Board{}, err
	}
	return board, nil
}

// DiskStore keeps the board as markdown under a directory
type DiskStore struct {
	Dir string
}

// NewDiskStore returns a store rooted at dir
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{Dir: dir}
}

func (s *DiskStore) Load(ctx context.Context) (models.Board, error) {
	board, err := fs.ReadBoard(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return models.Board{}, ErrNoBoard
	}
	return board, err
}

func (s *DiskStore) Save(ctx context.Context, board models.Board) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}
	return fs.WriteBoard(s.Dir, board)
}
