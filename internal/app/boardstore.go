package app

import (
	"encoding/json"
	"sync"

	"github.com/chessclass/liveboard/internal/domain"
)

// BoardStore holds the canonical board per room. Rooms materialize on
// the first accepted move and live for the process lifetime; reads of an
// untouched room see defaults without creating anything.
type BoardStore struct {
	mu     sync.RWMutex
	boards map[domain.RoomID]*domain.BoardState
}

func NewBoardStore() *BoardStore {
	return &BoardStore{boards: make(map[domain.RoomID]*domain.BoardState)}
}

// Snapshot returns the room's board and whether the room had stored
// state. An untouched room yields the default starting board, which is
// not persisted.
func (s *BoardStore) Snapshot(room domain.RoomID) (domain.BoardState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.boards[room]; ok {
		return b.Clone(), true
	}
	return domain.NewBoardState(), false
}

// ApplyMove overwrites position, turn and last move, appends the new
// position to the history and replaces the move list verbatim. Legality
// is the client's problem; the store only guarantees ordering.
func (s *BoardStore) ApplyMove(room domain.RoomID, fen, turn string, move json.RawMessage, moves []json.RawMessage) domain.BoardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[room]
	if !ok {
		fresh := domain.NewBoardState()
		b = &fresh
		s.boards[room] = b
	}
	b.FEN = fen
	b.Turn = turn
	b.LastMove = move
	b.History = append(b.History, fen)
	b.Moves = append([]json.RawMessage(nil), moves...)
	return b.Clone()
}
