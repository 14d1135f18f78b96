package app

import (
	"encoding/json"
	"testing"

	"github.com/chessclass/liveboard/internal/domain"
)

func TestSnapshotUntouchedRoom(t *testing.T) {
	s := NewBoardStore()

	board, existed := s.Snapshot("5")
	if existed {
		t.Error("untouched room reported as existing")
	}
	if board.FEN != domain.StartingFEN || board.Turn != domain.TurnWhite {
		t.Errorf("default board = %q/%q", board.FEN, board.Turn)
	}
	if len(board.History) != 1 || board.History[0] != domain.StartingFEN {
		t.Errorf("default history = %v", board.History)
	}
	if len(board.Moves) != 0 {
		t.Errorf("default moves = %v", board.Moves)
	}

	// A read must not materialize state.
	if _, existed := s.Snapshot("5"); existed {
		t.Error("Snapshot created stored state")
	}
}

func TestApplyMoveMaterializesAndMutates(t *testing.T) {
	s := NewBoardStore()
	move := json.RawMessage(`{"from":"e2","to":"e4"}`)
	moves := []json.RawMessage{json.RawMessage(`"e4"`)}

	board := s.ApplyMove("5", "fen-1", domain.TurnBlack, move, moves)
	if board.FEN != "fen-1" || board.Turn != domain.TurnBlack {
		t.Errorf("board = %q/%q, want fen-1/b", board.FEN, board.Turn)
	}
	if len(board.History) != 2 || board.History[1] != "fen-1" {
		t.Errorf("history = %v, want seed + fen-1", board.History)
	}

	if _, existed := s.Snapshot("5"); !existed {
		t.Error("ApplyMove did not materialize state")
	}
}

func TestApplyMoveReplacesMoveListWholesale(t *testing.T) {
	s := NewBoardStore()
	s.ApplyMove("5", "fen-1", domain.TurnBlack, nil, []json.RawMessage{
		json.RawMessage(`"e4"`), json.RawMessage(`"e5"`),
	})
	board := s.ApplyMove("5", "fen-2", domain.TurnWhite, nil, []json.RawMessage{
		json.RawMessage(`"d4"`),
	})

	if len(board.Moves) != 1 || string(board.Moves[0]) != `"d4"` {
		t.Errorf("move list = %v, want just d4", board.Moves)
	}
	if len(board.History) != 3 {
		t.Errorf("history length = %d, want 3", len(board.History))
	}
}

func TestSnapshotIsStableAcrossLaterMoves(t *testing.T) {
	s := NewBoardStore()
	s.ApplyMove("5", "fen-1", domain.TurnBlack, nil, nil)

	snap, _ := s.Snapshot("5")
	s.ApplyMove("5", "fen-2", domain.TurnWhite, nil, []json.RawMessage{json.RawMessage(`"d4"`)})

	if len(snap.History) != 2 {
		t.Errorf("snapshot history mutated: %v", snap.History)
	}
	if snap.FEN != "fen-1" {
		t.Errorf("snapshot fen mutated: %q", snap.FEN)
	}
}

func TestRoomsAreIndependent(t *testing.T) {
	s := NewBoardStore()
	s.ApplyMove("5", "fen-a", domain.TurnBlack, nil, nil)

	board, existed := s.Snapshot("6")
	if existed {
		t.Error("sibling room inherited state")
	}
	if board.FEN != domain.StartingFEN {
		t.Errorf("sibling room fen = %q", board.FEN)
	}
}
