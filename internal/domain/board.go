package domain

import "encoding/json"

// StartingFEN is the standard chess initial position, white to move.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const (
	TurnWhite = "w"
	TurnBlack = "b"
)

// BoardState is the authoritative board for one room. The server is a
// relay: fen, turn and moves come from the controlling client verbatim
// and are never validated against chess rules.
type BoardState struct {
	FEN      string
	Turn     string
	LastMove json.RawMessage
	// History holds every canonical position the room has seen, in
	// order, seeded with the position the room started from.
	History []string
	// Moves is replaced wholesale on each accepted move; the client
	// sends the full authoritative list each time.
	Moves []json.RawMessage
}

// NewBoardState returns the default state of an untouched room.
func NewBoardState() BoardState {
	return BoardState{
		FEN:     StartingFEN,
		Turn:    TurnWhite,
		History: []string{StartingFEN},
		Moves:   []json.RawMessage{},
	}
}

// Clone makes a copy whose slices do not alias the stored state, so
// snapshots handed to adapters stay stable across later moves.
func (b BoardState) Clone() BoardState {
	out := b
	out.History = append([]string(nil), b.History...)
	out.Moves = append([]json.RawMessage(nil), b.Moves...)
	return out
}
