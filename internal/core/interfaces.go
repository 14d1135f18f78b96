package core

import (
	"encoding/json"

	"github.com/chessclass/liveboard/internal/domain"
)

// Frame is a raw outbound payload, already marshaled.
type Frame []byte

// ConnectionID identifies one live connection. It is the primary key of
// the participant registry and dies with the connection.
type ConnectionID string

// BoardConn abstracts the messaging transport for one connection.
// Owned by the adapter; the adapter must Close() it.
type BoardConn interface {
	// TrySend must not block; a full send buffer is an error.
	TrySend(Frame) error
	Close()
}

// ParticipantDTO is the roster view broadcast to clients.
type ParticipantDTO struct {
	ConnectionID ConnectionID  `json:"connectionId"`
	UserID       string        `json:"userId"`
	Name         string        `json:"name"`
	Role         domain.Role   `json:"role"`
	ClassID      domain.RoomID `json:"classId"`
	HasControl   bool          `json:"hasControl"`
}

// ClassRef is a class identifier on the wire. The REST layer uses
// numeric ids, older clients send strings; both normalize to a string
// room key.
type ClassRef string

func (c *ClassRef) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = ClassRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = ClassRef(n.String())
	return nil
}

func (c ClassRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

func (c ClassRef) RoomID() domain.RoomID { return domain.RoomID(c) }

// MovePayload is the client-submitted move event, echoed verbatim to the
// room on acceptance. Move entries are opaque to the server.
type MovePayload struct {
	ClassID   ClassRef          `json:"classId"`
	Move      json.RawMessage   `json:"move"`
	FEN       string            `json:"fen"`
	Turn      string            `json:"turn"`
	FromIndex *int              `json:"fromIndex,omitempty"`
	NewMoves  []json.RawMessage `json:"newMoves,omitempty"`
}

// NavPayload is a history navigation event; stateless pass-through.
type NavPayload struct {
	ClassID ClassRef `json:"classId"`
	Index   int      `json:"index"`
}
