package app

import "github.com/chessclass/liveboard/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a member whose send buffer is full.
type Policy interface {
	OnBackpressure(room domain.RoomID, p domain.Participant) BackpressureAction
}

// KickSlowPolicy removes slow consumers; a client that cannot keep up
// with roster and move traffic would only fall further behind the board.
type KickSlowPolicy struct{}

func (KickSlowPolicy) OnBackpressure(domain.RoomID, domain.Participant) BackpressureAction {
	return KickMember
}
