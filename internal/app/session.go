package app

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/chessclass/liveboard/internal/auth"
	"github.com/chessclass/liveboard/internal/core"
	"github.com/chessclass/liveboard/internal/domain"
)

// Session is the protocol state machine for the live board. Every
// inbound event is handled to completion under one dispatch mutex, so
// registry reads, board mutations and the fan-out of a single event
// never interleave with another event. Broadcast order therefore equals
// server-receipt order, which is the engine's only ordering guarantee:
// two controllers racing a move is resolved by whoever reaches dispatch
// last, not by any conflict resolution.
type Session struct {
	mu       sync.Mutex
	registry *Registry
	boards   *BoardStore
	verifier auth.Verifier
	policy   Policy
}

func NewSession(registry *Registry, boards *BoardStore, verifier auth.Verifier, policy Policy) *Session {
	if policy == nil {
		policy = KickSlowPolicy{}
	}
	return &Session{
		registry: registry,
		boards:   boards,
		verifier: verifier,
		policy:   policy,
	}
}

type participantsEvent struct {
	Type         string                `json:"type"`
	Participants []core.ParticipantDTO `json:"participants"`
}

type initialStateEvent struct {
	Type    string            `json:"type"`
	FEN     string            `json:"fen"`
	Turn    string            `json:"turn"`
	History []string          `json:"history"`
	Moves   []json.RawMessage `json:"moves"`
}

type moveEvent struct {
	Type string `json:"type"`
	core.MovePayload
}

type navEvent struct {
	Type string `json:"type"`
	core.NavPayload
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// JoinClass admits a connection into a class room. A bad credential
// leaves the connection unjoined and is reported to it alone.
func (s *Session) JoinClass(cid core.ConnectionID, conn core.BoardConn, classID core.ClassRef, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, err := s.verifier.Verify(token)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.session").Str("cid", string(cid)).Msg("join auth failed")
		s.emitToConn(conn, errorEvent{Type: "error", Message: "Authentication failed"})
		return
	}

	room := classID.RoomID()
	p := s.registry.Register(cid, identity, room, conn)
	log.Info().Str("module", "app.session").Str("cid", string(cid)).Str("user", p.UserID).Str("room", string(room)).Msg("joined class")

	s.broadcastRoster(room)

	board, existed := s.boards.Snapshot(room)
	log.Debug().Str("module", "app.session").Str("room", string(room)).Bool("existing", existed).Msg("initial state")
	s.emitToConn(conn, initialStateEvent{
		Type:    "initial-state",
		FEN:     board.FEN,
		Turn:    board.Turn,
		History: board.History,
		Moves:   board.Moves,
	})
}

// Move applies a controller's move and echoes the payload to the whole
// room, sender included, so every client reacts to the same broadcast.
func (s *Session) Move(cid core.ConnectionID, p core.MovePayload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.registry.Get(cid)
	if !ok {
		return
	}
	if !member.HasControl {
		log.Warn().Str("module", "app.session").Str("cid", string(cid)).Str("user", member.DisplayName).Msg("move without control dropped")
		return
	}
	room := p.ClassID.RoomID()
	if member.RoomID != room {
		log.Warn().Str("module", "app.session").Str("cid", string(cid)).Str("room", string(room)).Msg("move for foreign room dropped")
		return
	}

	s.boards.ApplyMove(room, p.FEN, p.Turn, p.Move, p.NewMoves)
	s.emitToRoom(room, moveEvent{Type: "move", MovePayload: p})
}

// GrantControl lets a teacher or admin hand the board to a participant
// in the same room. Granting twice is the same as granting once.
func (s *Session) GrantControl(cid core.ConnectionID, classID core.ClassRef, target core.ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requester, ok := s.registry.Get(cid)
	if !ok || !requester.Role.CanDelegate() {
		log.Warn().Str("module", "app.session").Str("cid", string(cid)).Msg("grant-control without delegation rights dropped")
		return
	}
	room := classID.RoomID()
	t, ok := s.registry.Get(target)
	if !ok || t.RoomID != room {
		return
	}
	s.registry.SetControl(target, true)
	s.broadcastRoster(room)
}

// RevokeControl takes the board back from a student. Teachers and
// admins keep control unconditionally; revoking them is a no-op.
func (s *Session) RevokeControl(cid core.ConnectionID, classID core.ClassRef, target core.ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requester, ok := s.registry.Get(cid)
	if !ok || !requester.Role.CanDelegate() {
		log.Warn().Str("module", "app.session").Str("cid", string(cid)).Msg("revoke-control without delegation rights dropped")
		return
	}
	room := classID.RoomID()
	t, ok := s.registry.Get(target)
	if !ok || t.RoomID != room || t.Role != domain.RoleStudent {
		return
	}
	s.registry.SetControl(target, false)
	s.broadcastRoster(room)
}

// NavChange relays history navigation from a controller. It never
// touches the stored board.
func (s *Session) NavChange(cid core.ConnectionID, p core.NavPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.registry.Get(cid)
	if !ok || !member.HasControl {
		return
	}
	s.emitToRoom(p.ClassID.RoomID(), navEvent{Type: "nav-change", NavPayload: p})
}

// Disconnect removes the participant and tells the room it left. Safe
// to call for connections that never joined.
func (s *Session) Disconnect(cid core.ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.registry.Remove(cid)
	if !ok {
		return
	}
	log.Info().Str("module", "app.session").Str("cid", string(cid)).Str("room", string(room)).Msg("disconnected")
	s.broadcastRoster(room)
}

// Roster returns the current roster view of a room, for the HTTP
// surface.
func (s *Session) Roster(room domain.RoomID) []core.ParticipantDTO {
	return rosterOf(s.registry.ListByRoom(room))
}

// ActiveRooms lists the rooms that currently have members.
func (s *Session) ActiveRooms() []domain.RoomID {
	return s.registry.Rooms()
}

func rosterOf(members []Member) []core.ParticipantDTO {
	out := make([]core.ParticipantDTO, 0, len(members))
	for _, m := range members {
		out = append(out, core.ParticipantDTO{
			ConnectionID: m.CID,
			UserID:       m.Participant.UserID,
			Name:         m.Participant.DisplayName,
			Role:         m.Participant.Role,
			ClassID:      m.Participant.RoomID,
			HasControl:   m.Participant.HasControl,
		})
	}
	return out
}

func (s *Session) broadcastRoster(room domain.RoomID) {
	members := s.registry.ListByRoom(room)
	s.emitToRoom(room, participantsEvent{Type: "participants-update", Participants: rosterOf(members)})
}

// emitToRoom delivers one marshaled frame to every live member of the
// room, at most once each. Members whose buffers are full are handed to
// the backpressure policy; a kicked member leaves the roster exactly
// like a disconnect.
func (s *Session) emitToRoom(room domain.RoomID, v any) {
	frame, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.session").Msg("marshal broadcast")
		return
	}
	var kicked []Member
	for _, m := range s.registry.ListByRoom(room) {
		if err := m.Conn.TrySend(frame); err != nil {
			log.Warn().Err(err).Str("module", "app.session").Str("cid", string(m.CID)).Msg("broadcast drop")
			if s.policy.OnBackpressure(room, m.Participant) == KickMember {
				kicked = append(kicked, m)
			}
		}
	}
	if len(kicked) == 0 {
		return
	}
	for _, m := range kicked {
		if _, ok := s.registry.Remove(m.CID); ok {
			m.Conn.Close()
			log.Warn().Str("module", "app.session").Str("cid", string(m.CID)).Msg("kicked slow member")
		}
	}
	// One roster refresh after the kicks; further drops here are left
	// to the members' own read pumps to notice.
	members := s.registry.ListByRoom(room)
	roster, err := json.Marshal(participantsEvent{Type: "participants-update", Participants: rosterOf(members)})
	if err != nil {
		return
	}
	for _, m := range members {
		_ = m.Conn.TrySend(roster)
	}
}

func (s *Session) emitToConn(conn core.BoardConn, v any) {
	frame, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.session").Msg("marshal send")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "app.session").Msg("direct send drop")
	}
}
