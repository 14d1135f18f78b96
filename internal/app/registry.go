package app

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/chessclass/liveboard/internal/core"
	"github.com/chessclass/liveboard/internal/domain"
)

type regEntry struct {
	participant domain.Participant
	conn        core.BoardConn
	seq         uint64
}

// Registry tracks every live connection and its class membership.
type Registry struct {
	mu      sync.RWMutex
	entries map[core.ConnectionID]*regEntry
	nextSeq uint64
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[core.ConnectionID]*regEntry)}
}

// Register inserts a participant for cid. Re-registering a live
// connection overwrites identity, room and control (last write wins)
// while keeping its roster position.
func (r *Registry) Register(cid core.ConnectionID, id domain.Identity, room domain.RoomID, conn core.BoardConn) domain.Participant {
	p := domain.NewParticipant(id, room)
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[cid]; ok {
		e.participant = p
		e.conn = conn
		return p
	}
	r.nextSeq++
	r.entries[cid] = &regEntry{participant: p, conn: conn, seq: r.nextSeq}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("user", id.UserID).Str("room", string(room)).Msg("registered participant")
	return p
}

func (r *Registry) Get(cid core.ConnectionID) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[cid]; ok {
		return e.participant, true
	}
	return domain.Participant{}, false
}

// SetControl flips the control flag in place; unknown connections are a
// no-op.
func (r *Registry) SetControl(cid core.ConnectionID, hasControl bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[cid]
	if !ok {
		return
	}
	e.participant.HasControl = hasControl
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Bool("control", hasControl).Msg("updated control")
}

// Member pairs a participant snapshot with its transport endpoint for
// fan-out.
type Member struct {
	CID         core.ConnectionID
	Participant domain.Participant
	Conn        core.BoardConn
}

// ListByRoom returns the room's members in insertion order.
func (r *Registry) ListByRoom(room domain.RoomID) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	type seqMember struct {
		m   Member
		seq uint64
	}
	tmp := make([]seqMember, 0, len(r.entries))
	for cid, e := range r.entries {
		if e.participant.RoomID == room {
			tmp = append(tmp, seqMember{Member{CID: cid, Participant: e.participant, Conn: e.conn}, e.seq})
		}
	}
	sort.Slice(tmp, func(i, j int) bool { return tmp[i].seq < tmp[j].seq })
	out := make([]Member, len(tmp))
	for i, sm := range tmp {
		out[i] = sm.m
	}
	return out
}

// Rooms returns the distinct rooms that currently have members, in
// first-join order.
func (r *Registry) Rooms() []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	type seqRoom struct {
		id  domain.RoomID
		seq uint64
	}
	firstSeen := make(map[domain.RoomID]uint64)
	for _, e := range r.entries {
		if seq, ok := firstSeen[e.participant.RoomID]; !ok || e.seq < seq {
			firstSeen[e.participant.RoomID] = e.seq
		}
	}
	tmp := make([]seqRoom, 0, len(firstSeen))
	for id, seq := range firstSeen {
		tmp = append(tmp, seqRoom{id, seq})
	}
	sort.Slice(tmp, func(i, j int) bool { return tmp[i].seq < tmp[j].seq })
	out := make([]domain.RoomID, len(tmp))
	for i, sr := range tmp {
		out[i] = sr.id
	}
	return out
}

// Remove deletes the entry and reports the room the connection was in,
// so the caller can still notify that room afterwards.
func (r *Registry) Remove(cid core.ConnectionID) (domain.RoomID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[cid]
	if !ok {
		return "", false
	}
	delete(r.entries, cid)
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("room", string(e.participant.RoomID)).Msg("removed participant")
	return e.participant.RoomID, true
}
