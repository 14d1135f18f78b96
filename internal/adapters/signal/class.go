package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/chessclass/liveboard/internal/core"
)

func (ctl *BoardWSController) handleJoinClass(
	cid core.ConnectionID,
	conn *WsBoardConn,
	data []byte,
) {
	type joinPayload struct {
		Type    string        `json:"type"`
		ClassID core.ClassRef `json:"classId"`
		Token   string        `json:"token"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "bad_payload",
		})
		return
	}
	if !ctl.joins.Allow(cid) {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Msg("join rate limited")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "too many join attempts",
		})
		return
	}

	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("class", string(p.ClassID)).Msg("join-class")
	ctl.Session.JoinClass(cid, conn, p.ClassID, p.Token)
}

func (ctl *BoardWSController) handleMove(
	cid core.ConnectionID,
	conn *WsBoardConn,
	data []byte,
) {
	var p core.MovePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad move payload")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "bad_payload",
		})
		return
	}
	ctl.Session.Move(cid, p)
}

func (ctl *BoardWSController) handleNavChange(
	cid core.ConnectionID,
	conn *WsBoardConn,
	data []byte,
) {
	var p core.NavPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad nav payload")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "bad_payload",
		})
		return
	}
	ctl.Session.NavChange(cid, p)
}
