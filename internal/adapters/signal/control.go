package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/chessclass/liveboard/internal/core"
)

type delegatePayload struct {
	Type               string        `json:"type"`
	ClassID            core.ClassRef `json:"classId"`
	TargetConnectionID string        `json:"targetConnectionId"`
}

func (ctl *BoardWSController) handleGrantControl(
	cid core.ConnectionID,
	conn *WsBoardConn,
	data []byte,
) {
	var p delegatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad grant payload")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "bad_payload",
		})
		return
	}
	ctl.Session.GrantControl(cid, p.ClassID, core.ConnectionID(p.TargetConnectionID))
}

func (ctl *BoardWSController) handleRevokeControl(
	cid core.ConnectionID,
	conn *WsBoardConn,
	data []byte,
) {
	var p delegatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad revoke payload")
		ctl.sendJSON(conn, map[string]any{
			"type":    "error",
			"message": "bad_payload",
		})
		return
	}
	ctl.Session.RevokeControl(cid, p.ClassID, core.ConnectionID(p.TargetConnectionID))
}

func (ctl *BoardWSController) handlePing(
	conn *WsBoardConn,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}
