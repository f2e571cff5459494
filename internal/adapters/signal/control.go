package signal

func (ctl *Controller) handlePing(conn *wsConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: evPong,
	}
	ctl.sendJSON(conn, resp)
}
