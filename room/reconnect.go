package room

import "time"

// Disconnected reports a lost connection for playerID.
func (r *Room) Disconnected(playerID string) bool {
	return r.send(Command{Type: CmdPlayerDisconnected, PlayerID: playerID})
}

// Rejoin hands the seat a new send channel.
func (r *Room) Rejoin(playerID string, send chan []byte) bool {
	return r.send(Command{Type: CmdRejoinCompleted, PlayerID: playerID, NewSend: send})
}

// Leave abandons the game on behalf of playerID.
func (r *Room) Leave(playerID string) bool {
	return r.send(Command{Type: CmdLeave, PlayerID: playerID})
}

func (r *Room) handleLeave(playerID string) {
	s := r.Seat(playerID)
	if s == nil {
		return
	}
	r.cancelReconnectionTimer(playerID)
	s.disconnected = true
	s.Send = nil
	r.stop(EndAbandoned)
	r.broadcast(PlayerLeftMsg{Type: "player_left", PlayerID: playerID, Name: s.Name})
}

func (r *Room) handlePlayerDisconnected(playerID string) {
	s := r.Seat(playerID)
	if s == nil || s.disconnected {
		return
	}
	s.disconnected = true
	s.Send = nil
	deadline := time.Now().Add(r.ReconnectTimeout)
	r.log.Info("player disconnected", "player", playerID, "deadline", deadline.Format(time.RFC3339))
	r.broadcast(PlayerReconnectingMsg{
		Type:                       "player_reconnecting",
		PlayerID:                   playerID,
		Name:                       s.Name,
		ReconnectionDeadlineUnixMs: deadline.UnixMilli(),
	})

	cancel := make(chan struct{})
	r.timers[playerID] = cancel
	timeout := r.ReconnectTimeout
	go func() {
		select {
		case <-time.After(timeout):
			r.send(Command{Type: CmdReconnectionTimeout, PlayerID: playerID})
		case <-cancel:
		}
	}()
}

func (r *Room) cancelReconnectionTimer(playerID string) {
	if cancel, ok := r.timers[playerID]; ok {
		close(cancel)
		delete(r.timers, playerID)
	}
}

func (r *Room) handleRejoinCompleted(playerID string, send chan []byte) {
	s := r.Seat(playerID)
	if s == nil || send == nil {
		return
	}
	r.cancelReconnectionTimer(playerID)
	s.disconnected = false
	s.Send = send
	r.log.Info("player rejoined", "player", playerID)
	for _, other := range r.Seats {
		if other != s && other.Send != nil && !other.disconnected {
			sendTo(other, PlayerReconnectedMsg{Type: "player_reconnected", PlayerID: playerID, Name: s.Name})
		}
	}
	r.broadcastState()
}
