package server

import "github.com/google/uuid"

// Connect 登记新连接，此时尚未绑定玩家
func (s *Server) Connect(out Outbox) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.sessions[id] = &session{id: id, out: out}
	return id
}

// Reconnect 在宽限期内把新连接重新绑定到原玩家身份
func (s *Server) Reconnect(connID, oldPlayerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	Log.Infof("attempting to reconnect player: %s", oldPlayerID)

	sess, ok := s.sessions[connID]
	if !ok {
		return nil
	}
	g, ok := s.graceTimers[oldPlayerID]
	if !ok {
		s.metrics.IncInvalidToken()
		return ErrInvalidToken
	}
	if sess.playerID != "" && sess.playerID != oldPlayerID {
		return ErrAlreadyBound
	}
	g.t.Stop()
	delete(s.graceTimers, oldPlayerID)

	room, p := s.rooms.FindByPlayer(oldPlayerID)
	if p == nil {
		// 房间已在宽限期内被删除
		s.metrics.IncInvalidToken()
		return ErrInvalidToken
	}
	p.ConnID = connID
	sess.playerID = oldPlayerID
	s.metrics.IncReconnect()
	Log.Infof("player reconnected: %s", oldPlayerID)

	snap := room.Snapshot()
	s.sendLocked(connID, EvtJoinSuccess, snap)
	if room.Active {
		s.sendLocked(connID, EvtStart, snap)
	}
	return nil
}

// Disconnect 连接断开：已绑定玩家进入宽限期，到期后才真正移除
func (s *Server) Disconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[connID]
	if !ok {
		return
	}
	delete(s.sessions, connID)
	if sess.playerID == "" {
		Log.Infof("connection %s disconnected without a player token", connID)
		return
	}

	pid := sess.playerID
	if old, ok := s.graceTimers[pid]; ok {
		old.t.Stop()
	}
	Log.Infof("grace period started for player: %s", pid)
	g := &graceTimer{}
	g.t = s.clock.AfterFunc(s.cfg.GracePeriod, func() { s.expireGrace(pid, g) })
	s.graceTimers[pid] = g
}

func (s *Server) expireGrace(playerID string, g *graceTimer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 已被重连取消或被更新的定时器替换
	if s.graceTimers[playerID] != g {
		return
	}
	delete(s.graceTimers, playerID)
	Log.Infof("grace period ended for %s, cleaning up", playerID)

	room, _ := s.rooms.FindByPlayer(playerID)
	if room == nil {
		return
	}
	i, _ := room.playerByID(playerID)
	Log.Infof("removing player %s from room %s", playerID, room.Name)
	if room.removeAt(i) {
		Log.Infof("host disconnected, new host is %s", room.HostID)
	}
	if len(room.Players) == 0 {
		s.deleteRoomLocked(room)
		return
	}
	s.broadcastLocked(room, EvtLobbyUpdate, room.Snapshot())
}

// deleteRoomLocked 从注册表移除房间，并解除仍在线玩家的绑定
func (s *Server) deleteRoomLocked(r *Room) {
	for _, p := range r.Players {
		if sess, ok := s.sessions[p.ConnID]; ok && sess.playerID == p.ID {
			sess.playerID = ""
		}
	}
	s.rooms.Delete(r.ID)
	s.metrics.IncRoomDeleted()
	Log.Infof("room %s (%s) deleted", r.Name, r.ID)
}
