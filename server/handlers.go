package server

// CreateRoom 创建房间，创建者成为房主并加入
func (s *Server) CreateRoom(connID, roomName, password, playerName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[connID]
	if !ok {
		return nil
	}
	if s.rooms.FindByName(roomName) != nil {
		return ErrRoomNameConflict
	}
	s.vacateLocked(sess)

	p := newPlayer(connID, playerName, s.cfg.Board, s.rng)
	room, err := s.rooms.Create(roomName, password, p.ID)
	if err != nil {
		return err
	}
	room.Players = append(room.Players, p)
	sess.playerID = p.ID
	s.metrics.IncRoomCreated()
	Log.Infof("room %q created by %s", roomName, p.ID)

	s.sendLocked(connID, EvtSetToken, p.ID)
	s.sendLocked(connID, EvtJoinSuccess, room.Snapshot())
	return nil
}

// JoinRoom 按房间名加入；进行中的房间直接进入游戏
func (s *Server) JoinRoom(connID, roomName, password, playerName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[connID]
	if !ok {
		return nil
	}
	room := s.rooms.FindByName(roomName)
	if room == nil {
		return ErrRoomNotFound
	}
	if room.Password != "" && room.Password != password {
		return ErrBadCredentials
	}
	// 已在该房间内：拒绝，避免离开旧座位时把房间删掉
	if sess.playerID != "" {
		if _, p := room.playerByID(sess.playerID); p != nil {
			return ErrAlreadyBound
		}
	}
	s.vacateLocked(sess)

	p := newPlayer(connID, playerName, s.cfg.Board, s.rng)
	sess.playerID = p.ID
	room.Players = append(room.Players, p)
	Log.Infof("%s joined room %q", p.ID, roomName)

	s.sendLocked(connID, EvtSetToken, p.ID)
	snap := room.Snapshot()
	s.broadcastLocked(room, EvtLobbyUpdate, snap)
	if room.Active {
		s.sendLocked(connID, EvtStart, snap)
	}
	return nil
}

// LeaveRoom 通过连接匹配移除调用者
func (s *Server) LeaveRoom(connID, roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.rooms.Get(roomID)
	if room == nil {
		return
	}
	s.leaveLocked(room, connID)
}

func (s *Server) leaveLocked(room *Room, connID string) {
	i, p := room.playerByConn(connID)
	if p == nil {
		return
	}
	Log.Infof("player %s is leaving room %s", p.ID, room.Name)
	if sess, ok := s.sessions[connID]; ok && sess.playerID == p.ID {
		sess.playerID = ""
	}
	hostChanged := room.removeAt(i)
	if len(room.Players) == 0 {
		s.deleteRoomLocked(room)
		return
	}
	if hostChanged {
		Log.Infof("host left, new host is now %s", room.HostID)
	}
	s.broadcastLocked(room, EvtLobbyUpdate, room.Snapshot())
}

// vacateLocked 一个连接最多对应一名玩家：先离开旧房间
func (s *Server) vacateLocked(sess *session) {
	if sess.playerID == "" {
		return
	}
	if room, _ := s.rooms.FindByPlayer(sess.playerID); room != nil {
		s.leaveLocked(room, sess.id)
	}
	sess.playerID = ""
}

// StartGame 开始回合
func (s *Server) StartGame(connID, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.rooms.Get(roomID)
	if room == nil {
		return nil
	}
	if s.cfg.HostOnlyStart {
		if _, p := room.playerByConn(connID); p == nil || p.ID != room.HostID {
			return ErrNotHost
		}
	}
	room.Active = true
	Log.Infof("lobby started game: %s", roomID)
	s.broadcastLocked(room, EvtStart, room.Snapshot())
	return nil
}

// PlayAgain 重置房间内所有玩家并重新开始
func (s *Server) PlayAgain(connID, roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.rooms.Get(roomID)
	if room == nil {
		return
	}
	room.Active = true
	room.round++
	room.spawnFood(s.cfg.Board, s.rng)
	for _, p := range room.Players {
		p.respawn(s.cfg.Board, s.rng)
	}
	Log.Infof("room %s has been reset for play again", room.ID)
	s.broadcastLocked(room, EvtUpdateState, room.Snapshot())
}

// ChangeDirection 记录转向意图，在下一 Tick 生效
// 同一 Tick 内第二次转向或 180° 掉头返回 ErrInvalidTurn
func (s *Server) ChangeDirection(connID, roomID, direction string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.rooms.Get(roomID)
	if room == nil {
		return nil
	}
	_, p := room.playerByConn(connID)
	if p == nil {
		return nil
	}
	dir, ok := ParseDirection(direction)
	if !ok || !p.Alive || p.HasTurned || dir == p.Dir.Opposite() {
		s.metrics.IncTurnRejected()
		return ErrInvalidTurn
	}
	p.Dir = dir
	p.HasTurned = true
	return nil
}
