package server

import (
	"context"
	"time"
)

// Run 启动全局 Tick 循环（单协程推进所有房间），ctx 取消时退出
// 单次 Tick 超时只会推迟下一次，不会并发执行
func (s *Server) Run(ctx context.Context) {
	ticks, stop := s.clock.NewTicker(s.cfg.TickInterval)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			s.Tick()
		}
	}
}

// Tick 推进所有进行中的房间一步，并广播结果
func (s *Server) Tick() {
	start := time.Now()
	s.mu.Lock()
	for _, room := range s.rooms.rooms {
		if room.Active {
			s.stepRoom(room)
		}
	}
	s.mu.Unlock()
	s.metrics.AddTick(time.Since(start).Nanoseconds())
}

type pendingMove struct {
	player *Player
	head   Point
}

// stepRoom 核心循环：计算新头部 → 越界/碰撞判定 → 回合结束检测 → 提交移动 → 广播
func (s *Server) stepRoom(room *Room) {
	board := s.cfg.Board
	if room.Food == nil {
		room.spawnFood(board, s.rng)
	}

	// 碰撞只与 Tick 开始时的身体比较，结果与玩家遍历顺序无关
	moves := make([]pendingMove, 0, len(room.Players))
	for _, p := range room.Players {
		if p.Dir == DirNone || !p.Alive {
			continue
		}
		head := board.Step(p.Head(), p.Dir)
		if !board.Contains(head) || hasCollision(head, p, room) {
			p.kill()
			continue
		}
		moves = append(moves, pendingMove{player: p, head: head})
	}

	// 两个头同时进入同一格：双方都死亡
	heads := make(map[Point]int, len(moves))
	for _, m := range moves {
		heads[m.head]++
	}
	for _, m := range moves {
		if heads[m.head] > 1 {
			m.player.kill()
		}
	}

	if room.allDead() {
		s.endRoundLocked(room)
		s.broadcastLocked(room, EvtUpdateState, room.Snapshot())
		return
	}

	moved := false
	for _, m := range moves {
		p := m.player
		if !p.Alive {
			continue
		}
		p.Segments = append([]Point{m.head}, p.Segments...)
		moved = true
		if room.Food != nil && m.head == *room.Food {
			room.spawnFood(board, s.rng)
		} else {
			p.Segments = p.Segments[:len(p.Segments)-1]
		}
	}
	if moved {
		for _, p := range room.Players {
			p.HasTurned = false
		}
	}

	s.broadcastLocked(room, EvtUpdateState, room.Snapshot())
}

// endRoundLocked 全员死亡：提示 playAgain，并在延迟后删除未被重新激活的房间
// 删除定时器不会被取消，触发时检查 Active 与回合号
func (s *Server) endRoundLocked(room *Room) {
	room.Active = false
	// 每次调度删除都使用新的回合号，旧定时器触发时一律失效
	room.round++
	round := room.round
	s.broadcastLocked(room, EvtPlayAgain, nil)
	s.clock.AfterFunc(s.cfg.RoomDeleteDelay, func() { s.expireRoom(room, round) })
	Log.Infof("round over in room %s, deletion scheduled in %s", room.ID, s.cfg.RoomDeleteDelay)
}

func (s *Server) expireRoom(room *Room, round int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rooms.Get(room.ID) != room || room.Active || room.round != round {
		return
	}
	s.broadcastLocked(room, EvtKickPlayer, nil)
	Log.Infof("lobby game deleted %s", room.ID)
	s.deleteRoomLocked(room)
}
