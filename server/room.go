package server

import "math/rand"

// Room 一局游戏会话：玩家、食物与大厅/进行中状态
type Room struct {
	ID       string
	Name     string
	Password string // 明文，仅用于比较，永不下发
	HostID   string
	Players  []*Player // 加入顺序，同时也是房主继承顺序
	Food     *Point
	Active   bool

	// round 每次回合结束与 playAgain 时递增，用于识别过期的删除定时器
	round int
}

// spawnFood 随机放置食物（允许与身体重叠，下一 Tick 自然被吃掉）
func (r *Room) spawnFood(board Board, rng *rand.Rand) {
	p := board.RandomPoint(rng)
	r.Food = &p
}

func (r *Room) playerByID(id string) (int, *Player) {
	for i, p := range r.Players {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}

func (r *Room) playerByConn(connID string) (int, *Player) {
	for i, p := range r.Players {
		if p.ConnID == connID {
			return i, p
		}
	}
	return -1, nil
}

// removeAt 移除玩家并在必要时按加入顺序移交房主
// 返回房主是否发生变化
func (r *Room) removeAt(i int) (hostChanged bool) {
	removed := r.Players[i]
	r.Players = append(r.Players[:i], r.Players[i+1:]...)
	if len(r.Players) > 0 && r.HostID == removed.ID {
		r.HostID = r.Players[0].ID
		return true
	}
	return false
}

func (r *Room) allDead() bool {
	for _, p := range r.Players {
		if p.Alive {
			return false
		}
	}
	return true
}

// Snapshot 生成可序列化的只读副本
func (r *Room) Snapshot() RoomState {
	st := RoomState{
		ID:          r.ID,
		Name:        r.Name,
		HasPassword: r.Password != "",
		HostID:      r.HostID,
		Players:     make([]PlayerState, 0, len(r.Players)),
		Active:      r.Active,
	}
	if r.Food != nil {
		f := *r.Food
		st.Food = &f
	}
	for _, p := range r.Players {
		st.Players = append(st.Players, PlayerState{
			ID:        p.ID,
			Name:      p.Name,
			Alive:     p.Alive,
			Direction: p.Dir,
			Color:     p.Color,
			Segments:  append([]Point(nil), p.Segments...),
		})
	}
	return st
}
