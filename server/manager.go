package server

import (
	"sort"

	"github.com/google/uuid"
)

// RoomManager 房间注册表：roomID → Room
// 本身不加锁，所有访问都在 Server.mu 之下进行
type RoomManager struct {
	rooms map[string]*Room
}

// NewRoomManager 创建空的房间注册表
func NewRoomManager() *RoomManager {
	return &RoomManager{rooms: make(map[string]*Room)}
}

// Create 以新 ID 创建房间；名称冲突返回 ErrRoomNameConflict
func (m *RoomManager) Create(name, password, hostID string) (*Room, error) {
	if m.FindByName(name) != nil {
		return nil, ErrRoomNameConflict
	}
	r := &Room{
		ID:       uuid.NewString(),
		Name:     name,
		Password: password,
		HostID:   hostID,
	}
	m.rooms[r.ID] = r
	return r, nil
}

// Get 按房间 ID 查找，不存在返回 nil
func (m *RoomManager) Get(id string) *Room {
	return m.rooms[id]
}

// FindByName 按房间名查找，不存在返回 nil
func (m *RoomManager) FindByName(name string) *Room {
	for _, r := range m.rooms {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// FindByPlayer 查找玩家所在房间
func (m *RoomManager) FindByPlayer(playerID string) (*Room, *Player) {
	for _, r := range m.rooms {
		if _, p := r.playerByID(playerID); p != nil {
			return r, p
		}
	}
	return nil, nil
}

// Delete 移除房间；重复删除无副作用
func (m *RoomManager) Delete(id string) {
	delete(m.rooms, id)
}

// Len 当前房间数
func (m *RoomManager) Len() int {
	return len(m.rooms)
}

// All 按房间名排序返回，便于稳定输出
func (m *RoomManager) All() []*Room {
	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
