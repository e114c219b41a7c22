package server

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// Direction 移动方向（服务端权威解释客户端“意图”）
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

var directionNames = [...]string{"none", "up", "down", "left", "right"}

func (d Direction) String() string {
	if d < DirNone || d > DirRight {
		return "none"
	}
	return directionNames[d]
}

// ParseDirection 解析客户端方向字符串，未知值返回 false
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	}
	return DirNone, false
}

// Opposite 返回反方向；DirNone 的反方向仍是 DirNone
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	}
	return DirNone
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d, _ = ParseDirection(s)
	return nil
}

// Player 房间内的蠕虫实体（服务端权威状态）
// Segments[0] 为头部
type Player struct {
	ConnID    string // 传输层连接，重连后会被重新绑定
	ID        string // 持久身份，跨重连不变
	Name      string
	Alive     bool
	HasTurned bool // 本 Tick 内是否已转向
	Dir       Direction
	Color     string
	Segments  []Point
}

// Head 当前头部坐标
func (p *Player) Head() Point {
	return p.Segments[0]
}

// newPlayer 创建玩家：分配新的持久 ID、随机颜色与随机出生点
func newPlayer(connID, name string, board Board, rng *rand.Rand) *Player {
	p := &Player{
		ConnID: connID,
		ID:     uuid.NewString(),
		Name:   name,
		Color:  fmt.Sprintf("hsl(%d, 100%%, 50%%)", rng.Intn(360)),
	}
	p.respawn(board, rng)
	Log.Infof("player created: %s", p.ID)
	return p
}

// respawn 复活并放置到新的随机格子（单节身体，静止）
func (p *Player) respawn(board Board, rng *rand.Rand) {
	p.Alive = true
	p.HasTurned = false
	p.Dir = DirNone
	p.Segments = []Point{board.RandomPoint(rng)}
}

// kill 本回合内终止：停止移动
func (p *Player) kill() {
	p.Alive = false
	p.Dir = DirNone
}
