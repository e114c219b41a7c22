package server

import (
	"math/rand"
	"sync"
	"time"
)

// Outbox 连接的发送端（非阻塞入队）
type Outbox interface {
	Enqueue(b []byte)
}

// session 传输层连接上下文；playerID 为空表示尚未绑定玩家
type session struct {
	id       string
	out      Outbox
	playerID string
}

// graceTimer 断线宽限定时器句柄；以指针身份区分新旧定时器
type graceTimer struct {
	t Timer
}

// Server 游戏服务：房间注册表、连接会话与宽限定时器
// 所有状态由 mu 串行化：消息处理、Tick 与定时器回调不会并发修改房间
type Server struct {
	mu sync.Mutex

	cfg   Config
	clock Clock
	rng   *rand.Rand

	rooms       *RoomManager
	sessions    map[string]*session    // connID → session
	graceTimers map[string]*graceTimer // playerID → pending cleanup

	metrics *Metrics
}

// Option 构造 Server 时的可选配置
type Option func(*Server)

// WithClock 替换定时器与 Tick 的时钟（测试中使用手动时钟）
func WithClock(c Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithRand 指定随机源，便于复现出生点与食物位置
func WithRand(r *rand.Rand) Option {
	return func(s *Server) { s.rng = r }
}

// NewServer 创建服务；注册表、会话与定时器都归该实例所有
func NewServer(cfg Config, opts ...Option) *Server {
	s := &Server{
		cfg:         cfg,
		clock:       realClock{},
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		rooms:       NewRoomManager(),
		sessions:    make(map[string]*session),
		graceTimers: make(map[string]*graceTimer),
		metrics:     &Metrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics 返回运行指标
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// sendLocked 向单个连接发送事件；连接不存在时忽略
func (s *Server) sendLocked(connID, typ string, payload any) {
	sess, ok := s.sessions[connID]
	if !ok {
		return
	}
	b, err := encodeEnvelope(typ, payload)
	if err != nil {
		Log.Errorf("encode %s: %v", typ, err)
		return
	}
	sess.out.Enqueue(b)
}

// broadcastLocked 向房间内所有在线玩家发送同一帧
func (s *Server) broadcastLocked(r *Room, typ string, payload any) {
	b, err := encodeEnvelope(typ, payload)
	if err != nil {
		Log.Errorf("encode %s: %v", typ, err)
		return
	}
	for _, p := range r.Players {
		if sess, ok := s.sessions[p.ConnID]; ok {
			sess.out.Enqueue(b)
		}
	}
}

// RoomSnapshots 返回所有房间的快照（管理接口使用）
func (s *Server) RoomSnapshots() []RoomState {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.rooms.All()
	out := make([]RoomState, 0, len(all))
	for _, r := range all {
		out = append(out, r.Snapshot())
	}
	return out
}
