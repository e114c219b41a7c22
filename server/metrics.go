package server

import (
	"sync/atomic"
)

// Metrics 记录服务运行期的关键指标（用于监控与调试）
type Metrics struct {
	TickCount      int64 // 统计的 Tick 次数
	TotalTickNs    int64 // Tick 累计耗时（纳秒）
	InputsAccepted int64 // 已分发的入站消息
	RateLimited    int64 // 因限流被丢弃的入站消息
	Malformed      int64 // 无法解析或类型未知的消息
	TurnsRejected  int64 // 被拒绝的转向
	RoomsCreated   int64
	RoomsDeleted   int64
	Reconnects     int64
	InvalidTokens  int64
}

func (m *Metrics) IncAccepted()     { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *Metrics) IncRateLimited()  { atomic.AddInt64(&m.RateLimited, 1) }
func (m *Metrics) IncMalformed()    { atomic.AddInt64(&m.Malformed, 1) }
func (m *Metrics) IncTurnRejected() { atomic.AddInt64(&m.TurnsRejected, 1) }
func (m *Metrics) IncRoomCreated()  { atomic.AddInt64(&m.RoomsCreated, 1) }
func (m *Metrics) IncRoomDeleted()  { atomic.AddInt64(&m.RoomsDeleted, 1) }
func (m *Metrics) IncReconnect()    { atomic.AddInt64(&m.Reconnects, 1) }
func (m *Metrics) IncInvalidToken() { atomic.AddInt64(&m.InvalidTokens, 1) }
func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":      tick,
		"avg_tick_ms":     avgMs,
		"inputs_accepted": atomic.LoadInt64(&m.InputsAccepted),
		"rate_limited":    atomic.LoadInt64(&m.RateLimited),
		"malformed":       atomic.LoadInt64(&m.Malformed),
		"turns_rejected":  atomic.LoadInt64(&m.TurnsRejected),
		"rooms_created":   atomic.LoadInt64(&m.RoomsCreated),
		"rooms_deleted":   atomic.LoadInt64(&m.RoomsDeleted),
		"reconnects":      atomic.LoadInt64(&m.Reconnects),
		"invalid_tokens":  atomic.LoadInt64(&m.InvalidTokens),
	}
}
