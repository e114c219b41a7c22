package server

import (
	"encoding/json"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// --- Clock ---

type fakeTimer struct {
	c       *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
	ticks  chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{ticks: make(chan time.Time)}
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{c: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) NewTicker(time.Duration) (<-chan time.Time, func()) {
	return c.ticks, func() {}
}

// Advance 推进时间并同步执行到期回调
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// --- Outbox ---

type fakeOutbox struct {
	mu   sync.Mutex
	msgs []Envelope
}

func (o *fakeOutbox) Enqueue(b []byte) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		panic(err)
	}
	o.mu.Lock()
	o.msgs = append(o.msgs, env)
	o.mu.Unlock()
}

func (o *fakeOutbox) types() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.msgs))
	for _, m := range o.msgs {
		out = append(out, m.Type)
	}
	return out
}

func (o *fakeOutbox) count(typ string) int {
	n := 0
	for _, t := range o.types() {
		if t == typ {
			n++
		}
	}
	return n
}

func (o *fakeOutbox) last(t *testing.T, typ string) Envelope {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.msgs) - 1; i >= 0; i-- {
		if o.msgs[i].Type == typ {
			return o.msgs[i]
		}
	}
	t.Fatalf("no %q message received, got %v", typ, o.msgs)
	return Envelope{}
}

func (o *fakeOutbox) lastRoom(t *testing.T, typ string) RoomState {
	t.Helper()
	var st RoomState
	require.NoError(t, json.Unmarshal(o.last(t, typ).Payload, &st))
	return st
}

func (o *fakeOutbox) reset() {
	o.mu.Lock()
	o.msgs = nil
	o.mu.Unlock()
}

// --- Server ---

type testClient struct {
	connID string
	out    *fakeOutbox
}

func newTestServer(t *testing.T) (*Server, *fakeClock) {
	t.Helper()
	clk := newFakeClock()
	s := NewServer(DefaultConfig(), WithClock(clk), WithRand(rand.New(rand.NewSource(42))))
	return s, clk
}

func connect(s *Server) *testClient {
	out := &fakeOutbox{}
	return &testClient{connID: s.Connect(out), out: out}
}

// token 返回 setToken 下发的玩家 ID
func (c *testClient) token(t *testing.T) string {
	t.Helper()
	var id string
	require.NoError(t, json.Unmarshal(c.out.last(t, EvtSetToken).Payload, &id))
	return id
}

// createRoom 创建房间并返回 roomID
func createRoom(t *testing.T, s *Server, c *testClient, name, password, player string) string {
	t.Helper()
	require.NoError(t, s.CreateRoom(c.connID, name, password, player))
	return c.out.lastRoom(t, EvtJoinSuccess).ID
}

func (s *Server) roomForTest(id string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms.Get(id)
}
