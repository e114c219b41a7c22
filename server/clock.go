package server

import "time"

// Timer 可取消的一次性定时任务
type Timer interface {
	Stop() bool
}

// Clock 调度延迟任务与周期 Tick；测试中可替换为手动推进的实现
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
	NewTicker(d time.Duration) (<-chan time.Time, func())
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (realClock) NewTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}
