package server

import "time"

// Config 服务端运行参数
type Config struct {
	Addr    string
	LogFile string

	Board Board

	TickInterval    time.Duration
	GracePeriod     time.Duration // 断线后保留身份的时长
	RoomDeleteDelay time.Duration // 全员死亡后多久删除房间

	// 每连接入站限流
	InputRate  float64
	InputBurst int

	AllowedOrigins []string
	HostOnlyStart  bool
}

func DefaultConfig() Config {
	return Config{
		Addr:    ":3000",
		LogFile: "app.log",
		Board: Board{
			Width:       640,
			Height:      480,
			SegmentSize: 20,
		},
		TickInterval:    100 * time.Millisecond,
		GracePeriod:     5 * time.Second,
		RoomDeleteDelay: 30 * time.Second,
		InputRate:       30,
		InputBurst:      60,
		AllowedOrigins:  []string{"*"},
	}
}
