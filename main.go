package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"wormarena/server"
)

// WormArena 入口：启动 HTTP + WebSocket 服务与全局 Tick 循环
func main() {
	cfg := server.DefaultConfig()
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}

	var origins, webDir string
	var logStdout bool
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "server listen address, e.g. :3000")
	flag.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file path")
	flag.BoolVar(&logStdout, "log-stdout", false, "also write info logs to stdout")
	flag.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "simulation tick interval")
	flag.DurationVar(&cfg.GracePeriod, "grace", cfg.GracePeriod, "disconnect grace period")
	flag.DurationVar(&cfg.RoomDeleteDelay, "room-delete", cfg.RoomDeleteDelay, "delay before deleting a finished room")
	flag.Float64Var(&cfg.InputRate, "input-rate", cfg.InputRate, "inbound messages per second per connection")
	flag.IntVar(&cfg.InputBurst, "input-burst", cfg.InputBurst, "inbound message burst per connection")
	flag.StringVar(&origins, "origins", strings.Join(cfg.AllowedOrigins, ","), "comma separated allowed origins, * for any")
	flag.StringVar(&webDir, "web", "web", "static client directory served at /")
	flag.BoolVar(&cfg.HostOnlyStart, "host-only-start", cfg.HostOnlyStart, "only the room host may start a round")
	flag.Parse()
	cfg.AllowedOrigins = strings.Split(origins, ",")

	// 使用第三方 zap 日志库写入日志文件（带滚动）
	if err := server.InitLogger(cfg.LogFile, logStdout); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	gs := server.NewServer(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gs.Run(ctx)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(cfg.AllowedOrigins))
	server.Routes(r, gs)
	// 前后端分离：其余路径映射到 web 目录的静态资源
	r.NoRoute(gin.WrapH(http.FileServer(http.Dir(webDir))))

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		server.Log.Infof("WormArena listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		server.Log.Errorf("shutdown: %v", err)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Upgrade", "Connection", "Sec-WebSocket-Key", "Sec-WebSocket-Version", "Sec-WebSocket-Extensions", "Sec-WebSocket-Protocol"},
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return cors.New(c)
		}
	}
	c.AllowOrigins = origins
	return cors.New(c)
}
