package server

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// adminConfig 可热更新的运行参数；指针字段表示“可选”
type adminConfig struct {
	HostOnlyStart *bool  `json:"hostOnlyStart,omitempty"`
	GraceMs       *int64 `json:"graceMs,omitempty"`
	RoomDeleteMs  *int64 `json:"roomDeleteMs,omitempty"`
}

func (s *Server) currentAdminConfig() adminConfig {
	hostOnly := s.cfg.HostOnlyStart
	grace := s.cfg.GracePeriod.Milliseconds()
	del := s.cfg.RoomDeleteDelay.Milliseconds()
	return adminConfig{HostOnlyStart: &hostOnly, GraceMs: &grace, RoomDeleteMs: &del}
}

// HandleAdminConfig 提供运行参数的读取与更新
// GET  /admin/config  返回当前配置
// POST /admin/config  以 JSON 载荷更新部分字段，只影响之后创建的定时器
func HandleAdminConfig(s *Server) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		switch ctx.Request.Method {
		case http.MethodGet:
			s.mu.Lock()
			cur := s.currentAdminConfig()
			s.mu.Unlock()
			ctx.JSON(http.StatusOK, cur)
		case http.MethodPost:
			var body adminConfig
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
				return
			}
			if !validMs(body.GraceMs) || !validMs(body.RoomDeleteMs) {
				ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "durations must be positive and fit in time.Duration"})
				return
			}
			s.mu.Lock()
			if body.HostOnlyStart != nil {
				s.cfg.HostOnlyStart = *body.HostOnlyStart
			}
			if body.GraceMs != nil {
				s.cfg.GracePeriod = time.Duration(*body.GraceMs) * time.Millisecond
			}
			if body.RoomDeleteMs != nil {
				s.cfg.RoomDeleteDelay = time.Duration(*body.RoomDeleteMs) * time.Millisecond
			}
			Log.Infof("config updated: hostOnlyStart=%v grace=%s roomDelete=%s",
				s.cfg.HostOnlyStart, s.cfg.GracePeriod, s.cfg.RoomDeleteDelay)
			s.mu.Unlock()
			ctx.JSON(http.StatusOK, gin.H{"ok": true})
		default:
			ctx.AbortWithStatus(http.StatusMethodNotAllowed)
		}
	}
}

// maxDurationMs 转换为 time.Duration 时不会溢出的最大毫秒数
const maxDurationMs = math.MaxInt64 / int64(time.Millisecond)

// validMs 未提供的字段视为有效
func validMs(ms *int64) bool {
	return ms == nil || (*ms > 0 && *ms <= maxDurationMs)
}

// HandleRooms 列出所有房间快照（不含密码）
// GET /admin/rooms
func HandleRooms(s *Server) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"rooms": s.RoomSnapshots()})
	}
}

// HandleMetrics 输出运行指标
// GET /metrics
func HandleMetrics(s *Server) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		s.mu.Lock()
		rooms := s.rooms.Len()
		conns := len(s.sessions)
		s.mu.Unlock()
		ctx.JSON(http.StatusOK, gin.H{
			"rooms":       rooms,
			"connections": conns,
			"metrics":     s.metrics.Snapshot(),
		})
	}
}

// Routes 挂载全部 HTTP 路由
func Routes(r gin.IRouter, s *Server) {
	r.GET("/ws", HandleWS(s))
	r.GET("/healthz", func(ctx *gin.Context) { ctx.String(http.StatusOK, "ok") })
	r.GET("/metrics", HandleMetrics(s))
	r.GET("/admin/rooms", HandleRooms(s))
	r.GET("/admin/config", HandleAdminConfig(s))
	r.POST("/admin/config", HandleAdminConfig(s))
}
