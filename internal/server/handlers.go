package server

import (
	"context"
	"net/http"
	"time"

	"github.com/jonathan/resume-optimizer/internal/logger"
)

// HealthResponse reports service and database state.
type HealthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	Generation bool   `json:"generation"`
	PDF        bool   `json:"pdf"`
}

// ExampleProfile is the sample candidate served by /api/example. Its keys are the ones the
// web form submits as user_profile.
var ExampleProfile = map[string]any{
	"姓名":   "张三",
	"年龄":   25,
	"学历":   "本科",
	"工作经验": "2年软件开发经验，熟悉Python、Java等编程语言",
	"技能":   "Python, JavaScript, 机器学习, 数据分析, 数据库设计",
	"自我介绍": "热爱编程，有良好的学习能力和团队合作精神",
	"申请职位": "AI工程师",
}

// handleHealth reports liveness. A failed database ping reports a degraded status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := HealthResponse{
		Status:     "ok",
		Database:   "ok",
		Generation: s.generator != nil,
		PDF:        s.pdf != nil,
	}
	if err := s.store.Ping(ctx); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("database ping failed")
		health.Status = "degraded"
		health.Database = "unavailable"
	}
	s.jsonResponse(w, http.StatusOK, health, "resume optimizer service is running")
}

// handleExample returns a sample profile for trying out generation.
func (s *Server) handleExample(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, ExampleProfile, "")
}
