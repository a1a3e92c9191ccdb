package worker

import (
	"context"
	"errors"
	"time"

	"github.com/paobai-next/internal/config"
	"github.com/paobai-next/internal/logger"
	"github.com/paobai-next/internal/queue"

	"github.com/hibiken/asynq"
)

const idleSessionSweepInterval = time.Minute

// Service 异步队列服务
type Service struct {
	name        string
	server      *asynq.Server
	mux         *asynq.ServeMux
	consumer    *Consumer
	idleTimeout time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	idleTimeout := time.Duration(cfg.Session.IdleCloseMinutes) * time.Minute
	return &Service{
		name:        "worker",
		server:      server,
		mux:         mux,
		consumer:    consumer,
		idleTimeout: idleTimeout,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.SessionService != nil && s.idleTimeout > 0 {
		go s.runIdleSessionSweep(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runIdleSessionSweep 周期性关闭长时间无动作的会话，释放被占用的餐桌
func (s *Service) runIdleSessionSweep(ctx context.Context) {
	runOnce := func() {
		closed, err := s.consumer.SessionService.CloseIdleSessions(s.idleTimeout, time.Now())
		if err != nil {
			logger.Warnw("worker_idle_session_sweep_failed", "error", err)
			return
		}
		if closed > 0 {
			logger.Infow("worker_idle_session_sweep_closed", "count", closed)
		}
	}
	runOnce()

	ticker := time.NewTicker(idleSessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
