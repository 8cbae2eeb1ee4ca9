package state

import (
	"impostor-2d-be/internal/config"
	"impostor-2d-be/internal/service"
	"impostor-2d-be/internal/service/game"
)

type AppState struct {
	Cfg        *config.AppConfig
	SessionSvc *service.SessionService
}

func NewAppState(
	cfg *config.AppConfig,
	sessionSvc *service.SessionService,
) *AppState {
	return &AppState{
		Cfg:        cfg,
		SessionSvc: sessionSvc,
	}
}

// SessionConfigFrom 把应用配置转换为会话服务参数
func SessionConfigFrom(cfg *config.AppConfig) service.SessionConfig {
	return service.SessionConfig{
		Settings: cfg.Game.Settings(),
		Machine: game.MachineOptions{
			TickInterval:   cfg.Session.TickInterval(),
			BroadcastEvery: cfg.Session.BroadcastEvery,
		},
		IdleTimeout:     cfg.Session.IdleTimeout(),
		CleanupInterval: cfg.Session.CleanupInterval(),
		MaxSessions:     cfg.Session.MaxSessions,
	}
}
