package service

import (
	"time"

	"impostor-2d-be/internal/service/dto"
	"impostor-2d-be/internal/service/game"
)

// 向会话协程投递请求的最长等待时间
const SESSION_REQUEST_TIMEOUT = 5 * time.Second

// isSessionExpired 有客户端连接的会话永不过期
func isSessionExpired(machine *game.GameMachine, now time.Time, idleTimeout time.Duration) bool {
	if machine == nil {
		return true
	}

	select {
	case <-machine.Stopped():
		return true
	default:
	}

	if idleTimeout <= 0 || machine.Connected() {
		return false
	}

	return now.Sub(machine.LastActive()) > idleTimeout
}

func summarize(machine *game.GameMachine) dto.SessionSummary {
	return dto.SessionSummary{
		SessionID:  machine.SessionID(),
		Connected:  machine.Connected(),
		CreatedAt:  machine.CreatedAt(),
		LastActive: machine.LastActive(),
	}
}
