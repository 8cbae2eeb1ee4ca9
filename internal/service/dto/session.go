package dto

import (
	"time"

	"impostor-2d-be/internal/service/game"
)

type CreateSessionRequest struct {
	// 可选，覆盖默认的玩家人数
	PlayerCount int `json:"player_count,omitempty"`
	// 可选，固定随机种子便于复现
	Seed *uint64 `json:"seed,omitempty"`
}

type CreateSessionResponse struct {
	SessionID string        `json:"session_id"`
	MatchID   string        `json:"match_id"`
	Settings  game.Settings `json:"settings"`
}

type SessionSummary struct {
	SessionID  string    `json:"session_id"`
	Connected  bool      `json:"connected"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// SessionInfo 对外展示时身份信息已按人类玩家的视角隐藏
type SessionInfo struct {
	SessionSummary
	Snapshot game.MatchSnapshot `json:"snapshot"`
}
