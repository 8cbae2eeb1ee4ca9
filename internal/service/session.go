package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"impostor-2d-be/internal/service/dto"
	"impostor-2d-be/internal/service/game"
	"impostor-2d-be/internal/service/shipmap"

	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("会话不存在")
	ErrTooManySessions = errors.New("会话数量已达上限")
	ErrSessionBusy     = errors.New("会话繁忙，请稍后再试")
)

// SessionConfig 是会话服务的运行参数
type SessionConfig struct {
	Settings game.Settings
	Machine  game.MachineOptions

	// 无客户端连接超过该时长的会话会被清理
	IdleTimeout     time.Duration
	CleanupInterval time.Duration
	MaxSessions     int
}

type SessionService struct {
	cfg   SessionConfig
	state *sessionServiceState
}

type sessionServiceState struct {
	mu sync.RWMutex

	// 均为从 ID 到实体的映射
	sessions map[string]*sessionEntry

	cleanUpDone chan struct{}
	closeOnce   sync.Once
}

type sessionEntry struct {
	machine *game.GameMachine
	doneCh  chan struct{}
}

func NewSessionService(cfg SessionConfig) *SessionService {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}

	state := &sessionServiceState{
		sessions:    make(map[string]*sessionEntry),
		cleanUpDone: make(chan struct{}),
	}

	ss := &SessionService{
		cfg:   cfg,
		state: state,
	}

	// 启动一个 goroutine 定期清理闲置的会话
	go ss.startCleanupLoop()

	return ss
}

func (ss *SessionService) startCleanupLoop() {
	ticker := time.NewTicker(ss.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ss.state.cleanUpDone:
			return

		case now := <-ticker.C:
			ss.cleanup(now)
		}
	}
}

// cleanup 关闭所有闲置超时的会话，返回清理的数量
func (ss *SessionService) cleanup(now time.Time) int {
	ss.state.mu.Lock()
	defer ss.state.mu.Unlock()

	removed := 0

	for sessionID, entry := range ss.state.sessions {
		if !isSessionExpired(entry.machine, now, ss.cfg.IdleTimeout) {
			continue
		}

		zap.S().Infof("会话 %s 闲置超时，开始清理", sessionID)

		close(entry.doneCh)
		delete(ss.state.sessions, sessionID)

		removed++
	}

	return removed
}

func (ss *SessionService) Close() {
	ss.state.closeOnce.Do(func() {
		close(ss.state.cleanUpDone)

		ss.state.mu.Lock()
		defer ss.state.mu.Unlock()

		for sessionID, entry := range ss.state.sessions {
			close(entry.doneCh)
			delete(ss.state.sessions, sessionID)
		}

		zap.L().Info("会话服务已关闭")
	})
}

func (ss *SessionService) CreateSession(req dto.CreateSessionRequest) (dto.CreateSessionResponse, error) {
	settings := ss.cfg.Settings
	if req.PlayerCount > 0 {
		settings.PlayerCount = req.PlayerCount
	}

	var rng game.RandSource
	if req.Seed != nil {
		rng = game.NewRandSource(*req.Seed)
	} else {
		rng = game.NewEntropySource()
	}

	match, err := game.NewMatch(settings, shipmap.NewDefault(rng), rng)
	if err != nil {
		return dto.CreateSessionResponse{}, err
	}

	ss.state.mu.Lock()
	defer ss.state.mu.Unlock()

	if ss.cfg.MaxSessions > 0 && len(ss.state.sessions) >= ss.cfg.MaxSessions {
		return dto.CreateSessionResponse{}, ErrTooManySessions
	}

	sessionID := game.GenShortID()

	doneCh := make(chan struct{})
	machine := game.NewGameMachine(sessionID, match, ss.cfg.Machine, doneCh)

	ss.state.sessions[sessionID] = &sessionEntry{
		machine: machine,
		doneCh:  doneCh,
	}

	// 每个会话一个独立的 goroutine
	go machine.Start()

	zap.S().Infof("会话 %s 已创建，玩家数 %d", sessionID, settings.PlayerCount)

	return dto.CreateSessionResponse{
		SessionID: sessionID,
		MatchID:   match.ID(),
		Settings:  settings,
	}, nil
}

func (ss *SessionService) lookup(sessionID string) (*sessionEntry, error) {
	ss.state.mu.RLock()
	defer ss.state.mu.RUnlock()

	entry := ss.state.sessions[sessionID]
	if entry == nil {
		return nil, ErrSessionNotFound
	}

	return entry, nil
}

// JoinSession 把客户端的响应通道交给会话，返回会话的请求通道
func (ss *SessionService) JoinSession(req *game.JoinGameRequest) (chan game.RequestWrapper, error) {
	if req == nil || req.SessionID == "" {
		return nil, errors.New("会话 ID 不能为空")
	}

	entry, err := ss.lookup(req.SessionID)
	if err != nil {
		return nil, err
	}

	reqCh := entry.machine.GetReqCh()

	zap.S().Debugf("会话 %s 收到加入请求", req.SessionID)

	reqTimer := time.NewTimer(SESSION_REQUEST_TIMEOUT)
	defer reqTimer.Stop()

	select {
	case reqCh <- game.RequestWrapper{ReqType: game.REQ_JOIN_GAME, NativeData: req}:
		return reqCh, nil

	case <-entry.machine.Stopped():
		return nil, ErrSessionNotFound

	case <-reqTimer.C:
		zap.S().Warnf("会话 %s 无法及时处理加入请求", req.SessionID)
		return nil, ErrSessionBusy
	}
}

func (ss *SessionService) GetSession(ctx context.Context, sessionID string) (dto.SessionInfo, error) {
	entry, err := ss.lookup(sessionID)
	if err != nil {
		return dto.SessionInfo{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, SESSION_REQUEST_TIMEOUT)
	defer cancel()

	snap, err := entry.machine.Snapshot(ctx)
	if err != nil {
		return dto.SessionInfo{}, fmt.Errorf("获取会话 %s 快照失败: %w", sessionID, err)
	}

	viewerID := ""
	for _, p := range snap.Players {
		if p.IsHuman {
			viewerID = p.ID
			break
		}
	}

	return dto.SessionInfo{
		SessionSummary: summarize(entry.machine),
		Snapshot:       snap.RedactFor(viewerID),
	}, nil
}

func (ss *SessionService) ListSessions() []dto.SessionSummary {
	ss.state.mu.RLock()
	defer ss.state.mu.RUnlock()

	out := make([]dto.SessionSummary, 0, len(ss.state.sessions))
	for _, entry := range ss.state.sessions {
		out = append(out, summarize(entry.machine))
	}

	return out
}

// CloseSession 主动结束一个会话
func (ss *SessionService) CloseSession(sessionID string) error {
	ss.state.mu.Lock()
	defer ss.state.mu.Unlock()

	entry := ss.state.sessions[sessionID]
	if entry == nil {
		return ErrSessionNotFound
	}

	close(entry.doneCh)
	delete(ss.state.sessions, sessionID)

	zap.S().Infof("会话 %s 已关闭", sessionID)

	return nil
}
