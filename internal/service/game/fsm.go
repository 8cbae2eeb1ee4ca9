package game

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// MachineOptions 控制会话协程的推进节奏
type MachineOptions struct {
	// 每次推进的间隔，同时作为固定步长
	TickInterval time.Duration
	// 每隔多少步向客户端推送一次快照
	BroadcastEvery int
}

func DefaultMachineOptions() MachineOptions {
	return MachineOptions{
		TickInterval:   time.Second / 30,
		BroadcastEvery: 3,
	}
}

// GameMachine 把一局比赛放进独立协程，所有请求与推进都经由 reqCh 串行处理
type GameMachine struct {
	sessionID string
	match     *Match
	opts      MachineOptions

	// 这是客户端请求汇总的通道
	reqCh chan RequestWrapper
	// 结束通道，用于通知游戏状态机退出事件循环
	doneCh chan struct{}
	// 已退出事件循环时关闭
	stoppedCh chan struct{}

	// 当前连接的人类客户端，同一时间只保留一个
	client chan ResponseWrapper

	createdAt  time.Time
	lastActive atomic.Int64
	connected  atomic.Bool
}

var ErrMachineStopped = errors.New("会话已关闭")

func NewGameMachine(sessionID string, match *Match, opts MachineOptions, doneCh chan struct{}) *GameMachine {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultMachineOptions().TickInterval
	}
	if opts.BroadcastEvery <= 0 {
		opts.BroadcastEvery = 1
	}

	gm := &GameMachine{
		sessionID: sessionID,
		match:     match,
		opts:      opts,
		reqCh:     make(chan RequestWrapper, 64),
		doneCh:    doneCh,
		stoppedCh: make(chan struct{}),
		createdAt: time.Now(),
	}

	gm.touch()

	match.Subscribe(gm.forwardEvent)

	return gm
}

func (gm *GameMachine) GetReqCh() chan RequestWrapper {
	return gm.reqCh
}

func (gm *GameMachine) touch() {
	gm.lastActive.Store(time.Now().UnixNano())
}

func (gm *GameMachine) Start() {
	defer close(gm.stoppedCh)

	ticker := time.NewTicker(gm.opts.TickInterval)
	defer ticker.Stop()

	dt := gm.opts.TickInterval.Seconds()
	ticks := 0

	zap.L().Info(
		"会话状态机启动",
		zap.String("session_id", gm.sessionID),
		zap.String("match_id", gm.match.ID()),
	)

	for {
		select {
		case req := <-gm.reqCh:
			gm.handle(req)

		case <-ticker.C:
			// 大厅阶段没有可推进的内容
			if gm.match.Stage() == STAGE_LOBBY {
				continue
			}

			gm.match.Step(dt)

			ticks++
			if ticks%gm.opts.BroadcastEvery == 0 {
				gm.pushSnapshot()
			}

		case <-gm.doneCh:
			zap.L().Info(
				"收到退出信号，结束会话状态机",
				zap.String("session_id", gm.sessionID),
			)

			gm.send(WrapResponse(RESP_EXIT_GAME, ExitGameResponse{SessionID: gm.sessionID}))
			gm.client = nil
			gm.connected.Store(false)

			return
		}
	}
}

func (gm *GameMachine) handle(req RequestWrapper) {
	gm.touch()

	switch req.ReqType {
	case REQ_JOIN_GAME:
		gm.handleJoin(req)
		return

	case REQ_EXIT_GAME:
		gm.handleExit(req)
		return

	case REQ_SYNC:
		if sync := TryUnwrapSyncRequest(req); sync != nil && sync.ReplyCh != nil {
			select {
			case sync.ReplyCh <- gm.match.Snapshot():
			default:
				zap.L().Warn("快照请求无人接收", zap.String("session_id", gm.sessionID))
			}
		}
		return
	}

	cmd, ok := toCommand(req)
	if !ok {
		gm.send(WrapErrResponse(ErrUnknownCommand.Error()))
		return
	}

	if err := gm.match.Handle(cmd); err != nil {
		zap.L().Debug(
			"处理请求失败",
			zap.String("session_id", gm.sessionID),
			zap.String("stage", gm.match.Stage()),
			zap.String("request_type", req.ReqType),
			zap.Error(err),
		)

		gm.send(WrapErrResponse(err.Error()))
		return
	}

	// 方向键输入频繁，不逐条回复
	if req.ReqType != REQ_INPUT {
		gm.send(WrapResponse(RESP_ACTION, ActionResponse{RequestType: req.ReqType, Accepted: true}))
		gm.pushSnapshot()
	}
}

func (gm *GameMachine) handleJoin(req RequestWrapper) {
	join := TryUnwrapJoinGameRequest(req)
	if join == nil || join.RespCh == nil {
		zap.L().Warn("无效的加入请求", zap.String("session_id", gm.sessionID))
		return
	}

	// 重连时旧连接收到退出通知后自行关闭
	if gm.client != nil && gm.client != join.RespCh {
		zap.L().Info("新连接替换旧连接", zap.String("session_id", gm.sessionID))
		gm.send(WrapResponse(RESP_EXIT_GAME, ExitGameResponse{SessionID: gm.sessionID}))
	}

	gm.client = join.RespCh
	gm.connected.Store(true)

	if gm.match.Stage() == STAGE_LOBBY {
		if err := gm.match.Start(); err != nil {
			gm.send(WrapErrResponse(err.Error()))
			return
		}
	}

	resp := JoinGameResponse{SessionID: gm.sessionID}
	if human := gm.match.Human(); human != nil {
		resp.PlayerID = human.ID
	}
	resp.Snapshot = gm.match.Snapshot().RedactFor(resp.PlayerID)

	gm.send(WrapResponse(RESP_JOIN_GAME, resp))

	zap.L().Info(
		"玩家加入会话",
		zap.String("session_id", gm.sessionID),
		zap.String("player_id", resp.PlayerID),
	)
}

func (gm *GameMachine) handleExit(req RequestWrapper) {
	exit := TryUnwrapExitGameRequest(req)
	if exit == nil {
		return
	}

	resp := WrapResponse(RESP_EXIT_GAME, ExitGameResponse{SessionID: gm.sessionID})

	// 只有当前连接的退出才会解除绑定，旧连接的迟到退出被忽略
	if exit.RespCh != nil && exit.RespCh == gm.client {
		gm.match.SetIntent(Intent{})
		gm.send(resp)
		gm.client = nil
		gm.connected.Store(false)

		zap.L().Info("玩家离开会话", zap.String("session_id", gm.sessionID))
		return
	}

	if exit.RespCh != nil {
		select {
		case exit.RespCh <- resp:
		default:
		}
	}
}

// send 不阻塞状态机，客户端处理不过来时丢弃响应
func (gm *GameMachine) send(resp ResponseWrapper) {
	if gm.client == nil {
		return
	}

	select {
	case gm.client <- resp:
	default:
		zap.L().Warn(
			"客户端响应通道已满，丢弃响应",
			zap.String("session_id", gm.sessionID),
			zap.String("resp_type", resp.RespType),
		)
	}
}

func (gm *GameMachine) viewer() *Player {
	return gm.match.Human()
}

func (gm *GameMachine) pushSnapshot() {
	if gm.client == nil {
		return
	}

	viewerID := ""
	if v := gm.viewer(); v != nil {
		viewerID = v.ID
	}

	gm.send(WrapResponse(RESP_SNAPSHOT, gm.match.Snapshot().RedactFor(viewerID)))
}

func (gm *GameMachine) forwardEvent(ev Event) {
	if gm.client == nil {
		return
	}

	gm.send(WrapResponse(RESP_EVENT, ev.RedactFor(gm.viewer(), gm.match.Stage() == STAGE_GAME_OVER)))
}

// Snapshot 从其他协程查询完整快照
func (gm *GameMachine) Snapshot(ctx context.Context) (MatchSnapshot, error) {
	replyCh := make(chan MatchSnapshot, 1)

	req := RequestWrapper{
		ReqType:    REQ_SYNC,
		NativeData: &SyncRequest{ReplyCh: replyCh},
	}

	select {
	case gm.reqCh <- req:
	case <-gm.stoppedCh:
		return MatchSnapshot{}, ErrMachineStopped
	case <-ctx.Done():
		return MatchSnapshot{}, ctx.Err()
	}

	select {
	case snap := <-replyCh:
		return snap, nil
	case <-gm.stoppedCh:
		return MatchSnapshot{}, ErrMachineStopped
	case <-ctx.Done():
		return MatchSnapshot{}, ctx.Err()
	}
}

func (gm *GameMachine) SessionID() string {
	return gm.sessionID
}

func (gm *GameMachine) Connected() bool {
	return gm.connected.Load()
}

func (gm *GameMachine) LastActive() time.Time {
	return time.Unix(0, gm.lastActive.Load())
}

func (gm *GameMachine) CreatedAt() time.Time {
	return gm.createdAt
}

func (gm *GameMachine) Stopped() <-chan struct{} {
	return gm.stoppedCh
}
