package game

import (
	"go.uber.org/zap"
)

// 比赛总体分为 4 个阶段，分别是：
// 1. 大厅阶段（Lobby）：创建玩家，只在开局前存在
// 2. 游戏阶段（Playing）：玩家移动、做任务、内鬼伺机淘汰船员
// 3. 会议阶段（Meeting）：存活玩家限时投票，决定是否驱逐一名玩家
// 4. 结束阶段（GameOver）：胜负已分，等待重新开始
const (
	STAGE_LOBBY     = "Lobby"
	STAGE_PLAYING   = "Playing"
	STAGE_MEETING   = "Meeting"
	STAGE_GAME_OVER = "GameOver"
)

type StageHandler interface {
	Stage() string

	OnEnter(ctx *MatchContext)
	OnTick(ctx *MatchContext, dt float64)
	OnHandle(ctx *MatchContext, cmd any) error
	OnExit(ctx *MatchContext)

	SetOnSwitch(func(nextStage string))
}

// 所有阶段都接受方向键状态，仅游戏阶段会使用它
func handleIntent(ctx *MatchContext, cmd any) bool {
	c, ok := cmd.(IntentCommand)
	if !ok {
		return false
	}

	ctx.Intent = c.Intent

	return true
}

// 大厅阶段处理器
type lobbyStageHandler struct {
	onSwitch func(string)
}

func NewLobbyStageHandler() *lobbyStageHandler {
	return &lobbyStageHandler{}
}

func (lsh *lobbyStageHandler) Stage() string {
	return STAGE_LOBBY
}

func (lsh *lobbyStageHandler) OnEnter(ctx *MatchContext) {}

func (lsh *lobbyStageHandler) OnTick(ctx *MatchContext, dt float64) {}

func (lsh *lobbyStageHandler) OnHandle(ctx *MatchContext, cmd any) error {
	if handleIntent(ctx, cmd) {
		return nil
	}

	if _, ok := cmd.(StartCommand); ok {
		// 任务位置只在开局时分配一次
		ctx.Ledger.AssignLocations(ctx.World.TaskLocations(), ctx.Rng)
		ctx.resetRound()

		lsh.onSwitch(STAGE_PLAYING)

		return nil
	}

	return ErrWrongStage
}

func (lsh *lobbyStageHandler) OnExit(ctx *MatchContext) {}

func (lsh *lobbyStageHandler) SetOnSwitch(onSwitch func(string)) {
	lsh.onSwitch = onSwitch
}

// 游戏阶段处理器
type playStageHandler struct {
	onSwitch func(string)
}

func NewPlayStageHandler() *playStageHandler {
	return &playStageHandler{}
}

func (psh *playStageHandler) Stage() string {
	return STAGE_PLAYING
}

func (psh *playStageHandler) OnEnter(ctx *MatchContext) {
	// 开局或会议结束后立即检查一次，防止配置导致的开局即结束
	checkGameOver(ctx, psh.onSwitch)
}

// OnTick 先处理人类玩家，再按登记顺序处理 AI；
// 每个玩家的冷却、决策与副作用都在下一个玩家读取之前完成
func (psh *playStageHandler) OnTick(ctx *MatchContext, dt float64) {
	distance := ctx.Settings.PlayerSpeed * dt

	if human := ctx.Human(); human != nil {
		ctx.Registry.TickCooldowns(human, dt)
		move(human, ctx.Intent.Direction(), distance, ctx.World)
	}

	players := ctx.Registry.Players()

	for _, p := range players {
		if p.IsHuman {
			continue
		}

		ctx.Registry.TickCooldowns(p, dt)

		brain, ok := ctx.brains[p.ID]
		if !ok {
			brain = &agentBrain{}
			ctx.brains[p.ID] = brain
		}

		decision := brain.decide(p, players, ctx.Rule, ctx.World, ctx.Rng, dt)

		switch decision.Kind {
		case DECISION_ELIMINATE:
			if eliminate(ctx, p, decision.Target) && checkGameOver(ctx, psh.onSwitch) {
				return
			}

		case DECISION_PURSUE, DECISION_WANDER:
			moveToward(p, decision.Dest, distance, ctx.World)
		}
	}
}

func (psh *playStageHandler) OnHandle(ctx *MatchContext, cmd any) error {
	if handleIntent(ctx, cmd) {
		return nil
	}

	c, ok := cmd.(ActionCommand)
	if !ok {
		if isKnownCommand(cmd) {
			return ErrWrongStage
		}
		return ErrUnknownCommand
	}

	human := ctx.Human()
	if human == nil {
		return ErrNoHuman
	}

	if !human.IsAlive {
		return ErrPlayerDead
	}

	switch c.Kind {
	case ACTION_MEETING:
		return psh.callMeeting(ctx, human)

	case ACTION_TASK:
		return psh.completeNearbyTask(ctx, human)

	case ACTION_ELIMINATE:
		return psh.eliminateNearby(ctx, human)

	case ACTION_VENT:
		return psh.useVent(ctx, human, c.VentID)

	case ACTION_AUTO:
		// 会议 > 任务 > 淘汰，每次触发只执行其中一个
		if human.CanCallMeeting() {
			return psh.callMeeting(ctx, human)
		}

		if err := psh.completeNearbyTask(ctx, human); err == nil {
			return nil
		}

		if err := psh.eliminateNearby(ctx, human); err == nil {
			return nil
		}

		return ErrNothingToDo
	}

	return ErrUnknownCommand
}

func (psh *playStageHandler) callMeeting(ctx *MatchContext, caller *Player) error {
	if !caller.CanCallMeeting() {
		return ErrMeetingCooldown
	}

	caller.MeetingCooldown = ctx.Settings.MeetingCooldown
	ctx.meetingCaller = caller

	psh.onSwitch(STAGE_MEETING)

	return nil
}

func (psh *playStageHandler) completeNearbyTask(ctx *MatchContext, p *Player) error {
	task, ok := ctx.Ledger.FindNear(p.Pos, TASK_INTERACTION_RADIUS)
	if !ok || task.Completed {
		return ErrNoTaskNearby
	}

	ctx.Ledger.Complete(task.ID)

	zap.L().Debug(
		"任务完成",
		zap.String("match_id", ctx.MatchID),
		zap.Int("task_id", task.ID),
		zap.String("task_name", task.Name),
		zap.Float64("completion", ctx.Ledger.CompletionPercentage()),
	)

	ctx.emit(Event{Type: EVENT_TASK_COMPLETED, ActorID: p.ID, TaskID: task.ID})

	checkGameOver(ctx, psh.onSwitch)

	return nil
}

func (psh *playStageHandler) eliminateNearby(ctx *MatchContext, p *Player) error {
	if !ctx.Rule.CanEliminate(p) {
		return ErrNoTarget
	}

	target := FindTarget(p, ctx.Registry.Players(), ELIMINATION_RANGE)
	if !eliminate(ctx, p, target) {
		return ErrNoTarget
	}

	checkGameOver(ctx, psh.onSwitch)

	return nil
}

func (psh *playStageHandler) useVent(ctx *MatchContext, p *Player, ventID int) error {
	if !p.IsImpostor() {
		return ErrNoVent
	}

	from, ok := ctx.World.NearbyVent(p.Pos, VENT_INTERACTION_RADIUS)
	if !ok || len(from.ConnectsTo) == 0 {
		return ErrNoVent
	}

	destID := from.ConnectsTo[0]
	if ventID != 0 {
		destID = 0
		for _, id := range from.ConnectsTo {
			if id == ventID {
				destID = id
				break
			}
		}
	}

	dest, ok := ctx.World.Vent(destID)
	if !ok {
		return ErrNoVent
	}

	p.Pos = dest.Center()

	ctx.emit(Event{Type: EVENT_PLAYER_VENTED, ActorID: p.ID, VentID: dest.ID})

	return nil
}

func (psh *playStageHandler) OnExit(ctx *MatchContext) {
	ctx.Intent = Intent{}
}

func (psh *playStageHandler) SetOnSwitch(onSwitch func(string)) {
	psh.onSwitch = onSwitch
}

// eliminate 通过淘汰规则执行，成功时发出事件
func eliminate(ctx *MatchContext, actor, target *Player) bool {
	if !ctx.Rule.AttemptEliminate(actor, target) {
		return false
	}

	zap.L().Info(
		"玩家被淘汰",
		zap.String("match_id", ctx.MatchID),
		zap.String("actor", actor.Name),
		zap.String("target", target.Name),
	)

	ctx.emit(Event{Type: EVENT_PLAYER_ELIMINATED, ActorID: actor.ID, TargetID: target.ID})

	return true
}

// 会议阶段处理器
type meetingStageHandler struct {
	onSwitch func(string)
}

func NewMeetingStageHandler() *meetingStageHandler {
	return &meetingStageHandler{}
}

func (msh *meetingStageHandler) Stage() string {
	return STAGE_MEETING
}

func (msh *meetingStageHandler) OnEnter(ctx *MatchContext) {
	ctx.Resolver.Start(ctx.meetingCaller, ctx.Registry.Players())

	callerID := ""
	if ctx.meetingCaller != nil {
		callerID = ctx.meetingCaller.ID
	}

	zap.L().Info(
		"会议开始",
		zap.String("match_id", ctx.MatchID),
		zap.String("caller_id", callerID),
		zap.Int("participants", len(ctx.Resolver.Participants())),
	)

	ctx.emit(Event{Type: EVENT_MEETING_STARTED, ActorID: callerID})
}

func (msh *meetingStageHandler) OnTick(ctx *MatchContext, dt float64) {
	ctx.Resolver.Tick(dt)

	if ctx.Resolver.IsComplete() {
		msh.conclude(ctx)
	}
}

func (msh *meetingStageHandler) conclude(ctx *MatchContext) {
	outcome, ok := ctx.Resolver.Resolve()
	if !ok {
		return
	}

	ev := Event{
		Type:      EVENT_MEETING_ENDED,
		Tally:     outcome.Tally,
		SkipCount: outcome.SkipCount,
		Tie:       outcome.Tie,
	}

	if outcome.Ejected != nil {
		outcome.Ejected.IsAlive = false
		ev.TargetID = outcome.Ejected.ID

		zap.L().Info(
			"会议结果：玩家被驱逐",
			zap.String("match_id", ctx.MatchID),
			zap.String("ejected", outcome.Ejected.Name),
			zap.String("role", outcome.Ejected.Role),
		)
	} else {
		zap.L().Info(
			"会议结果：无人出局",
			zap.String("match_id", ctx.MatchID),
			zap.Bool("tie", outcome.Tie),
			zap.Int("skip_count", outcome.SkipCount),
		)
	}

	ctx.Resolver.Reset()
	ctx.meetingCaller = nil

	ctx.emit(ev)

	if checkGameOver(ctx, msh.onSwitch) {
		return
	}

	msh.onSwitch(STAGE_PLAYING)
}

func (msh *meetingStageHandler) OnHandle(ctx *MatchContext, cmd any) error {
	if handleIntent(ctx, cmd) {
		return nil
	}

	c, ok := cmd.(VoteCommand)
	if !ok {
		if isKnownCommand(cmd) {
			return ErrWrongStage
		}
		return ErrUnknownCommand
	}

	human := ctx.Human()
	if human == nil {
		return ErrNoHuman
	}

	if !ctx.Resolver.CastVote(human.ID, c.TargetID) {
		return ErrInvalidVote
	}

	ctx.emit(Event{Type: EVENT_VOTE_CAST, ActorID: human.ID, TargetID: c.TargetID})

	// 人类投票后为尚未投票的 AI 补票
	ctx.Resolver.SimulateAutonomousVotes(ctx.Rng)

	// 投票完成后仍停留在会议阶段，由下一次 OnTick 结算
	return nil
}

func (msh *meetingStageHandler) OnExit(ctx *MatchContext) {}

func (msh *meetingStageHandler) SetOnSwitch(onSwitch func(string)) {
	msh.onSwitch = onSwitch
}

// 结束阶段处理器
type gameOverStageHandler struct {
	onSwitch func(string)
}

func NewGameOverStageHandler() *gameOverStageHandler {
	return &gameOverStageHandler{}
}

func (gsh *gameOverStageHandler) Stage() string {
	return STAGE_GAME_OVER
}

func (gsh *gameOverStageHandler) OnEnter(ctx *MatchContext) {
	zap.L().Info(
		"比赛结束",
		zap.String("match_id", ctx.MatchID),
		zap.String("winner", ctx.Winner),
	)

	ctx.emit(Event{Type: EVENT_GAME_OVER, Winner: ctx.Winner})
}

func (gsh *gameOverStageHandler) OnTick(ctx *MatchContext, dt float64) {}

func (gsh *gameOverStageHandler) OnHandle(ctx *MatchContext, cmd any) error {
	if handleIntent(ctx, cmd) {
		return nil
	}

	if _, ok := cmd.(RestartCommand); ok {
		ctx.resetRound()
		ctx.emit(Event{Type: EVENT_MATCH_RESTARTED})

		gsh.onSwitch(STAGE_PLAYING)

		return nil
	}

	if isKnownCommand(cmd) {
		return ErrWrongStage
	}

	return ErrUnknownCommand
}

func (gsh *gameOverStageHandler) OnExit(ctx *MatchContext) {}

func (gsh *gameOverStageHandler) SetOnSwitch(onSwitch func(string)) {
	gsh.onSwitch = onSwitch
}

func isKnownCommand(cmd any) bool {
	switch cmd.(type) {
	case StartCommand, IntentCommand, ActionCommand, VoteCommand, RestartCommand:
		return true
	}

	return false
}
