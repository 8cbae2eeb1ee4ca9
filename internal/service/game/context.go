package game

import (
	"fmt"

	"go.uber.org/zap"
)

// MatchContext 是一局比赛的全部状态，由状态机独占
type MatchContext struct {
	MatchID  string
	Stage    string
	Winner   string
	Settings Settings

	Registry *Registry
	Ledger   *TaskLedger
	Resolver *MeetingResolver
	Rule     EliminationRule

	World World
	Rng   RandSource

	Intent Intent

	// 本次会议的召集者，在进入会议阶段时交给投票解析器
	meetingCaller *Player
	brains        map[string]*agentBrain
	observers     []Observer
}

func newMatchContext(settings Settings, world World, rng RandSource) *MatchContext {
	ctx := &MatchContext{
		MatchID:  GenID(),
		Stage:    STAGE_LOBBY,
		Settings: settings,
		Registry: NewRegistry(),
		Ledger:   NewTaskLedger(settings.NumTasks, rng),
		Resolver: NewMeetingResolver(settings.VotingTime),
		Rule:     NewEliminationRule(settings.EliminationCooldown),
		World:    world,
		Rng:      rng,
		brains:   make(map[string]*agentBrain),
	}

	// 第一个玩家由人类控制，其余为 AI
	ctx.Registry.Add(NewPlayer("Player 1", playerColors[0], true))
	for i := 1; i < settings.PlayerCount; i++ {
		color := playerColors[rng.IntN(len(playerColors))]
		p := NewPlayer(fmt.Sprintf("AI Player %d", i), color, false)
		ctx.Registry.Add(p)
		ctx.brains[p.ID] = &agentBrain{}
	}

	return ctx
}

func (ctx *MatchContext) Human() *Player {
	return ctx.Registry.Human()
}

func (ctx *MatchContext) emit(ev Event) {
	for _, ob := range ctx.observers {
		ob(ev)
	}
}

// positionPlayers 把所有玩家放到随机出生点
func (ctx *MatchContext) positionPlayers() {
	for _, p := range ctx.Registry.Players() {
		p.Pos = ctx.World.RandomSpawnPoint(ctx.Rng)
	}
}

// resetRound 完整重置一局，调用方只会观察到重置前或重置后的状态
func (ctx *MatchContext) resetRound() {
	ctx.Registry.ResetAll()
	ctx.positionPlayers()
	ctx.Registry.AssignRoles(ctx.Rng, ctx.Settings.ImpostorRatio)
	ctx.Ledger.Reset()
	ctx.Resolver.Reset()

	ctx.Winner = ""
	ctx.Intent = Intent{}
	ctx.meetingCaller = nil

	for id := range ctx.brains {
		ctx.brains[id] = &agentBrain{}
	}

	zap.L().Info(
		"比赛已重置",
		zap.String("match_id", ctx.MatchID),
		zap.Int("impostors", ctx.Registry.CountRole(ROLE_IMPOSTOR)),
		zap.Int("players", ctx.Registry.Len()),
	)
}

// evaluateWinner 船员胜利条件优先于内鬼胜利条件
func evaluateWinner(registry *Registry, ledger *TaskLedger) string {
	impostors, crewmates := registry.CountAlive()

	if impostors == 0 || ledger.AllCompleted() {
		return ROLE_CREWMATE
	}

	if impostors >= crewmates {
		return ROLE_IMPOSTOR
	}

	return ""
}

// checkGameOver 胜负已分时切换到结束阶段并返回 true
func checkGameOver(ctx *MatchContext, onSwitch func(string)) bool {
	winner := evaluateWinner(ctx.Registry, ctx.Ledger)
	if winner == "" {
		return false
	}

	ctx.Winner = winner
	onSwitch(STAGE_GAME_OVER)

	return true
}
