package game

import (
	"fmt"

	"go.uber.org/zap"
)

// Match 是单局比赛的入口，所有修改都必须在同一个协程中调用
type Match struct {
	ctx     *MatchContext
	handler StageHandler
}

func NewMatch(settings Settings, world World, rng RandSource) (*Match, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("创建比赛失败: %w", err)
	}

	if world == nil {
		return nil, fmt.Errorf("创建比赛失败: 缺少地图")
	}

	if rng == nil {
		rng = NewEntropySource()
	}

	m := &Match{
		ctx:     newMatchContext(settings, world, rng),
		handler: NewLobbyStageHandler(),
	}

	m.handler.SetOnSwitch(m.onSwitch)
	m.handler.OnEnter(m.ctx)

	return m, nil
}

func (m *Match) onSwitch(nextStage string) {
	m.ctx.Stage = nextStage
}

// Start 离开大厅，进入游戏阶段
func (m *Match) Start() error {
	return m.Handle(StartCommand{})
}

// Step 推进 dt 秒，只有当前阶段的逻辑会执行
func (m *Match) Step(dt float64) {
	if dt <= 0 {
		return
	}

	m.handler.OnTick(m.ctx, dt)
	m.applySwitch()
}

// Handle 处理一条命令，返回错误时状态未被修改
func (m *Match) Handle(cmd any) error {
	err := m.handler.OnHandle(m.ctx, cmd)
	if err != nil {
		zap.L().Debug(
			"处理命令失败",
			zap.String("match_id", m.ctx.MatchID),
			zap.String("stage", m.handler.Stage()),
			zap.String("command", fmt.Sprintf("%T", cmd)),
			zap.Error(err),
		)
	}

	m.applySwitch()

	return err
}

// applySwitch 一直切换到阶段稳定为止，OnEnter 中可能再次触发切换
func (m *Match) applySwitch() {
	for m.ctx.Stage != m.handler.Stage() {
		prev := m.handler.Stage()

		if !m.switchStage() {
			m.ctx.Stage = prev
			return
		}

		zap.L().Info(
			"比赛阶段切换",
			zap.String("match_id", m.ctx.MatchID),
			zap.String("from", prev),
			zap.String("to", m.ctx.Stage),
		)

		m.ctx.emit(Event{Type: EVENT_STAGE_CHANGED, Stage: m.ctx.Stage})

		m.handler.OnEnter(m.ctx)
	}
}

func (m *Match) switchStage() bool {
	var newHandler StageHandler

	switch m.ctx.Stage {
	case STAGE_PLAYING:
		newHandler = NewPlayStageHandler()
	case STAGE_MEETING:
		newHandler = NewMeetingStageHandler()
	case STAGE_GAME_OVER:
		newHandler = NewGameOverStageHandler()
	default:
		zap.L().Error(
			"未知的比赛阶段",
			zap.String("match_id", m.ctx.MatchID),
			zap.String("stage", m.ctx.Stage),
		)
		return false
	}

	m.handler.OnExit(m.ctx)

	newHandler.SetOnSwitch(m.onSwitch)
	m.handler = newHandler

	return true
}

// 以下为命令的便捷封装

func (m *Match) SetIntent(in Intent) {
	_ = m.Handle(IntentCommand{Intent: in})
}

// PerformAction 触发一次动作，ACTION_AUTO 按优先级选择
func (m *Match) PerformAction(kind string) bool {
	return m.Handle(ActionCommand{Kind: kind}) == nil
}

// Vent 使用附近的通风口，ventID 为 0 时前往第一个相连的通风口
func (m *Match) Vent(ventID int) bool {
	return m.Handle(ActionCommand{Kind: ACTION_VENT, VentID: ventID}) == nil
}

func (m *Match) CastVote(targetID string) bool {
	return m.Handle(VoteCommand{TargetID: targetID}) == nil
}

func (m *Match) Skip() bool {
	return m.CastVote(SKIP_VOTE)
}

func (m *Match) Restart() bool {
	return m.Handle(RestartCommand{}) == nil
}

// 以下为只读查询

func (m *Match) ID() string {
	return m.ctx.MatchID
}

func (m *Match) Stage() string {
	return m.ctx.Stage
}

func (m *Match) Winner() string {
	return m.ctx.Winner
}

func (m *Match) Settings() Settings {
	return m.ctx.Settings
}

func (m *Match) Registry() *Registry {
	return m.ctx.Registry
}

func (m *Match) Ledger() *TaskLedger {
	return m.ctx.Ledger
}

func (m *Match) Resolver() *MeetingResolver {
	return m.ctx.Resolver
}

func (m *Match) Human() *Player {
	return m.ctx.Human()
}

// Subscribe 注册事件观察者
func (m *Match) Subscribe(ob Observer) {
	if ob == nil {
		return
	}

	m.ctx.observers = append(m.ctx.observers, ob)
}
