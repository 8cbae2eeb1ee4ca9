package game

// AI 每一步的决策类型
const (
	DECISION_IDLE      = "Idle"
	DECISION_WANDER    = "Wander"
	DECISION_PURSUE    = "Pursue"
	DECISION_ELIMINATE = "Eliminate"
)

type Decision struct {
	Kind   string
	Dest   Vec2
	Target *Player
}

// agentBrain 保存单个 AI 的漫游状态，不属于玩家记录
type agentBrain struct {
	wanderTarget Vec2
	wanderTimer  float64
}

// decide 只决定做什么，不负责移动本身
func (b *agentBrain) decide(
	self *Player,
	players []*Player,
	rule EliminationRule,
	world World,
	rng RandSource,
	dt float64,
) Decision {
	if !self.IsAlive {
		return Decision{Kind: DECISION_IDLE}
	}

	b.wanderTimer -= dt
	if b.wanderTimer <= 0 {
		width, height := world.Bounds()
		b.wanderTarget = Vec2{X: rng.Float64() * width, Y: rng.Float64() * height}
		b.wanderTimer = WANDER_MIN_SECONDS + rng.Float64()*WANDER_SPAN_SECONDS
	}

	if rule.CanEliminate(self) {
		if target := closestCrewmate(self, players, DETECTION_RANGE); target != nil {
			if self.Pos.Dist(target.Pos) < self.Radius+target.Radius+ELIMINATION_REACH_PADDING {
				// 动手后立即重选漫游目标
				b.wanderTimer = 0
				return Decision{Kind: DECISION_ELIMINATE, Target: target}
			}

			return Decision{Kind: DECISION_PURSUE, Dest: target.Pos, Target: target}
		}
	}

	return Decision{Kind: DECISION_WANDER, Dest: b.wanderTarget}
}

func closestCrewmate(self *Player, players []*Player, rangeLimit float64) *Player {
	var closest *Player
	closestDist := rangeLimit

	for _, p := range players {
		if p == self || !p.IsAlive || p.IsImpostor() {
			continue
		}

		if d := self.Pos.Dist(p.Pos); d < closestDist {
			closestDist = d
			closest = p
		}
	}

	return closest
}

// Autopilot 代替人类玩家操作，用于无界面模拟
type Autopilot struct {
	rng RandSource
}

func NewAutopilot(rng RandSource) *Autopilot {
	return &Autopilot{rng: rng}
}

// Drive 在每一步之前调用，只通过 Match 的公开命令操作
func (a *Autopilot) Drive(m *Match) {
	human := m.ctx.Registry.Human()
	if human == nil || !human.IsAlive {
		m.SetIntent(Intent{})
		return
	}

	switch m.Stage() {
	case STAGE_MEETING:
		m.SetIntent(Intent{})
		if !m.ctx.Resolver.HasVoted(human.ID) {
			m.CastVote(chooseVote(human, m.ctx.Resolver.Participants(), a.rng))
		}

	case STAGE_PLAYING:
		if human.CanCallMeeting() {
			m.PerformAction(ACTION_AUTO)
			return
		}

		if human.IsImpostor() {
			a.driveImpostor(m, human)
			return
		}

		a.driveCrewmate(m, human)

	case STAGE_GAME_OVER:
		m.SetIntent(Intent{})
	}
}

func (a *Autopilot) driveCrewmate(m *Match, human *Player) {
	var (
		nearest *Task
		best    float64
	)

	for _, t := range m.ctx.Ledger.Tasks() {
		if t.Completed {
			continue
		}

		d := t.Location.Center().Dist(human.Pos)
		if nearest == nil || d < best {
			nearest = t
			best = d
		}
	}

	if nearest == nil {
		m.SetIntent(Intent{})
		return
	}

	if best < TASK_INTERACTION_RADIUS {
		m.SetIntent(Intent{})
		m.PerformAction(ACTION_TASK)
		return
	}

	m.SetIntent(intentToward(human.Pos, nearest.Location.Center()))
}

func (a *Autopilot) driveImpostor(m *Match, human *Player) {
	players := m.ctx.Registry.Players()

	if m.ctx.Rule.CanEliminate(human) && FindTarget(human, players, ELIMINATION_RANGE) != nil {
		m.PerformAction(ACTION_ELIMINATE)
		return
	}

	if target := closestCrewmate(human, players, 1e9); target != nil {
		m.SetIntent(intentToward(human.Pos, target.Pos))
		return
	}

	m.SetIntent(Intent{})
}

// intentToward 把目标方向转换为方向键状态
func intentToward(from, to Vec2) Intent {
	d := to.Sub(from)

	return Intent{
		Left:  d.X < -ARRIVE_THRESHOLD,
		Right: d.X > ARRIVE_THRESHOLD,
		Up:    d.Y < -ARRIVE_THRESHOLD,
		Down:  d.Y > ARRIVE_THRESHOLD,
	}
}
