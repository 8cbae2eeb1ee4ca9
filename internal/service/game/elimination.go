package game

// EliminationRule 只校验身份、存活与冷却，不关心距离
type EliminationRule struct {
	// 成功淘汰后施加给行动者的冷却，单位秒
	Cooldown float64
}

func NewEliminationRule(cooldown float64) EliminationRule {
	return EliminationRule{Cooldown: cooldown}
}

func (EliminationRule) CanEliminate(actor *Player) bool {
	return actor != nil &&
		actor.IsImpostor() &&
		actor.IsAlive &&
		actor.EliminationCooldown <= 0
}

// AttemptEliminate 校验失败时不修改任何状态
func (er EliminationRule) AttemptEliminate(actor, target *Player) bool {
	if !er.CanEliminate(actor) {
		return false
	}

	if target == nil || target == actor || !target.IsAlive || target.IsImpostor() {
		return false
	}

	target.IsAlive = false
	actor.EliminationCooldown = er.Cooldown

	return true
}

// FindTarget 返回 actor 附近 rangeLimit 内第一个可被淘汰的玩家（按登记顺序）
func FindTarget(actor *Player, players []*Player, rangeLimit float64) *Player {
	for _, other := range players {
		if other == actor || !other.IsAlive || other.IsImpostor() {
			continue
		}

		if other.Pos.Dist(actor.Pos) < rangeLimit {
			return other
		}
	}

	return nil
}
