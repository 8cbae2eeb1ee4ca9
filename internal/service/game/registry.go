package game

// Registry 按创建顺序保存本局所有玩家
type Registry struct {
	players []*Player
	byID    map[string]*Player
}

func NewRegistry(players ...*Player) *Registry {
	r := &Registry{
		players: make([]*Player, 0, len(players)),
		byID:    make(map[string]*Player, len(players)),
	}

	for _, p := range players {
		r.Add(p)
	}

	return r
}

func (r *Registry) Add(p *Player) {
	r.players = append(r.players, p)
	r.byID[p.ID] = p
}

// Players 返回内部切片，调用方不应修改切片本身
func (r *Registry) Players() []*Player {
	return r.players
}

func (r *Registry) Len() int {
	return len(r.players)
}

func (r *Registry) Get(id string) (*Player, bool) {
	p, ok := r.byID[id]
	return p, ok
}

func (r *Registry) Human() *Player {
	for _, p := range r.players {
		if p.IsHuman {
			return p
		}
	}

	return nil
}

// AssignRoles 洗牌后前 n 个玩家成为内鬼，其余为船员
func (r *Registry) AssignRoles(rng RandSource, impostorRatio float64) {
	shuffled := make([]*Player, len(r.players))
	copy(shuffled, r.players)

	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	numImpostors := ImpostorCount(len(shuffled), impostorRatio)

	for idx, p := range shuffled {
		if idx < numImpostors {
			p.Role = ROLE_IMPOSTOR
		} else {
			p.Role = ROLE_CREWMATE
		}
	}
}

// ResetAll 复活所有玩家并清空冷却，不改变身份与角色
func (r *Registry) ResetAll() {
	for _, p := range r.players {
		p.reset()
	}
}

// TickCooldowns 按经过的秒数递减玩家的两个冷却
func (r *Registry) TickCooldowns(p *Player, dt float64) {
	p.tickCooldowns(dt)
}

func (r *Registry) CountAlive() (impostors, crewmates int) {
	for _, p := range r.players {
		if !p.IsAlive {
			continue
		}

		if p.IsImpostor() {
			impostors++
		} else {
			crewmates++
		}
	}

	return impostors, crewmates
}

func (r *Registry) CountRole(role string) int {
	n := 0
	for _, p := range r.players {
		if p.Role == role {
			n++
		}
	}

	return n
}

func (r *Registry) AlivePlayers() []*Player {
	alive := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		if p.IsAlive {
			alive = append(alive, p)
		}
	}

	return alive
}
