package game

// MeetingView 是会议阶段的只读视图
type MeetingView struct {
	CallerID     string            `json:"caller_id,omitempty"`
	TimeLeft     float64           `json:"time_left"`
	Participants []string          `json:"participants"`
	Votes        map[string]string `json:"votes"`
}

// MatchSnapshot 是比赛状态的值拷贝，可以安全地跨协程传递
type MatchSnapshot struct {
	MatchID              string       `json:"match_id"`
	Stage                string       `json:"stage"`
	Winner               string       `json:"winner,omitempty"`
	Players              []Player     `json:"players"`
	Tasks                []Task       `json:"tasks"`
	CompletionPercentage float64      `json:"completion_percentage"`
	Meeting              *MeetingView `json:"meeting,omitempty"`
}

func (m *Match) Snapshot() MatchSnapshot {
	ctx := m.ctx

	snap := MatchSnapshot{
		MatchID:              ctx.MatchID,
		Stage:                ctx.Stage,
		Winner:               ctx.Winner,
		Players:              make([]Player, 0, ctx.Registry.Len()),
		Tasks:                make([]Task, 0, len(ctx.Ledger.Tasks())),
		CompletionPercentage: ctx.Ledger.CompletionPercentage(),
	}

	for _, p := range ctx.Registry.Players() {
		snap.Players = append(snap.Players, *p)
	}

	for _, t := range ctx.Ledger.Tasks() {
		snap.Tasks = append(snap.Tasks, *t)
	}

	if ctx.Stage == STAGE_MEETING {
		view := &MeetingView{
			TimeLeft: ctx.Resolver.TimeLeft(),
			Votes:    ctx.Resolver.Votes(),
		}

		if caller := ctx.Resolver.Caller(); caller != nil {
			view.CallerID = caller.ID
		}

		for _, p := range ctx.Resolver.Participants() {
			view.Participants = append(view.Participants, p.ID)
		}

		snap.Meeting = view
	}

	return snap
}

// RedactFor 返回给指定玩家看的快照：
// 比赛结束前隐藏他人的身份（内鬼之间互相可见），会议中只保留自己的投票
func (s MatchSnapshot) RedactFor(viewerID string) MatchSnapshot {
	var viewer *Player
	for i := range s.Players {
		if s.Players[i].ID == viewerID {
			viewer = &s.Players[i]
			break
		}
	}

	out := s
	out.Players = make([]Player, len(s.Players))
	out.Tasks = append([]Task(nil), s.Tasks...)

	for i, p := range s.Players {
		out.Players[i] = sanitizePlayer(p, viewer, s.Stage == STAGE_GAME_OVER)
	}

	if s.Meeting != nil {
		view := *s.Meeting
		view.Participants = append([]string(nil), s.Meeting.Participants...)
		view.Votes = make(map[string]string)

		if target, ok := s.Meeting.Votes[viewerID]; ok {
			view.Votes[viewerID] = target
		}

		out.Meeting = &view
	}

	return out
}

func sanitizePlayer(p Player, viewer *Player, reveal bool) Player {
	if reveal {
		return p
	}

	if viewer != nil && (p.ID == viewer.ID || viewer.IsImpostor() && p.IsImpostor()) {
		return p
	}

	p.Role = ""

	return p
}
