package game

// 状态机对外通知的事件类型
const (
	EVENT_STAGE_CHANGED     = "StageChanged"
	EVENT_PLAYER_ELIMINATED = "PlayerEliminated"
	EVENT_TASK_COMPLETED    = "TaskCompleted"
	EVENT_PLAYER_VENTED     = "PlayerVented"
	EVENT_MEETING_STARTED   = "MeetingStarted"
	EVENT_VOTE_CAST         = "VoteCast"
	EVENT_MEETING_ENDED     = "MeetingEnded"
	EVENT_GAME_OVER         = "GameOver"
	EVENT_MATCH_RESTARTED   = "MatchRestarted"
)

type Event struct {
	Type     string `json:"type"`
	Stage    string `json:"stage,omitempty"`
	ActorID  string `json:"actor_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`
	TaskID   int    `json:"task_id,omitempty"`
	VentID   int    `json:"vent_id,omitempty"`
	Winner   string `json:"winner,omitempty"`

	// 仅 EVENT_MEETING_ENDED 携带
	Tally     map[string]int `json:"tally,omitempty"`
	SkipCount int            `json:"skip_count,omitempty"`
	Tie       bool           `json:"tie,omitempty"`
}

// Observer 在状态机所在的协程中被同步调用，不应阻塞
type Observer func(Event)

// RedactFor 隐藏会暴露内鬼身份的行动者，比赛结束或观察者本身是内鬼时保留
func (ev Event) RedactFor(viewer *Player, reveal bool) Event {
	if reveal || viewer == nil && ev.ActorID == "" {
		return ev
	}

	switch ev.Type {
	case EVENT_PLAYER_ELIMINATED, EVENT_PLAYER_VENTED:
		if viewer == nil || (viewer.ID != ev.ActorID && !viewer.IsImpostor()) {
			ev.ActorID = ""
		}
	}

	return ev
}
