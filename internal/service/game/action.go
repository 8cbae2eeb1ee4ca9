package game

// 动作类型，ACTION_AUTO 按 会议 > 任务 > 淘汰 的优先级判定
const (
	ACTION_AUTO      = ""
	ACTION_MEETING   = "Meeting"
	ACTION_TASK      = "Task"
	ACTION_ELIMINATE = "Eliminate"
	ACTION_VENT      = "Vent"
)

// Intent 是方向键的按住状态
type Intent struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

func (in Intent) Direction() Vec2 {
	var d Vec2

	if in.Right {
		d.X++
	}
	if in.Left {
		d.X--
	}
	if in.Down {
		d.Y++
	}
	if in.Up {
		d.Y--
	}

	return d
}

// 以下为状态机可处理的命令

type StartCommand struct{}

type IntentCommand struct {
	Intent Intent
}

type ActionCommand struct {
	Kind string
	// 仅 ACTION_VENT 使用，0 表示第一个相连的通风口
	VentID int
}

type VoteCommand struct {
	// SKIP_VOTE 表示弃票
	TargetID string
}

type RestartCommand struct{}

// 以下为客户端请求与响应的数据结构

type JoinGameRequest struct {
	SessionID string               `json:"session_id"`
	RespCh    chan ResponseWrapper `json:"-"`
}

type JoinGameResponse struct {
	SessionID string        `json:"session_id"`
	PlayerID  string        `json:"player_id"`
	Snapshot  MatchSnapshot `json:"snapshot"`
}

type ExitGameRequest struct {
	RespCh chan ResponseWrapper `json:"-"`
}

type ExitGameResponse struct {
	SessionID string `json:"session_id"`
}

type InputRequest struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

type ActionRequest struct {
	Kind   string `json:"kind,omitempty"`
	VentID int    `json:"vent_id,omitempty"`
}

type VoteRequest struct {
	TargetID string `json:"target_id,omitempty"`
	Skip     bool   `json:"skip,omitempty"`
}

type RestartRequest struct{}

type SyncRequest struct {
	// 服务端内部查询时使用，客户端请求该字段为空
	ReplyCh chan MatchSnapshot `json:"-"`
}
