package game

import (
	"errors"
	"fmt"
)

// 交互距离等与地图尺度相关的常量
const (
	PLAYER_RADIUS = 20.0

	// 人类玩家与任务点的交互半径
	TASK_INTERACTION_RADIUS = 50.0
	// 人类玩家淘汰的判定距离
	ELIMINATION_RANGE = 50.0
	// AI 内鬼发现目标的距离
	DETECTION_RANGE = 150.0
	// AI 内鬼在 r1 + r2 + 该值 之内即可动手
	ELIMINATION_REACH_PADDING = 10.0
	// 通风口交互半径
	VENT_INTERACTION_RADIUS = 30.0

	// AI 漫游目标的重选间隔为 [min, min+span) 秒
	WANDER_MIN_SECONDS  = 2.0
	WANDER_SPAN_SECONDS = 3.0
	// AI 距离目标点小于该值时不再移动
	ARRIVE_THRESHOLD = 5.0

	// AI 投票时弃票的概率
	AI_SKIP_PROBABILITY = 0.2
)

// Settings 在一局比赛中保持不变
type Settings struct {
	// 每秒移动的距离
	PlayerSpeed   float64 `json:"player_speed"`
	ImpostorRatio float64 `json:"impostor_ratio"`
	MinPlayers    int     `json:"min_players"`
	MaxPlayers    int     `json:"max_players"`

	// 参与本局的总人数（含人类玩家）
	PlayerCount int `json:"player_count"`

	// 以下时长单位均为秒
	EliminationCooldown float64 `json:"elimination_cooldown"`
	MeetingCooldown     float64 `json:"meeting_cooldown"`
	VotingTime          float64 `json:"voting_time"`

	NumTasks int `json:"num_tasks"`
}

func DefaultSettings() Settings {
	return Settings{
		PlayerSpeed:         180,
		ImpostorRatio:       0.3,
		MinPlayers:          4,
		MaxPlayers:          10,
		PlayerCount:         4,
		EliminationCooldown: 30,
		MeetingCooldown:     15,
		VotingTime:          45,
		NumTasks:            5,
	}
}

func (s Settings) Validate() error {
	if s.MinPlayers < 2 {
		return errors.New("最少玩家数不能小于 2")
	}

	if s.MaxPlayers < s.MinPlayers {
		return fmt.Errorf("最多玩家数 %d 小于最少玩家数 %d", s.MaxPlayers, s.MinPlayers)
	}

	if s.PlayerCount < s.MinPlayers || s.PlayerCount > s.MaxPlayers {
		return fmt.Errorf("玩家数 %d 不在 [%d, %d] 范围内", s.PlayerCount, s.MinPlayers, s.MaxPlayers)
	}

	if s.ImpostorRatio < 0 || s.ImpostorRatio >= 1 {
		return fmt.Errorf("内鬼比例 %.2f 必须位于 [0, 1)", s.ImpostorRatio)
	}

	if s.NumTasks <= 0 {
		return errors.New("任务数量必须大于 0")
	}

	if s.PlayerSpeed <= 0 {
		return errors.New("移动速度必须大于 0")
	}

	if s.EliminationCooldown < 0 || s.MeetingCooldown < 0 || s.VotingTime <= 0 {
		return errors.New("冷却时间不能为负，投票时间必须大于 0")
	}

	return nil
}

// ImpostorCount = max(1, floor(total × ratio))
func ImpostorCount(total int, ratio float64) int {
	n := int(float64(total) * ratio)
	if n < 1 {
		n = 1
	}

	return n
}
