package game

import "math"

// 玩家身份
const (
	ROLE_CREWMATE = "Crewmate"
	ROLE_IMPOSTOR = "Impostor"
)

// 初始玩家的配色，与前端保持一致
var playerColors = []string{
	"#FF0000", // Red
	"#00FF00", // Green
	"#0000FF", // Blue
	"#FFFF00", // Yellow
	"#FF00FF", // Magenta
	"#00FFFF", // Cyan
	"#FF8800", // Orange
	"#8800FF", // Purple
	"#FFFFFF", // White
	"#000000", // Black
}

// Vec2 是地图上的二维坐标
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Len()
}

type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	IsHuman bool   `json:"is_human"`

	Role    string `json:"role"`
	IsAlive bool   `json:"is_alive"`

	// 冷却时间，单位秒，永远不小于 0
	EliminationCooldown float64 `json:"elimination_cooldown"`
	MeetingCooldown     float64 `json:"meeting_cooldown"`

	// 位置由地图/移动协作方写入，核心逻辑只读取
	Pos    Vec2    `json:"pos"`
	Radius float64 `json:"radius"`
}

func NewPlayer(name, color string, isHuman bool) *Player {
	return &Player{
		ID:      GenShortID(),
		Name:    name,
		Color:   color,
		IsHuman: isHuman,
		Role:    ROLE_CREWMATE,
		IsAlive: true,
		Radius:  PLAYER_RADIUS,
	}
}

func (p *Player) IsImpostor() bool {
	return p.Role == ROLE_IMPOSTOR
}

// CanCallMeeting 存活且会议冷却结束
func (p *Player) CanCallMeeting() bool {
	return p.IsAlive && p.MeetingCooldown <= 0
}

func (p *Player) tickCooldowns(dt float64) {
	p.EliminationCooldown = math.Max(0, p.EliminationCooldown-dt)
	p.MeetingCooldown = math.Max(0, p.MeetingCooldown-dt)
}

func (p *Player) reset() {
	p.IsAlive = true
	p.EliminationCooldown = 0
	p.MeetingCooldown = 0
}
