package shipmap

import (
	"impostor-2d-be/internal/service/game"
)

const (
	DEFAULT_WIDTH  = 800
	DEFAULT_HEIGHT = 600

	WALL_THICKNESS = 20
	ROOM_SIZE      = 200

	// 房间与中心区域之间的走廊宽度
	ROOM_GAP = 50

	VENT_SIZE    = 30
	TASK_RADIUS  = 20
	SPAWN_COUNT  = 10
	SPAWN_SPREAD = 100
)

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// closestPoint 返回矩形上离 pos 最近的点
func (r Rect) closestPoint(pos game.Vec2) game.Vec2 {
	return game.Vec2{
		X: max(r.X, min(pos.X, r.X+r.Width)),
		Y: max(r.Y, min(pos.Y, r.Y+r.Height)),
	}
}

// Overlaps 判断圆与矩形相交，恰好相切不算
func (r Rect) Overlaps(pos game.Vec2, radius float64) bool {
	d := pos.Sub(r.closestPoint(pos))
	return d.X*d.X+d.Y*d.Y < radius*radius
}

// ShipMap 是默认的飞船地图：四周边界、上下左右四个房间与中心区域
type ShipMap struct {
	width  float64
	height float64

	walls         []Rect
	vents         []game.Vent
	taskLocations []game.Location
	spawnPoints   []game.Vec2
}

// New 构建地图，rng 用于生成中心区域的出生点，为 nil 时使用固定的网格出生点
func New(width, height float64, rng game.RandSource) *ShipMap {
	sm := &ShipMap{
		width:  width,
		height: height,
	}

	sm.buildWalls()
	sm.buildTaskLocations()
	sm.buildVents()
	sm.buildSpawnPoints(rng)

	return sm
}

func NewDefault(rng game.RandSource) *ShipMap {
	return New(DEFAULT_WIDTH, DEFAULT_HEIGHT, rng)
}

func (sm *ShipMap) center() (float64, float64) {
	return sm.width / 2, sm.height / 2
}

func (sm *ShipMap) buildWalls() {
	const t = WALL_THICKNESS

	// 边界
	sm.walls = append(sm.walls,
		Rect{X: 0, Y: 0, Width: sm.width, Height: t},
		Rect{X: 0, Y: sm.height - t, Width: sm.width, Height: t},
		Rect{X: 0, Y: 0, Width: t, Height: sm.height},
		Rect{X: sm.width - t, Y: 0, Width: t, Height: sm.height},
	)

	cx, cy := sm.center()

	// 上方房间，开口朝下
	top := cy - ROOM_SIZE - ROOM_GAP
	sm.walls = append(sm.walls,
		Rect{X: cx - ROOM_SIZE/2, Y: top, Width: ROOM_SIZE, Height: t},
		Rect{X: cx - ROOM_SIZE/2, Y: top, Width: t, Height: ROOM_SIZE},
		Rect{X: cx + ROOM_SIZE/2 - t, Y: top, Width: t, Height: ROOM_SIZE},
	)

	// 左侧房间，开口朝右
	left := cx - ROOM_SIZE - ROOM_GAP
	sm.walls = append(sm.walls,
		Rect{X: left, Y: cy - ROOM_SIZE/2, Width: ROOM_SIZE, Height: t},
		Rect{X: left, Y: cy - ROOM_SIZE/2, Width: t, Height: ROOM_SIZE},
		Rect{X: left, Y: cy + ROOM_SIZE/2 - t, Width: ROOM_SIZE, Height: t},
	)

	// 右侧房间，开口朝左
	right := cx + ROOM_GAP
	sm.walls = append(sm.walls,
		Rect{X: right, Y: cy - ROOM_SIZE/2, Width: ROOM_SIZE, Height: t},
		Rect{X: right + ROOM_SIZE - t, Y: cy - ROOM_SIZE/2, Width: t, Height: ROOM_SIZE},
		Rect{X: right, Y: cy + ROOM_SIZE/2 - t, Width: ROOM_SIZE, Height: t},
	)

	// 下方房间，开口朝上
	bottom := cy + ROOM_GAP
	sm.walls = append(sm.walls,
		Rect{X: cx - ROOM_SIZE/2, Y: bottom + ROOM_SIZE - t, Width: ROOM_SIZE, Height: t},
		Rect{X: cx - ROOM_SIZE/2, Y: bottom, Width: t, Height: ROOM_SIZE},
		Rect{X: cx + ROOM_SIZE/2 - t, Y: bottom, Width: t, Height: ROOM_SIZE},
	)
}

// 每个房间一个任务点，中心区域一个
func (sm *ShipMap) buildTaskLocations() {
	cx, cy := sm.center()

	sm.taskLocations = []game.Location{
		{X: cx, Y: cy - ROOM_SIZE, Radius: TASK_RADIUS},
		{X: cx - ROOM_SIZE, Y: cy, Radius: TASK_RADIUS},
		{X: cx + ROOM_SIZE, Y: cy, Radius: TASK_RADIUS},
		{X: cx, Y: cy + ROOM_SIZE, Radius: TASK_RADIUS},
		{X: cx, Y: cy, Radius: TASK_RADIUS},
	}
}

func (sm *ShipMap) buildVents() {
	cx, cy := sm.center()

	sm.vents = []game.Vent{
		{ID: 1, X: cx - 50, Y: cy - ROOM_SIZE + 50, Width: VENT_SIZE, Height: VENT_SIZE, ConnectsTo: []int{2, 5}},
		{ID: 2, X: cx - ROOM_SIZE + 50, Y: cy - 50, Width: VENT_SIZE, Height: VENT_SIZE, ConnectsTo: []int{1, 3}},
		{ID: 3, X: cx + ROOM_SIZE - 50, Y: cy - 50, Width: VENT_SIZE, Height: VENT_SIZE, ConnectsTo: []int{2, 4}},
		{ID: 4, X: cx - 50, Y: cy + ROOM_SIZE - 50, Width: VENT_SIZE, Height: VENT_SIZE, ConnectsTo: []int{3, 5}},
		{ID: 5, X: cx + 50, Y: cy + 50, Width: VENT_SIZE, Height: VENT_SIZE, ConnectsTo: []int{1, 4}},
	}
}

// 出生点集中在中心区域
func (sm *ShipMap) buildSpawnPoints(rng game.RandSource) {
	cx, cy := sm.center()
	half := float64(SPAWN_SPREAD) / 2

	sm.spawnPoints = make([]game.Vec2, 0, SPAWN_COUNT)

	for i := 0; i < SPAWN_COUNT; i++ {
		var p game.Vec2

		if rng != nil {
			p = game.Vec2{
				X: cx + rng.Float64()*SPAWN_SPREAD - half,
				Y: cy + rng.Float64()*SPAWN_SPREAD - half,
			}
		} else {
			// 5 x 2 的网格
			col := float64(i % 5)
			row := float64(i / 5)
			p = game.Vec2{
				X: cx - half + col*SPAWN_SPREAD/4,
				Y: cy - half + row*SPAWN_SPREAD,
			}
		}

		sm.spawnPoints = append(sm.spawnPoints, p)
	}
}

func (sm *ShipMap) Bounds() (float64, float64) {
	return sm.width, sm.height
}

func (sm *ShipMap) IsBlocked(pos game.Vec2, radius float64) bool {
	for _, w := range sm.walls {
		if w.Overlaps(pos, radius) {
			return true
		}
	}

	return false
}

func (sm *ShipMap) RandomSpawnPoint(rng game.RandSource) game.Vec2 {
	if len(sm.spawnPoints) == 0 {
		cx, cy := sm.center()
		return game.Vec2{X: cx, Y: cy}
	}

	return sm.spawnPoints[rng.IntN(len(sm.spawnPoints))]
}

// NearbyVent 返回第一个与圆相交的通风口
func (sm *ShipMap) NearbyVent(pos game.Vec2, radius float64) (game.Vent, bool) {
	for _, v := range sm.vents {
		r := Rect{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
		if r.Overlaps(pos, radius) {
			return v, true
		}
	}

	return game.Vent{}, false
}

func (sm *ShipMap) Vent(id int) (game.Vent, bool) {
	for _, v := range sm.vents {
		if v.ID == id {
			return v, true
		}
	}

	return game.Vent{}, false
}

func (sm *ShipMap) TaskLocations() []game.Location {
	return append([]game.Location(nil), sm.taskLocations...)
}

func (sm *ShipMap) Walls() []Rect {
	return append([]Rect(nil), sm.walls...)
}

func (sm *ShipMap) Vents() []game.Vent {
	return append([]game.Vent(nil), sm.vents...)
}

func (sm *ShipMap) SpawnPoints() []game.Vec2 {
	return append([]game.Vec2(nil), sm.spawnPoints...)
}
