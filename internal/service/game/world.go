package game

import "math"

// Vent 是地图上的通风口，ConnectsTo 为可到达的其他通风口 ID
type Vent struct {
	ID         int     `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	ConnectsTo []int   `json:"connects_to"`
}

func (v Vent) Center() Vec2 {
	return Vec2{X: v.X + v.Width/2, Y: v.Y + v.Height/2}
}

// World 是地图协作方，几何与碰撞由其实现
type World interface {
	Bounds() (width, height float64)
	IsBlocked(pos Vec2, radius float64) bool
	RandomSpawnPoint(rng RandSource) Vec2
	NearbyVent(pos Vec2, radius float64) (Vent, bool)
	Vent(id int) (Vent, bool)
	TaskLocations() []Location
}

// move 按方向移动玩家，斜向移动归一化，越界或撞墙的分量被丢弃
func move(p *Player, dir Vec2, distance float64, world World) {
	if !p.IsAlive {
		return
	}

	length := dir.Len()
	if length == 0 || distance <= 0 {
		return
	}

	dx := dir.X / length * distance
	dy := dir.Y / length * distance

	width, height := world.Bounds()

	nx := p.Pos.X + dx
	ny := p.Pos.Y + dy

	if nx-p.Radius < 0 || nx+p.Radius > width {
		dx = 0
	}
	if ny-p.Radius < 0 || ny+p.Radius > height {
		dy = 0
	}

	next := Vec2{X: p.Pos.X + dx, Y: p.Pos.Y + dy}
	if world.IsBlocked(next, p.Radius) {
		return
	}

	p.Pos = next
}

// moveToward 朝目标点移动，不会越过目标点
func moveToward(p *Player, target Vec2, distance float64, world World) {
	delta := target.Sub(p.Pos)
	remaining := delta.Len()

	if remaining <= ARRIVE_THRESHOLD {
		return
	}

	move(p, delta, math.Min(distance, remaining), world)
}
