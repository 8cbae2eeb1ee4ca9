package game

import (
	"encoding/json"
	"testing"
)

// openWorld 是无墙的矩形地图，通风口可选
type openWorld struct {
	width, height float64
	spawns        []Vec2
	next          int
	vents         []Vent
	locations     []Location
}

func newOpenWorld() *openWorld {
	return &openWorld{
		width:  800,
		height: 600,
		// 彼此相距超过 AI 的发现距离
		spawns: []Vec2{
			{X: 150, Y: 300},
			{X: 400, Y: 300},
			{X: 650, Y: 300},
			{X: 400, Y: 500},
		},
		locations: []Location{
			{X: 100, Y: 100, Radius: 20},
			{X: 700, Y: 100, Radius: 20},
			{X: 100, Y: 500, Radius: 20},
			{X: 700, Y: 500, Radius: 20},
			{X: 400, Y: 100, Radius: 20},
		},
	}
}

func (w *openWorld) Bounds() (float64, float64) { return w.width, w.height }

func (w *openWorld) IsBlocked(Vec2, float64) bool { return false }

func (w *openWorld) RandomSpawnPoint(RandSource) Vec2 {
	p := w.spawns[w.next%len(w.spawns)]
	w.next++

	return p
}

func (w *openWorld) NearbyVent(pos Vec2, radius float64) (Vent, bool) {
	for _, v := range w.vents {
		if v.Center().Dist(pos) < radius {
			return v, true
		}
	}

	return Vent{}, false
}

func (w *openWorld) Vent(id int) (Vent, bool) {
	for _, v := range w.vents {
		if v.ID == id {
			return v, true
		}
	}

	return Vent{}, false
}

func (w *openWorld) TaskLocations() []Location { return w.locations }

func newTestMatch(t *testing.T, settings Settings, world World, seed uint64) *Match {
	t.Helper()

	m, err := NewMatch(settings, world, NewRandSource(seed))
	if err != nil {
		t.Fatalf("NewMatch failed: %v", err)
	}

	return m
}

// startedMatch 开局后把人类设为船员，并把 impostorIdx 指定的玩家设为唯一的内鬼
func startedMatch(t *testing.T, settings Settings, world World, impostorIdx int) *Match {
	t.Helper()

	m := newTestMatch(t, settings, world, 7)
	if err := m.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i, p := range m.Registry().Players() {
		if i == impostorIdx {
			p.Role = ROLE_IMPOSTOR
		} else {
			p.Role = ROLE_CREWMATE
		}
	}

	return m
}

// farApart 让玩家彼此远离，避免 AI 在测试中意外动手
func farApart(m *Match) {
	for i, p := range m.Registry().Players() {
		p.Pos = Vec2{X: 60 + float64(i)*170, Y: 60 + float64(i%2)*480}
	}
}

func recordEvents(m *Match) *[]Event {
	events := &[]Event{}
	m.Subscribe(func(ev Event) {
		*events = append(*events, ev)
	})

	return events
}

func hasEvent(events []Event, typ string) bool {
	for _, ev := range events {
		if ev.Type == typ {
			return true
		}
	}

	return false
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return b
}
