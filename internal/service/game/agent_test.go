package game

import "testing"

func TestAgentBrain_Decisions(t *testing.T) {
	world := newOpenWorld()
	rule := NewEliminationRule(30)
	rng := NewRandSource(5)

	impostor := NewPlayer("imp", "#FF0000", false)
	impostor.Role = ROLE_IMPOSTOR
	impostor.Pos = Vec2{X: 400, Y: 300}

	crew := NewPlayer("crew", "#00FF00", false)
	crew.Pos = Vec2{X: 500, Y: 300}

	players := []*Player{impostor, crew}

	brain := &agentBrain{}

	d := brain.decide(impostor, players, rule, world, rng, 0.1)
	if d.Kind != DECISION_PURSUE || d.Target != crew || d.Dest != crew.Pos {
		t.Fatalf("impostor should pursue a crewmate within detection range, got %+v", d)
	}

	crew.Pos = Vec2{X: 440, Y: 300}
	d = brain.decide(impostor, players, rule, world, rng, 0.1)
	if d.Kind != DECISION_ELIMINATE || d.Target != crew {
		t.Fatalf("impostor should eliminate within r1+r2+10, got %+v", d)
	}

	impostor.EliminationCooldown = 5
	d = brain.decide(impostor, players, rule, world, rng, 0.1)
	if d.Kind != DECISION_WANDER {
		t.Fatalf("impostor on cooldown should wander, got %+v", d)
	}

	impostor.EliminationCooldown = 0
	crew.Pos = Vec2{X: 700, Y: 300}
	d = brain.decide(impostor, players, rule, world, rng, 0.1)
	if d.Kind != DECISION_WANDER {
		t.Fatalf("crewmate beyond detection range should be ignored, got %+v", d)
	}

	impostor.IsAlive = false
	if d = brain.decide(impostor, players, rule, world, rng, 0.1); d.Kind != DECISION_IDLE {
		t.Fatalf("dead agent should idle, got %+v", d)
	}
}

func TestAgentBrain_WanderTargetPersists(t *testing.T) {
	world := newOpenWorld()
	rule := NewEliminationRule(30)
	rng := NewRandSource(11)

	crew := NewPlayer("crew", "#00FF00", false)
	brain := &agentBrain{}

	first := brain.decide(crew, []*Player{crew}, rule, world, rng, 0.1)
	if first.Kind != DECISION_WANDER {
		t.Fatalf("crewmate agents only wander, got %+v", first)
	}

	if brain.wanderTimer < WANDER_MIN_SECONDS || brain.wanderTimer >= WANDER_MIN_SECONDS+WANDER_SPAN_SECONDS {
		t.Fatalf("wander timer out of range: %v", brain.wanderTimer)
	}

	w, h := world.Bounds()
	if first.Dest.X < 0 || first.Dest.X > w || first.Dest.Y < 0 || first.Dest.Y > h {
		t.Fatalf("wander target outside the map: %+v", first.Dest)
	}

	second := brain.decide(crew, []*Player{crew}, rule, world, rng, 0.5)
	if second.Dest != first.Dest {
		t.Fatalf("wander target should persist until the timer expires")
	}
}

func TestAutopilot_CrewmateWalksToTask(t *testing.T) {
	m := startedMatch(t, DefaultSettings(), newOpenWorld(), 1)
	m.Registry().Players()[1].EliminationCooldown = 1000

	human := m.Human()
	human.MeetingCooldown = 1000

	pilot := NewAutopilot(NewRandSource(2))

	for i := 0; i < 30*20 && m.Ledger().CompletedCount() == 0; i++ {
		pilot.Drive(m)
		m.Step(1.0 / 30)
	}

	if m.Ledger().CompletedCount() == 0 {
		t.Fatalf("autopilot crewmate should reach and complete a task")
	}
}

func TestSimulate_StopsAtGameOverOrStepLimit(t *testing.T) {
	settings := DefaultSettings()
	m := newTestMatch(t, settings, newOpenWorld(), 21)

	res := Simulate(m, NewAutopilot(NewRandSource(22)), 1.0/30, 30*60*10)

	if res.Steps == 0 || res.MatchID != m.ID() {
		t.Fatalf("simulation should run, got %+v", res)
	}

	if res.Finished != (m.Stage() == STAGE_GAME_OVER) {
		t.Fatalf("Finished should reflect the final stage")
	}

	if res.Finished && res.Winner != evaluateWinner(m.Registry(), m.Ledger()) {
		t.Fatalf("reported winner %q does not match the final state", res.Winner)
	}

	if !res.Finished && res.Steps != 30*60*10 {
		t.Fatalf("unfinished simulation should use every step, got %d", res.Steps)
	}
}
