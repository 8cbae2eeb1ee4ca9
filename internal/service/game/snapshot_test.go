package game

import "testing"

func TestSnapshot_RedactsRolesAndVotes(t *testing.T) {
	m := startedMatch(t, DefaultSettings(), newOpenWorld(), 1)

	human := m.Human()
	impostor := m.Registry().Players()[1]

	m.PerformAction(ACTION_MEETING)
	m.Resolver().CastVote(impostor.ID, human.ID)

	snap := m.Snapshot()
	if snap.Stage != STAGE_MEETING || snap.Meeting == nil {
		t.Fatalf("meeting snapshot should carry the meeting view")
	}

	if len(snap.Meeting.Participants) != 4 || snap.Meeting.CallerID != human.ID {
		t.Fatalf("unexpected meeting view %+v", snap.Meeting)
	}

	view := snap.RedactFor(human.ID)

	for _, p := range view.Players {
		if p.ID != human.ID && p.Role != "" {
			t.Fatalf("crewmate should not see the role of %s", p.Name)
		}
	}

	if _, ok := view.Meeting.Votes[impostor.ID]; ok {
		t.Fatalf("votes of other players should be hidden")
	}

	if snap.Meeting.Votes[impostor.ID] != human.ID {
		t.Fatalf("redaction must not modify the original snapshot")
	}

	impView := snap.RedactFor(impostor.ID)
	for _, p := range impView.Players {
		if p.ID == impostor.ID && p.Role != ROLE_IMPOSTOR {
			t.Fatalf("players always see their own role")
		}
	}
}

func TestSnapshot_GameOverRevealsRoles(t *testing.T) {
	m := startedMatch(t, DefaultSettings(), newOpenWorld(), 1)

	human := m.Human()
	human.MeetingCooldown = 100

	for _, task := range m.Ledger().Tasks() {
		human.Pos = task.Location.Center()
		m.PerformAction(ACTION_TASK)
	}

	view := m.Snapshot().RedactFor(human.ID)
	if view.Stage != STAGE_GAME_OVER || view.Winner != ROLE_CREWMATE {
		t.Fatalf("want crewmate game over, got %s/%s", view.Stage, view.Winner)
	}

	if view.Players[1].Role != ROLE_IMPOSTOR {
		t.Fatalf("roles are revealed at game over")
	}

	if view.CompletionPercentage != 100 {
		t.Fatalf("want 100%% completion, got %v", view.CompletionPercentage)
	}
}

func TestEvent_RedactHidesKiller(t *testing.T) {
	crew := NewPlayer("crew", "#00FF00", true)
	imp := NewPlayer("imp", "#FF0000", false)
	imp.Role = ROLE_IMPOSTOR

	ev := Event{Type: EVENT_PLAYER_ELIMINATED, ActorID: imp.ID, TargetID: "victim"}

	if got := ev.RedactFor(crew, false); got.ActorID != "" || got.TargetID != "victim" {
		t.Fatalf("crewmate should only learn the victim, got %+v", got)
	}

	if got := ev.RedactFor(imp, false); got.ActorID != imp.ID {
		t.Fatalf("impostor sees its own eliminations")
	}

	if got := ev.RedactFor(crew, true); got.ActorID != imp.ID {
		t.Fatalf("game over reveals the killer")
	}
}
