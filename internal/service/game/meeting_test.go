package game

import "testing"

// newMeeting 创建 n 个存活玩家并开始会议，投票时间 45 秒
func newMeeting(t *testing.T, n int) (*MeetingResolver, []*Player) {
	t.Helper()

	players := newPlayers(n)
	mr := NewMeetingResolver(45)
	mr.Start(players[0], players)

	if mr.State() != RESOLVER_ACTIVE {
		t.Fatalf("resolver should be active after Start, got %s", mr.State())
	}

	return mr, players
}

func mustVote(t *testing.T, mr *MeetingResolver, voter, target string) {
	t.Helper()

	if !mr.CastVote(voter, target) {
		t.Fatalf("vote from %s for %q should be accepted", voter, target)
	}
}

func TestMeetingResolver_TieEjectsNobody(t *testing.T) {
	mr, ps := newMeeting(t, 4)

	// A:2 B:2
	mustVote(t, mr, ps[0].ID, ps[2].ID)
	mustVote(t, mr, ps[1].ID, ps[2].ID)
	mustVote(t, mr, ps[2].ID, ps[3].ID)
	mustVote(t, mr, ps[3].ID, ps[3].ID)

	outcome, ok := mr.Resolve()
	if !ok {
		t.Fatalf("resolver should be complete once everyone voted")
	}

	if outcome.Ejected != nil || !outcome.Tie {
		t.Fatalf("tie must eject nobody, got ejected=%v tie=%v", outcome.Ejected, outcome.Tie)
	}
}

func TestMeetingResolver_MajorityEjects(t *testing.T) {
	mr, ps := newMeeting(t, 5)

	// A:3 B:1 skip:1
	mustVote(t, mr, ps[0].ID, ps[1].ID)
	mustVote(t, mr, ps[2].ID, ps[1].ID)
	mustVote(t, mr, ps[3].ID, ps[1].ID)
	mustVote(t, mr, ps[1].ID, ps[4].ID)
	mustVote(t, mr, ps[4].ID, SKIP_VOTE)

	outcome, ok := mr.Resolve()
	if !ok {
		t.Fatalf("resolver should be complete")
	}

	if outcome.Ejected != ps[1] {
		t.Fatalf("want %s ejected, got %v", ps[1].Name, outcome.Ejected)
	}

	if outcome.Tally[ps[1].ID] != 3 || outcome.SkipCount != 1 {
		t.Fatalf("unexpected tally %v skip=%d", outcome.Tally, outcome.SkipCount)
	}
}

func TestMeetingResolver_SkipsOutweighLeader(t *testing.T) {
	mr, ps := newMeeting(t, 3)

	// A:1 skip:2
	mustVote(t, mr, ps[0].ID, ps[1].ID)
	mustVote(t, mr, ps[1].ID, SKIP_VOTE)
	mustVote(t, mr, ps[2].ID, SKIP_VOTE)

	outcome, _ := mr.Resolve()
	if outcome.Ejected != nil {
		t.Fatalf("skips >= leader votes must eject nobody, got %v", outcome.Ejected)
	}
}

func TestMeetingResolver_NonVotersCountAsSkips(t *testing.T) {
	mr, ps := newMeeting(t, 4)

	mustVote(t, mr, ps[0].ID, ps[1].ID)
	mustVote(t, mr, ps[2].ID, ps[1].ID)

	if mr.IsComplete() {
		t.Fatalf("meeting should not complete before all voted or time ran out")
	}

	mr.Tick(44)
	if mr.IsComplete() {
		t.Fatalf("meeting should still be running with 1s left")
	}

	mr.Tick(5)
	if !mr.IsComplete() || mr.TimeLeft() != 0 {
		t.Fatalf("timer should floor at 0 and complete the meeting, left=%v", mr.TimeLeft())
	}

	outcome, _ := mr.Resolve()
	if outcome.SkipCount != 2 {
		t.Fatalf("want 2 implicit skips, got %d", outcome.SkipCount)
	}

	// 2 票对 2 弃票，无人出局
	if outcome.Ejected != nil {
		t.Fatalf("want no ejection, got %v", outcome.Ejected)
	}
}

func TestMeetingResolver_RejectsInvalidVotes(t *testing.T) {
	players := newPlayers(4)
	players[3].IsAlive = false

	mr := NewMeetingResolver(45)

	if mr.CastVote(players[0].ID, players[1].ID) {
		t.Fatalf("inactive resolver must reject votes")
	}

	mr.Start(players[0], players)

	if len(mr.Participants()) != 3 {
		t.Fatalf("dead players must not participate, got %d participants", len(mr.Participants()))
	}

	if mr.CastVote(players[3].ID, players[1].ID) {
		t.Fatalf("dead voter must be rejected")
	}

	if mr.CastVote(players[0].ID, players[3].ID) {
		t.Fatalf("dead target must be rejected")
	}

	if mr.CastVote("stranger", players[1].ID) {
		t.Fatalf("unknown voter must be rejected")
	}

	mustVote(t, mr, players[0].ID, players[0].ID)
	mustVote(t, mr, players[0].ID, players[1].ID)

	if got := mr.Votes()[players[0].ID]; got != players[1].ID {
		t.Fatalf("second vote should replace the first, got %q", got)
	}
}

func TestMeetingResolver_AutonomousVotesAreIdempotent(t *testing.T) {
	mr, ps := newMeeting(t, 6)

	rng := NewRandSource(3)

	mustVote(t, mr, ps[0].ID, SKIP_VOTE)

	mr.SimulateAutonomousVotes(rng)

	first := mr.Votes()
	if len(first) != len(ps) {
		t.Fatalf("every participant should have voted, got %d votes", len(first))
	}

	for voter, target := range first {
		if voter != ps[0].ID && voter == target {
			t.Fatalf("AI %s voted for itself", voter)
		}
	}

	if !mr.IsComplete() {
		t.Fatalf("meeting should complete once everyone voted")
	}

	mr.SimulateAutonomousVotes(rng)

	second := mr.Votes()
	for voter, target := range first {
		if second[voter] != target {
			t.Fatalf("repeated simulation changed the vote of %s", voter)
		}
	}
}

func TestMeetingResolver_ResetReturnsToInactive(t *testing.T) {
	mr, ps := newMeeting(t, 3)
	mustVote(t, mr, ps[0].ID, ps[1].ID)

	mr.Reset()

	if mr.State() != RESOLVER_INACTIVE || len(mr.Votes()) != 0 || mr.Caller() != nil {
		t.Fatalf("Reset should clear the meeting")
	}

	if _, ok := mr.Resolve(); ok {
		t.Fatalf("inactive resolver must not resolve")
	}
}

func TestMeetingResolver_StartsWithNoParticipantsComplete(t *testing.T) {
	players := newPlayers(2)
	for _, p := range players {
		p.IsAlive = false
	}

	mr := NewMeetingResolver(45)
	mr.Start(nil, players)

	if !mr.IsComplete() {
		t.Fatalf("meeting without participants should complete immediately")
	}

	outcome, ok := mr.Resolve()
	if !ok || outcome.Ejected != nil {
		t.Fatalf("empty meeting should resolve with no ejection")
	}
}
