package game

import "math"

// 投票解析器状态
const (
	RESOLVER_INACTIVE = "Inactive"
	RESOLVER_ACTIVE   = "Active"
	RESOLVER_COMPLETE = "Complete"
)

// SKIP_VOTE 作为投票目标表示弃票
const SKIP_VOTE = ""

// MeetingOutcome 是一次会议的计票结果
type MeetingOutcome struct {
	// 被驱逐的玩家，为 nil 表示无人出局
	Ejected   *Player
	Tally     map[string]int
	SkipCount int
	Tie       bool
}

// MeetingResolver 管理一次限时投票
type MeetingResolver struct {
	votingTime float64

	state        string
	caller       *Player
	participants []*Player
	// voter id -> target id，SKIP_VOTE 为弃票
	votes map[string]string
	timer float64
}

func NewMeetingResolver(votingTime float64) *MeetingResolver {
	return &MeetingResolver{
		votingTime: votingTime,
		state:      RESOLVER_INACTIVE,
		votes:      make(map[string]string),
	}
}

// Start 只保留存活玩家作为参与者，并清空之前的投票
func (mr *MeetingResolver) Start(caller *Player, all []*Player) {
	mr.caller = caller
	mr.participants = make([]*Player, 0, len(all))
	for _, p := range all {
		if p.IsAlive {
			mr.participants = append(mr.participants, p)
		}
	}

	mr.votes = make(map[string]string, len(mr.participants))
	mr.timer = mr.votingTime
	mr.state = RESOLVER_ACTIVE

	mr.checkComplete()
}

func (mr *MeetingResolver) State() string {
	return mr.state
}

func (mr *MeetingResolver) Caller() *Player {
	return mr.caller
}

func (mr *MeetingResolver) Participants() []*Player {
	return mr.participants
}

func (mr *MeetingResolver) TimeLeft() float64 {
	return mr.timer
}

// Votes 返回投票记录的副本
func (mr *MeetingResolver) Votes() map[string]string {
	out := make(map[string]string, len(mr.votes))
	for k, v := range mr.votes {
		out[k] = v
	}

	return out
}

func (mr *MeetingResolver) HasVoted(voterID string) bool {
	_, ok := mr.votes[voterID]
	return ok
}

func (mr *MeetingResolver) Tick(dt float64) {
	if mr.state != RESOLVER_ACTIVE {
		return
	}

	mr.timer = math.Max(0, mr.timer-dt)
	mr.checkComplete()
}

func (mr *MeetingResolver) participant(id string) *Player {
	for _, p := range mr.participants {
		if p.ID == id {
			return p
		}
	}

	return nil
}

// CastVote 记录投票，同一投票者再次投票会覆盖上一次
func (mr *MeetingResolver) CastVote(voterID, targetID string) bool {
	if mr.state != RESOLVER_ACTIVE {
		return false
	}

	voter := mr.participant(voterID)
	if voter == nil || !voter.IsAlive {
		return false
	}

	if targetID != SKIP_VOTE {
		target := mr.participant(targetID)
		if target == nil || !target.IsAlive {
			return false
		}
	}

	mr.votes[voterID] = targetID
	mr.checkComplete()

	return true
}

// SimulateAutonomousVotes 为尚未投票的 AI 参与者补票，已有投票的参与者不受影响
func (mr *MeetingResolver) SimulateAutonomousVotes(rng RandSource) {
	if mr.state != RESOLVER_ACTIVE {
		return
	}

	for _, p := range mr.participants {
		if p.IsHuman || !p.IsAlive || mr.HasVoted(p.ID) {
			continue
		}

		mr.votes[p.ID] = chooseVote(p, mr.participants, rng)
	}

	mr.checkComplete()
}

// chooseVote 20% 概率弃票，否则在除自己以外的参与者中均匀选择
func chooseVote(voter *Player, participants []*Player, rng RandSource) string {
	if rng.Float64() < AI_SKIP_PROBABILITY {
		return SKIP_VOTE
	}

	candidates := make([]*Player, 0, len(participants))
	for _, p := range participants {
		if p != voter && p.IsAlive {
			candidates = append(candidates, p)
		}
	}

	if len(candidates) == 0 {
		return SKIP_VOTE
	}

	return candidates[rng.IntN(len(candidates))].ID
}

func (mr *MeetingResolver) allVoted() bool {
	for _, p := range mr.participants {
		if !mr.HasVoted(p.ID) {
			return false
		}
	}

	return true
}

func (mr *MeetingResolver) checkComplete() {
	if mr.state != RESOLVER_ACTIVE {
		return
	}

	if mr.timer <= 0 || mr.allVoted() {
		mr.timer = 0
		mr.state = RESOLVER_COMPLETE
	}
}

func (mr *MeetingResolver) IsComplete() bool {
	return mr.state == RESOLVER_COMPLETE
}

// Resolve 计票。未投票的参与者按弃票计算；
// 最高票出现并列，或弃票数不少于最高票时无人出局
func (mr *MeetingResolver) Resolve() (MeetingOutcome, bool) {
	if mr.state != RESOLVER_COMPLETE {
		return MeetingOutcome{}, false
	}

	outcome := MeetingOutcome{Tally: make(map[string]int)}

	for _, p := range mr.participants {
		target, voted := mr.votes[p.ID]
		if !voted || target == SKIP_VOTE {
			outcome.SkipCount++
			continue
		}

		outcome.Tally[target]++
	}

	maxVotes := 0
	leaders := 0
	var leaderID string

	// 按参与者顺序遍历，保证结果与 map 遍历顺序无关
	for _, p := range mr.participants {
		count := outcome.Tally[p.ID]
		if count == 0 {
			continue
		}

		switch {
		case count > maxVotes:
			maxVotes = count
			leaders = 1
			leaderID = p.ID
		case count == maxVotes:
			leaders++
		}
	}

	outcome.Tie = leaders > 1

	if maxVotes == 0 || outcome.Tie || outcome.SkipCount >= maxVotes {
		return outcome, true
	}

	outcome.Ejected = mr.participant(leaderID)

	return outcome, true
}

func (mr *MeetingResolver) Reset() {
	mr.state = RESOLVER_INACTIVE
	mr.caller = nil
	mr.participants = nil
	mr.votes = make(map[string]string)
	mr.timer = 0
}
