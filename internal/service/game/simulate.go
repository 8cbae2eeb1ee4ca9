package game

// SimulationResult 汇总一次无界面模拟
type SimulationResult struct {
	MatchID  string  `json:"match_id"`
	Winner   string  `json:"winner,omitempty"`
	Steps    int     `json:"steps"`
	Seconds  float64 `json:"seconds"`
	Meetings int     `json:"meetings"`
	Ejected  int     `json:"ejected"`
	Killed   int     `json:"killed"`
	Tasks    int     `json:"tasks_completed"`
	Finished bool    `json:"finished"`
}

// Simulate 以固定步长推进比赛直到分出胜负或达到 maxSteps，
// 人类席位由 autopilot 操作
func Simulate(m *Match, autopilot *Autopilot, dt float64, maxSteps int) SimulationResult {
	res := SimulationResult{MatchID: m.ID()}

	m.Subscribe(func(ev Event) {
		switch ev.Type {
		case EVENT_MEETING_STARTED:
			res.Meetings++
		case EVENT_MEETING_ENDED:
			if ev.TargetID != "" {
				res.Ejected++
			}
		case EVENT_PLAYER_ELIMINATED:
			res.Killed++
		case EVENT_TASK_COMPLETED:
			res.Tasks++
		}
	})

	if m.Stage() == STAGE_LOBBY {
		if err := m.Start(); err != nil {
			return res
		}
	}

	for res.Steps < maxSteps && m.Stage() != STAGE_GAME_OVER {
		if autopilot != nil {
			autopilot.Drive(m)
		}

		m.Step(dt)

		res.Steps++
		res.Seconds += dt
	}

	res.Winner = m.Winner()
	res.Finished = m.Stage() == STAGE_GAME_OVER

	return res
}
