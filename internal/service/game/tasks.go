package game

// 任务模板池，任务数超过模板数时循环复用
var taskTemplates = []string{
	"Fix Wiring",
	"Download Data",
	"Clear Asteroids",
	"Empty Garbage",
	"Scan ID Card",
	"Align Engine Output",
	"Calibrate Distributor",
	"Prime Shields",
	"Submit Scan",
	"Swipe Card",
}

// Location 是地图上的一个圆形交互区域
type Location struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

func (l Location) Center() Vec2 {
	return Vec2{X: l.X, Y: l.Y}
}

type Task struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Completed bool     `json:"completed"`
	Location  Location `json:"location"`
}

// TaskLedger 维护固定数量的任务及其完成状态
type TaskLedger struct {
	tasks []*Task
}

// NewTaskLedger 从模板池生成 count 个任务，模板先用 rng 打乱，rng 为 nil 时保持原顺序
func NewTaskLedger(count int, rng RandSource) *TaskLedger {
	names := make([]string, len(taskTemplates))
	copy(names, taskTemplates)

	if rng != nil {
		rng.Shuffle(len(names), func(i, j int) {
			names[i], names[j] = names[j], names[i]
		})
	}

	tl := &TaskLedger{tasks: make([]*Task, 0, count)}
	for i := 0; i < count; i++ {
		tl.tasks = append(tl.tasks, &Task{
			ID:       i + 1,
			Name:     names[i%len(names)],
			Location: Location{Radius: 20},
		})
	}

	return tl
}

func (tl *TaskLedger) Tasks() []*Task {
	return tl.tasks
}

func (tl *TaskLedger) Get(id int) (*Task, bool) {
	for _, t := range tl.tasks {
		if t.ID == id {
			return t, true
		}
	}

	return nil, false
}

// AssignLocations 为每个任务随机分配地图位置，位置用完后重新取一轮，
// 因此任务数不超过位置数时位置互不重复
func (tl *TaskLedger) AssignLocations(locations []Location, rng RandSource) {
	if len(locations) == 0 {
		return
	}

	var available []Location

	for _, t := range tl.tasks {
		if len(available) == 0 {
			available = make([]Location, len(locations))
			copy(available, locations)
		}

		idx := rng.IntN(len(available))
		t.Location = available[idx]
		available = append(available[:idx], available[idx+1:]...)
	}
}

// Complete 标记任务完成，重复完成同一任务同样返回 true
func (tl *TaskLedger) Complete(id int) bool {
	t, ok := tl.Get(id)
	if !ok {
		return false
	}

	t.Completed = true

	return true
}

func (tl *TaskLedger) AllCompleted() bool {
	for _, t := range tl.tasks {
		if !t.Completed {
			return false
		}
	}

	return true
}

func (tl *TaskLedger) CompletedCount() int {
	n := 0
	for _, t := range tl.tasks {
		if t.Completed {
			n++
		}
	}

	return n
}

func (tl *TaskLedger) CompletionPercentage() float64 {
	if len(tl.tasks) == 0 {
		return 100
	}

	return float64(tl.CompletedCount()) / float64(len(tl.tasks)) * 100
}

func (tl *TaskLedger) Reset() {
	for _, t := range tl.tasks {
		t.Completed = false
	}
}

// FindNear 按存储顺序返回第一个与 pos 距离严格小于 radius 的任务
func (tl *TaskLedger) FindNear(pos Vec2, radius float64) (*Task, bool) {
	for _, t := range tl.tasks {
		if t.Location.Center().Dist(pos) < radius {
			return t, true
		}
	}

	return nil, false
}
