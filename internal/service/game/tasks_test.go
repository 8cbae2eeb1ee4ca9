package game

import "testing"

func TestTaskLedger_CompleteIsIdempotent(t *testing.T) {
	tl := NewTaskLedger(5, nil)

	if !tl.Complete(3) {
		t.Fatalf("completing an existing task should succeed")
	}

	if !tl.Complete(3) {
		t.Fatalf("completing a task twice should still succeed")
	}

	if got := tl.CompletedCount(); got != 1 {
		t.Fatalf("want 1 completed task, got %d", got)
	}

	if tl.Complete(42) {
		t.Fatalf("completing an unknown task should fail")
	}

	if got := tl.CompletedCount(); got != 1 {
		t.Fatalf("unknown task must not change the ledger, got %d", got)
	}
}

func TestTaskLedger_AllCompletedAndPercentage(t *testing.T) {
	tl := NewTaskLedger(5, NewRandSource(1))

	if tl.AllCompleted() {
		t.Fatalf("fresh ledger should not be complete")
	}

	for i, task := range tl.Tasks() {
		if task.ID != i+1 {
			t.Fatalf("task ids should be 1-based and sequential, got %d at %d", task.ID, i)
		}

		tl.Complete(task.ID)

		want := float64(i+1) / 5 * 100
		if got := tl.CompletionPercentage(); got != want {
			t.Fatalf("want %.0f%% after %d tasks, got %v", want, i+1, got)
		}
	}

	if !tl.AllCompleted() {
		t.Fatalf("ledger should be complete after finishing all tasks")
	}

	tl.Reset()

	if tl.CompletedCount() != 0 || tl.AllCompleted() {
		t.Fatalf("Reset should clear every completion flag")
	}
}

func TestTaskLedger_EmptyLedgerIsComplete(t *testing.T) {
	tl := NewTaskLedger(0, nil)

	if !tl.AllCompleted() {
		t.Fatalf("empty ledger should be complete")
	}

	if got := tl.CompletionPercentage(); got != 100 {
		t.Fatalf("empty ledger should report 100%%, got %v", got)
	}
}

func TestTaskLedger_NamesCycleTemplates(t *testing.T) {
	tl := NewTaskLedger(len(taskTemplates)+2, nil)

	tasks := tl.Tasks()
	if tasks[len(taskTemplates)].Name != taskTemplates[0] {
		t.Fatalf("names should cycle through the template pool, got %q", tasks[len(taskTemplates)].Name)
	}
}

func TestTaskLedger_AssignLocationsDistinct(t *testing.T) {
	tl := NewTaskLedger(5, nil)
	locations := newOpenWorld().TaskLocations()

	tl.AssignLocations(locations, NewRandSource(9))

	seen := make(map[Location]bool)
	for _, task := range tl.Tasks() {
		if seen[task.Location] {
			t.Fatalf("location %+v assigned twice", task.Location)
		}
		seen[task.Location] = true
	}

	if len(seen) != 5 {
		t.Fatalf("want 5 distinct locations, got %d", len(seen))
	}
}

func TestTaskLedger_FindNearIsStrict(t *testing.T) {
	tl := NewTaskLedger(2, nil)
	tl.Tasks()[0].Location = Location{X: 100, Y: 100, Radius: 20}
	tl.Tasks()[1].Location = Location{X: 300, Y: 100, Radius: 20}

	if task, ok := tl.FindNear(Vec2{X: 130, Y: 100}, 50); !ok || task.ID != 1 {
		t.Fatalf("want task 1 within range, got %v %v", task, ok)
	}

	if _, ok := tl.FindNear(Vec2{X: 150, Y: 100}, 50); ok {
		t.Fatalf("a task exactly at the radius must not count as near")
	}
}

func TestTaskLedger_AssignLocationsCyclesWhenShort(t *testing.T) {
	tl := NewTaskLedger(7, nil)
	locations := newOpenWorld().TaskLocations()

	tl.AssignLocations(locations, NewRandSource(3))

	valid := make(map[Location]bool)
	for _, loc := range locations {
		valid[loc] = true
	}

	firstRound := make(map[Location]bool)
	for i, task := range tl.Tasks() {
		if !valid[task.Location] {
			t.Fatalf("task %d got location %+v outside the map set", task.ID, task.Location)
		}

		if i < len(locations) {
			if firstRound[task.Location] {
				t.Fatalf("location %+v repeated before the first round finished", task.Location)
			}
			firstRound[task.Location] = true
		}
	}

	empty := NewTaskLedger(2, nil)
	empty.AssignLocations(nil, NewRandSource(3))

	if empty.Tasks()[0].Location != (Location{Radius: 20}) {
		t.Fatalf("no locations should leave tasks untouched, got %+v", empty.Tasks()[0].Location)
	}
}
