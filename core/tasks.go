package core

// Cooperative task list for the main loop: a sorted linked list of wake
// times dispatched from Poll. Tasks run in loop context, never in an
// interrupt, so handlers may persist settings and emit diagnostics.

// Task represents a scheduled main-loop event
type Task struct {
	WakeTime uint32
	Handler  func(t *Task, now uint32) uint8
	Next     *Task
}

const (
	taskDone       = 0
	taskReschedule = 1
)

var taskList *Task

// scheduleTask inserts a task in wake-time order
func scheduleTask(t *Task) {
	state := disableInterrupts()
	insertTask(t)
	restoreInterrupts(state)
}

func insertTask(t *Task) {
	if taskList == nil || int32(t.WakeTime-taskList.WakeTime) < 0 {
		t.Next = taskList
		taskList = t
		return
	}

	current := taskList
	for current.Next != nil && int32(current.Next.WakeTime-t.WakeTime) < 0 {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// dispatchTasks runs every task whose wake time has been reached
func dispatchTasks(now uint32) {
	for taskList != nil && ticksReached(now, taskList.WakeTime) {
		t := taskList
		taskList = t.Next
		t.Next = nil

		if t.Handler(t, now) == taskReschedule {
			scheduleTask(t)
		}
	}
}

func resetTasks() {
	taskList = nil
}
