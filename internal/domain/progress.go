package domain

// Progress returns the integer completion percentage for a task set:
// the share of tasks in COMPLETED status, rounded half-up. An empty
// task set is 0, never a division error.
func Progress(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.Status == StatusCompleted {
			completed++
		}
	}
	// Integer round-half-up of 100*completed/total.
	return (200*completed + len(tasks)) / (2 * len(tasks))
}
