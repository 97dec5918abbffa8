package task

// Stats summarizes a task collection.
type Stats struct {
	Total     int `json:"total" yaml:"total"`
	Completed int `json:"completed" yaml:"completed"`
	Active    int `json:"active" yaml:"active"`
	// Progress is the completed share as a whole percentage, 0 when empty.
	Progress int `json:"progressPercentage" yaml:"progressPercentage"`
}

// ComputeStats derives the summary for tasks.
func ComputeStats(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Active = s.Total - s.Completed
	s.Progress = percent(s.Completed, s.Total)
	return s
}

// AllComplete reports the milestone state: a non-empty collection at 100%.
func (s Stats) AllComplete() bool {
	return s.Total > 0 && s.Progress == 100
}

// percent rounds 100*part/whole half up without floating point.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}
