package todo

import "math"

// Stats are the aggregate counts shown on the dashboard.
type Stats struct {
	CompletedCount      int `json:"completedCount"`
	ActiveCount         int `json:"activeCount"`
	HighPriorityCount   int `json:"highPriorityCount"`
	MediumPriorityCount int `json:"mediumPriorityCount"`
	LowPriorityCount    int `json:"lowPriorityCount"`
	CompletionRate      int `json:"completionRate"`
}

// ComputeStats derives dashboard stats from the current collection. It holds
// no state and is recomputed in full on every call. CompletionRate is the
// rounded percentage of completed todos, zero for an empty collection.
func ComputeStats(todos []Todo) Stats {
	var stats Stats

	for _, t := range todos {
		if t.Completed() {
			stats.CompletedCount++
		} else {
			stats.ActiveCount++
		}

		switch t.Priority {
		case PriorityHigh:
			stats.HighPriorityCount++
		case PriorityMedium:
			stats.MediumPriorityCount++
		case PriorityLow:
			stats.LowPriorityCount++
		}
	}

	if total := len(todos); total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.CompletedCount) / float64(total) * 100))
	}

	return stats
}
