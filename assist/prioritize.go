package assist

import (
	"fmt"
	"sort"
	"time"
)

// ScoredTask is a task annotated with its computed priority score.
type ScoredTask struct {
	TaskInput
	AIPriority int `json:"aiPriority"`
}

// PrioritizeAdvice summarizes the score groups.
type PrioritizeAdvice struct {
	HighPriority   string `json:"highPriority"`
	MediumPriority string `json:"mediumPriority"`
	LowPriority    string `json:"lowPriority"`
}

// PrioritizeResult is the prioritization response body.
type PrioritizeResult struct {
	PrioritizedTasks []ScoredTask     `json:"prioritizedTasks"`
	Recommendations  PrioritizeAdvice `json:"recommendations"`
}

var subjectImportance = map[string]int{
	"Mathematics": 8,
	"Science":     7,
	"English":     6,
	"History":     5,
}

const defaultSubjectImportance = 4

// PrioritizeTasks scores each task as priority×10 plus an urgency bonus
// from deadline proximity plus a subject weight, then groups the results:
// ≥25 high, 15–24 medium, <15 low.
func PrioritizeTasks(tasks []TaskInput, now time.Time) PrioritizeResult {
	scored := make([]ScoredTask, 0, len(tasks))
	for _, task := range tasks {
		scored = append(scored, ScoredTask{TaskInput: task, AIPriority: taskScore(task, now)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].AIPriority > scored[j].AIPriority
	})

	var high, medium, low int
	for _, task := range scored {
		switch {
		case task.AIPriority >= 25:
			high++
		case task.AIPriority >= 15:
			medium++
		default:
			low++
		}
	}

	advice := PrioritizeAdvice{
		HighPriority:   "No urgent tasks",
		MediumPriority: "Good progress",
		LowPriority:    "All tasks are prioritized",
	}
	if high > 0 {
		advice.HighPriority = fmt.Sprintf("Focus on %d high-priority tasks first", high)
	}
	if medium > 0 {
		advice.MediumPriority = fmt.Sprintf("%d tasks need attention soon", medium)
	}
	if low > 0 {
		advice.LowPriority = fmt.Sprintf("%d tasks can wait", low)
	}

	return PrioritizeResult{PrioritizedTasks: scored, Recommendations: advice}
}

func taskScore(task TaskInput, now time.Time) int {
	multiplier, ok := priorityMultiplier[task.Priority]
	if !ok {
		multiplier = priorityMultiplier["low"]
	}
	score := int(multiplier) * 10

	if task.Deadline != nil {
		switch days := daysUntil(task.Deadline, now); {
		case days <= 1:
			score += 20
		case days <= 3:
			score += 15
		case days <= 7:
			score += 10
		case days <= 14:
			score += 5
		}
	}

	if weight, ok := subjectImportance[task.Subject]; ok {
		score += weight
	} else {
		score += defaultSubjectImportance
	}
	return score
}
