package assist

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zenith-app/zenith-api/tracker"
)

// Recommendation is one piece of study advice.
type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

// StudyRecommendations inspects recently completed tasks and the class
// schedule and produces advice: subjects with fewer than three completions
// get a high-priority nudge, the top three completion hours become a timing
// hint, and a light day (< 3 classes today) becomes a free-slot note.
func StudyRecommendations(tasks []tracker.Task, classes []tracker.ClassItem, now time.Time) []Recommendation {
	subjectCompleted := map[string]int{}
	hourCounts := map[int]int{}

	for _, task := range tasks {
		if !task.Completed {
			continue
		}
		subjectCompleted[task.Subject]++
		if task.CompletedAt != nil {
			hourCounts[task.CompletedAt.Hour()]++
		}
	}

	recommendations := []Recommendation{}

	subjects := make([]string, 0, len(subjectCompleted))
	for subject := range subjectCompleted {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	for _, subject := range subjects {
		completed := subjectCompleted[subject]
		if completed < 3 {
			recommendations = append(recommendations, Recommendation{
				Type:     "subject",
				Priority: "high",
				Message:  fmt.Sprintf("Focus more on %s - you've only completed %d tasks in this subject.", subject, completed),
				Action:   fmt.Sprintf("Schedule dedicated study time for %s", subject),
			})
		}
	}

	if best := topHours(hourCounts, 3); len(best) > 0 {
		labels := make([]string, len(best))
		for i, hour := range best {
			labels[i] = fmt.Sprintf("%d:00", hour)
		}
		recommendations = append(recommendations, Recommendation{
			Type:     "timing",
			Priority: "medium",
			Message:  fmt.Sprintf("Your most productive study hours are %s.", strings.Join(labels, ", ")),
			Action:   "Schedule important tasks during these peak hours",
		})
	}

	today := tracker.Days[int(now.Weekday())]
	todayClasses := 0
	for _, class := range classes {
		if class.Day == today {
			todayClasses++
		}
	}
	if todayClasses < 3 {
		recommendations = append(recommendations, Recommendation{
			Type:     "schedule",
			Priority: "low",
			Message:  fmt.Sprintf("You have %d free time slots today.", 3-todayClasses),
			Action:   "Use this time for focused study sessions",
		})
	}

	return recommendations
}

// topHours returns the n most frequent hours, busiest first, earlier hour
// winning ties so the output is stable.
func topHours(counts map[int]int, n int) []int {
	hours := make([]int, 0, len(counts))
	for hour := range counts {
		hours = append(hours, hour)
	}
	sort.Slice(hours, func(i, j int) bool {
		if counts[hours[i]] != counts[hours[j]] {
			return counts[hours[i]] > counts[hours[j]]
		}
		return hours[i] < hours[j]
	})
	if len(hours) > n {
		hours = hours[:n]
	}
	return hours
}
