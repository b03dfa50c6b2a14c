package assist

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zenith-app/zenith-api/tracker"
)

// TaskInput is the task shape the scheduling and prioritization endpoints
// accept in the request body. It mirrors the tracker task but stays
// decoupled from persistence so clients can score hypothetical tasks.
type TaskInput struct {
	Subject   string     `json:"subject"`
	Topic     string     `json:"topic"`
	Priority  string     `json:"priority"`
	Deadline  *time.Time `json:"deadline"`
	Completed bool       `json:"completed"`
}

// ScheduledTask is one task assigned to a concrete free hour.
type ScheduledTask struct {
	Task              string     `json:"task"`
	Subject           string     `json:"subject"`
	Day               int        `json:"day"`
	DayName           string     `json:"dayName"`
	Hour              int        `json:"hour"`
	Priority          string     `json:"priority"`
	Deadline          *time.Time `json:"deadline"`
	EstimatedDuration string     `json:"estimatedDuration"`
}

// ScheduleResult is the optimizer output.
type ScheduleResult struct {
	OptimizedSchedule []ScheduledTask `json:"optimizedSchedule"`
	Recommendations   []string        `json:"recommendations"`
	AvailableSlots    int             `json:"availableSlots"`
	Message           string          `json:"message"`
}

var priorityMultiplier = map[string]float64{
	"high":   3,
	"medium": 2,
	"low":    1,
}

type freeSlot struct {
	day  int
	hour int
	used bool
}

// OptimizeSchedule slots uncompleted tasks into free one-hour blocks
// between 8:00 and 22:00 around the class schedule. Tasks are ordered by
// priority multiplier over days-until-deadline; morning slots go first.
func OptimizeSchedule(tasks []TaskInput, classes []tracker.ClassItem, now time.Time) ScheduleResult {
	slots := []freeSlot{}
	for day := 0; day < 7; day++ {
		busy := map[int]bool{}
		for _, class := range classes {
			if class.Day != tracker.Days[day] {
				continue
			}
			busy[startHour(class.StartTime)] = true
		}
		for hour := 8; hour < 22; hour++ {
			if !busy[hour] {
				slots = append(slots, freeSlot{day: day, hour: hour})
			}
		}
	}

	pending := []TaskInput{}
	for _, task := range tasks {
		if !task.Completed {
			pending = append(pending, task)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return urgencyScore(pending[i], now) > urgencyScore(pending[j], now)
	})

	scheduled := []ScheduledTask{}
	for _, task := range pending {
		slot := bestSlot(slots)
		if slot == nil {
			continue
		}
		slot.used = true
		scheduled = append(scheduled, ScheduledTask{
			Task:              task.Topic,
			Subject:           task.Subject,
			Day:               slot.day,
			DayName:           tracker.Days[slot.day],
			Hour:              slot.hour,
			Priority:          task.Priority,
			Deadline:          task.Deadline,
			EstimatedDuration: "1 hour",
		})
	}

	recommendations := []string{}
	if len(scheduled) == 0 {
		recommendations = append(recommendations, "No tasks to schedule. Add some tasks first!")
	} else if len(scheduled) < len(pending) {
		recommendations = append(recommendations, "Some tasks couldn't be scheduled due to limited available time slots.")
	}
	for _, item := range scheduled {
		if item.Priority == "high" {
			recommendations = append(recommendations, "High-priority tasks are scheduled during your most productive hours.")
			break
		}
	}

	return ScheduleResult{
		OptimizedSchedule: scheduled,
		Recommendations:   recommendations,
		AvailableSlots:    len(slots),
		Message:           "AI has optimized your study schedule based on your class times and task priorities",
	}
}

func urgencyScore(task TaskInput, now time.Time) float64 {
	multiplier, ok := priorityMultiplier[task.Priority]
	if !ok {
		multiplier = priorityMultiplier["low"]
	}
	return multiplier * (1 / math.Max(1, float64(daysUntil(task.Deadline, now))))
}

// daysUntil rounds up; past deadlines clamp to zero.
func daysUntil(deadline *time.Time, now time.Time) int {
	if deadline == nil {
		return 0
	}
	days := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// bestSlot prefers mornings; slot order preserves the day/hour scan so
// within each half-day earlier slots win.
func bestSlot(slots []freeSlot) *freeSlot {
	var afternoon *freeSlot
	for i := range slots {
		if slots[i].used {
			continue
		}
		if slots[i].hour < 12 {
			return &slots[i]
		}
		if afternoon == nil {
			afternoon = &slots[i]
		}
	}
	return afternoon
}

func startHour(clock string) int {
	parts := strings.SplitN(clock, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 9
	}
	return hour
}
