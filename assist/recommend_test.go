package assist_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenith-app/zenith-api/assist"
	"github.com/zenith-app/zenith-api/tracker"
)

func completedTask(subject string, at time.Time) tracker.Task {
	return tracker.Task{
		Subject:     subject,
		Topic:       "done",
		Completed:   true,
		CompletedAt: &at,
	}
}

func TestStudyRecommendations(t *testing.T) {
	// a Monday
	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

	t.Run("no history still reports free time", func(t *testing.T) {
		recommendations := assist.StudyRecommendations(nil, nil, now)

		require.Len(t, recommendations, 1)
		assert.Equal(t, "schedule", recommendations[0].Type)
		assert.Equal(t, "You have 3 free time slots today.", recommendations[0].Message)
	})

	t.Run("neglected subjects get a high-priority nudge", func(t *testing.T) {
		at := now.Add(-24 * time.Hour)
		tasks := []tracker.Task{
			completedTask("Mathematics", at),
			completedTask("Mathematics", at),
			completedTask("Mathematics", at),
			completedTask("Science", at),
		}

		recommendations := assist.StudyRecommendations(tasks, nil, now)

		var subjectRecs []assist.Recommendation
		for _, rec := range recommendations {
			if rec.Type == "subject" {
				subjectRecs = append(subjectRecs, rec)
			}
		}
		require.Len(t, subjectRecs, 1, "only the subject below three completions is flagged")
		assert.Equal(t, "high", subjectRecs[0].Priority)
		assert.Equal(t, "Focus more on Science - you've only completed 1 tasks in this subject.", subjectRecs[0].Message)
		assert.Equal(t, "Schedule dedicated study time for Science", subjectRecs[0].Action)
	})

	t.Run("uncompleted tasks do not count", func(t *testing.T) {
		tasks := []tracker.Task{
			{Subject: "Science", Topic: "pending"},
		}

		recommendations := assist.StudyRecommendations(tasks, nil, now)
		for _, rec := range recommendations {
			assert.NotEqual(t, "subject", rec.Type)
		}
	})

	t.Run("the busiest completion hours become a timing hint", func(t *testing.T) {
		day := time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)
		tasks := []tracker.Task{
			completedTask("Math", day.Add(9*time.Hour)),
			completedTask("Math", day.Add(9*time.Hour+10*time.Minute)),
			completedTask("Math", day.Add(14*time.Hour)),
			completedTask("Math", day.Add(14*time.Hour+30*time.Minute)),
			completedTask("Math", day.Add(20*time.Hour)),
		}

		recommendations := assist.StudyRecommendations(tasks, nil, now)

		var timing *assist.Recommendation
		for i := range recommendations {
			if recommendations[i].Type == "timing" {
				timing = &recommendations[i]
			}
		}
		require.NotNil(t, timing)
		assert.Equal(t, "medium", timing.Priority)
		assert.Equal(t, "Your most productive study hours are 9:00, 14:00, 20:00.", timing.Message)
	})

	t.Run("a full class day suppresses the free-slot note", func(t *testing.T) {
		classes := []tracker.ClassItem{
			{Subject: "A", Day: tracker.DayMon},
			{Subject: "B", Day: tracker.DayMon},
			{Subject: "C", Day: tracker.DayMon},
			{Subject: "D", Day: tracker.DayTue},
		}

		recommendations := assist.StudyRecommendations(nil, classes, now)
		for _, rec := range recommendations {
			assert.NotEqual(t, "schedule", rec.Type)
		}
	})

	t.Run("classes on other days leave today light", func(t *testing.T) {
		classes := []tracker.ClassItem{
			{Subject: "A", Day: tracker.DayTue},
			{Subject: "B", Day: tracker.DayMon},
		}

		recommendations := assist.StudyRecommendations(nil, classes, now)

		require.Len(t, recommendations, 1)
		assert.Equal(t, "You have 2 free time slots today.", recommendations[0].Message)
	})
}
