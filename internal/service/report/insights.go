package report

import (
	"fmt"

	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
	"github.com/dinerozz/productivity-tracker-backend/pkg/utils"
)

const (
	insightPositive = "positive"
	insightWarning  = "warning"
	insightInfo     = "info"

	highProductivityScore = 80
	lowProductivityScore  = 40
	highScreenTimeHours   = 8

	productiveWeekScore = 70
	focusedWeekSessions = 5
)

func dailyInsights(summary entity.Summary) []entity.Insight {
	insights := []entity.Insight{}

	switch score := summary.ProductivityScore; {
	case score >= highProductivityScore:
		insights = append(insights, entity.Insight{
			Type:    insightPositive,
			Title:   "Excellent Productivity!",
			Message: fmt.Sprintf("You had a highly productive day with a %d%% productivity score.", score),
		})
	case score <= lowProductivityScore:
		insights = append(insights, entity.Insight{
			Type:    insightWarning,
			Title:   "Low Productivity",
			Message: fmt.Sprintf("Your productivity score was %d%%. Consider reducing time on distracting sites.", score),
		})
	}

	if completed := completedSessions(summary.FocusSessions); completed > 0 {
		plural := ""
		if completed > 1 {
			plural = "s"
		}
		insights = append(insights, entity.Insight{
			Type:    insightPositive,
			Title:   "Great Focus!",
			Message: fmt.Sprintf("You completed %d focus session%s today.", completed, plural),
		})
	}

	if hours := utils.WholeHours(summary.TotalTimeSpentMs); hours > highScreenTimeHours {
		insights = append(insights, entity.Insight{
			Type:    insightInfo,
			Title:   "High Screen Time",
			Message: fmt.Sprintf("You spent %d hours online today. Consider taking regular breaks.", hours),
		})
	}

	return insights
}

func weeklyInsights(summary entity.PeriodSummary) []entity.Insight {
	insights := []entity.Insight{}

	if summary.ActiveDays > 0 && summary.AverageProductivityScore >= productiveWeekScore {
		insights = append(insights, entity.Insight{
			Type:    insightPositive,
			Title:   "Productive Week!",
			Message: fmt.Sprintf("Your average productivity score was %d%% this week.", summary.AverageProductivityScore),
		})
	}

	if summary.FocusSessionsCompleted >= focusedWeekSessions {
		insights = append(insights, entity.Insight{
			Type:    insightPositive,
			Title:   "Focused Week",
			Message: fmt.Sprintf("You completed %d focus sessions this week.", summary.FocusSessionsCompleted),
		})
	}

	return insights
}

func monthlyInsights(summary entity.PeriodSummary) []entity.Insight {
	var avgHours int64
	if summary.ActiveDays > 0 {
		avgHours = utils.WholeHours(summary.TotalTimeMs / int64(summary.ActiveDays))
	}

	return []entity.Insight{{
		Type:    insightInfo,
		Title:   "Monthly Overview",
		Message: fmt.Sprintf("You were active %d days this month with an average of %d hours daily.", summary.ActiveDays, avgHours),
	}}
}

func customInsights(summary entity.PeriodSummary) []entity.Insight {
	insights := []entity.Insight{}
	if summary.ActiveDays > 0 {
		insights = append(insights, entity.Insight{
			Type:    insightInfo,
			Title:   "Period Summary",
			Message: fmt.Sprintf("Over %d days, your average productivity score was %d%%.", summary.ActiveDays, summary.AverageProductivityScore),
		})
	}
	return insights
}
