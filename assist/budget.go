package assist

import (
	"fmt"
	"math"
	"sort"

	"github.com/zenith-app/zenith-api/tracker"
)

// Insight is one piece of budget advice.
type Insight struct {
	Type           string `json:"type"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

// BudgetSummary is the aggregate block returned with the insights.
type BudgetSummary struct {
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpense     float64 `json:"totalExpense"`
	SavingsRate      string  `json:"savingsRate"`
	TransactionCount int     `json:"transactionCount"`
	CategoryCount    int     `json:"categoryCount"`
}

// InsightsResult is the budget-insights response body.
type InsightsResult struct {
	Insights []Insight     `json:"insights"`
	Summary  BudgetSummary `json:"summary"`
}

// BudgetInsights analyzes one month of ledger entries: category
// concentration, expense-to-income ratio, savings rate, high-spend days
// against the daily average, and week-to-week variance.
func BudgetInsights(transactions []tracker.Transaction) InsightsResult {
	categorySpending := map[string]float64{}
	dailySpending := map[int]float64{}
	weeklySpending := map[int]float64{}
	var totalIncome, totalExpense float64

	for _, t := range transactions {
		if t.Type == tracker.TransactionIncome {
			totalIncome += t.Amount
			continue
		}
		totalExpense += t.Amount
		categorySpending[t.Category] += t.Amount
		day := t.Date.Day()
		dailySpending[day] += t.Amount
		weeklySpending[(day+6)/7] += t.Amount
	}

	insights := []Insight{}

	if totalIncome == 0 && totalExpense == 0 {
		insights = append(insights, Insight{
			Type:           "info",
			Message:        "No financial data found for this month.",
			Recommendation: "Start tracking your income and expenses to get personalized insights",
		})
		return InsightsResult{Insights: insights, Summary: summarize(transactions, totalIncome, totalExpense, len(categorySpending))}
	}

	if category, amount, ok := topCategory(categorySpending); ok {
		percentage := amount / totalExpense * 100
		recommendation := "Good balance in this category."
		if percentage > 40 {
			recommendation = "This category is taking up a large portion of your budget. Consider setting spending limits."
		} else if percentage > 25 {
			recommendation = "Monitor this category to ensure it stays within reasonable limits."
		}
		insights = append(insights, Insight{
			Type:           "spending",
			Message:        fmt.Sprintf("%s accounts for %.1f%% of your expenses this month.", category, percentage),
			Recommendation: recommendation,
		})

		if len(categorySpending) < 3 {
			insights = append(insights, Insight{
				Type:           "diversity",
				Message:        fmt.Sprintf("You're spending in only %d categories this month.", len(categorySpending)),
				Recommendation: "Consider diversifying your spending to better track where your money goes",
			})
		}
	}

	if totalIncome > 0 {
		expenseRatio := totalExpense / totalIncome * 100
		switch {
		case expenseRatio > 90:
			insights = append(insights, Insight{
				Type:           "warning",
				Message:        fmt.Sprintf("Your expenses are %.1f%% of your income.", expenseRatio),
				Recommendation: "Try to reduce expenses or increase income to build savings",
			})
		case expenseRatio > 80:
			insights = append(insights, Insight{
				Type:           "caution",
				Message:        fmt.Sprintf("Your expenses are %.1f%% of your income.", expenseRatio),
				Recommendation: "Good control, but aim to keep expenses under 80% for better financial health",
			})
		default:
			insights = append(insights, Insight{
				Type:           "success",
				Message:        fmt.Sprintf("Your expenses are %.1f%% of your income.", expenseRatio),
				Recommendation: "Excellent financial management! You're living well within your means",
			})
		}

		savingsRate := (totalIncome - totalExpense) / totalIncome * 100
		switch {
		case savingsRate < 0:
			insights = append(insights, Insight{
				Type:           "danger",
				Message:        fmt.Sprintf("You're spending %.1f%% more than you earn this month.", math.Abs(savingsRate)),
				Recommendation: "Immediate action needed: reduce expenses or find additional income sources",
			})
		case savingsRate < 10:
			insights = append(insights, Insight{
				Type:           "warning",
				Message:        fmt.Sprintf("Your savings rate is %.1f%%.", savingsRate),
				Recommendation: "Aim for at least 10% savings rate for financial security",
			})
		case savingsRate < 20:
			insights = append(insights, Insight{
				Type:           "caution",
				Message:        fmt.Sprintf("Your savings rate is %.1f%%.", savingsRate),
				Recommendation: "Good progress! Aim for 20% savings rate for better financial freedom",
			})
		default:
			insights = append(insights, Insight{
				Type:           "success",
				Message:        fmt.Sprintf("Your savings rate is %.1f%%.", savingsRate),
				Recommendation: "Outstanding! You're building excellent financial security",
			})
		}
	}

	if len(dailySpending) > 0 {
		avgDaily := totalExpense / float64(len(dailySpending))
		highDays := 0
		for _, amount := range dailySpending {
			if amount > avgDaily*1.5 {
				highDays++
			}
		}
		if highDays > 0 {
			insights = append(insights, Insight{
				Type:           "pattern",
				Message:        fmt.Sprintf("You have %d high-spending days this month (spending >%.0f).", highDays, avgDaily*1.5),
				Recommendation: "Identify what triggers high-spending days and plan your budget accordingly",
			})
		}

		if len(weeklySpending) > 1 {
			var sum, maxWeek float64
			minWeek := math.MaxFloat64
			for _, amount := range weeklySpending {
				sum += amount
				maxWeek = math.Max(maxWeek, amount)
				minWeek = math.Min(minWeek, amount)
			}
			avgWeekly := sum / float64(len(weeklySpending))
			if maxWeek > avgWeekly*1.3 {
				insights = append(insights, Insight{
					Type:           "pattern",
					Message:        fmt.Sprintf("Your spending varies significantly between weeks (%.0f to %.0f).", minWeek, maxWeek),
					Recommendation: "Try to maintain more consistent weekly spending for better budget control",
				})
			}
		}
	}

	if totalIncome > 0 && totalExpense > 0 {
		if savings := totalIncome - totalExpense; savings > 0 {
			insights = append(insights, Insight{
				Type:           "goal",
				Message:        fmt.Sprintf("You're saving $%.2f monthly.", savings),
				Recommendation: "Consider setting specific savings goals and automating transfers",
			})
		}
	}

	return InsightsResult{
		Insights: insights,
		Summary:  summarize(transactions, totalIncome, totalExpense, len(categorySpending)),
	}
}

func summarize(transactions []tracker.Transaction, income, expense float64, categories int) BudgetSummary {
	rate := "0"
	if income > 0 {
		rate = fmt.Sprintf("%.1f", (income-expense)/income*100)
	}
	return BudgetSummary{
		TotalIncome:      income,
		TotalExpense:     expense,
		SavingsRate:      rate,
		TransactionCount: len(transactions),
		CategoryCount:    categories,
	}
}

// topCategory breaks amount ties by name so the result is stable.
func topCategory(spending map[string]float64) (string, float64, bool) {
	if len(spending) == 0 {
		return "", 0, false
	}
	names := make([]string, 0, len(spending))
	for name := range spending {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if spending[names[i]] != spending[names[j]] {
			return spending[names[i]] > spending[names[j]]
		}
		return names[i] < names[j]
	})
	return names[0], spending[names[0]], true
}
