package messages

import (
	"fmt"
	"strings"

	"max.ks1230/expense-tracker/internal/entity/datekey"
	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/model/analytics"
	"max.ks1230/expense-tracker/internal/model/compare"
)

func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	split := strings.SplitN(text, " ", 2)
	if len(split) == 2 {
		return split[0], strings.TrimSpace(split[1])
	}
	return split[0], ""
}

func splitArgs(arg string) []string {
	split := strings.Split(arg, ";")
	for i := range split {
		split[i] = strings.TrimSpace(split[i])
	}
	return split
}

func isMonthKey(tok string) bool {
	_, err := datekey.ParseMonth(tok)
	return err == nil
}

// matchCategory resolves a user token to a canonical category name.
// "all" clears the filter.
func matchCategory(tok string) (string, bool) {
	if strings.EqualFold(tok, "all") {
		return "All", true
	}
	for _, cat := range expense.Categories {
		if strings.EqualFold(tok, cat) {
			return cat, true
		}
	}
	return "", false
}

func reportViewKey(month string) string {
	return "report:" + month
}

func renderRecords(records []expense.Record) string {
	var sb strings.Builder
	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("%s | %s: %.2f (%s)",
			rec.Date.Format(dateLayout), rec.Title, rec.Amount, rec.Category))
		if rec.Note != "" {
			sb.WriteString(" / " + rec.Note)
		}
		sb.WriteString(fmt.Sprintf("\n    id: %s\n", rec.ID))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderReport(month string, byCategory []analytics.CategoryTotal,
	usage analytics.BudgetUsage, total, prevTotal, avgDaily float64) string {
	var sb strings.Builder
	sb.WriteString("Report for " + month + ":\n")
	for _, ct := range byCategory {
		sb.WriteString(fmt.Sprintf("%s: %.2f\n", ct.Category, ct.Total))
	}
	sb.WriteString(fmt.Sprintf("Total: %.2f\n", analytics.Round2(total)))
	sb.WriteString(fmt.Sprintf("Average per day: %.2f\n", avgDaily))

	if cmp, ok := compare.Months(total, prevTotal); ok {
		switch cmp.Direction {
		case compare.Increase:
			sb.WriteString(fmt.Sprintf("Up %.2f (%.1f%%) vs previous month\n",
				cmp.Difference, cmp.Percentage))
		case compare.Decrease:
			sb.WriteString(fmt.Sprintf("Down %.2f (%.1f%%) vs previous month\n",
				cmp.Difference, cmp.Percentage))
		default:
			sb.WriteString("Same as previous month\n")
		}
	}

	if usage.Budget > 0 {
		sb.WriteString(fmt.Sprintf("Budget: %.2f spent of %.2f (%.1f%%)",
			usage.Spent, usage.Budget, usage.Percentage))
		if usage.Over {
			sb.WriteString(", over budget!")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderTotals(header string, totals []analytics.PeriodTotal) string {
	var sb strings.Builder
	sb.WriteString(header + "\n")
	for _, pt := range totals {
		sb.WriteString(fmt.Sprintf("%s: %.2f\n", pt.Key, pt.Total))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderTop(records []expense.Record) string {
	var sb strings.Builder
	sb.WriteString("Top expenses this month:\n")
	for i, rec := range records {
		sb.WriteString(fmt.Sprintf("%d. %s: %.2f (%s)\n", i+1, rec.Title, rec.Amount, rec.Category))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderBudget(usage analytics.BudgetUsage) string {
	if usage.Budget == 0 {
		return fmt.Sprintf("No budget set. Spent this month: %.2f", usage.Spent)
	}
	res := fmt.Sprintf("Spent %.2f of %.2f this month (%.1f%%)",
		usage.Spent, usage.Budget, usage.Percentage)
	if usage.Over {
		res += "\nYou are over budget!"
	}
	return res
}

func renderImported(count int) string {
	return fmt.Sprintf("Successfully imported %d new expenses", count)
}
