package main

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// round2 rounds to 2 decimal places (half away from zero)
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// money formats an amount for user-facing messages, trimming trailing zeros
func money(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

// BuildFinancialSummary derives the dashboard summary from one user's raw
// aggregates. Pure computation, no side effects.
//
// The saving status buckets and the ai_message buckets are two independent
// threshold tables that happen to overlap. They are kept separate on
// purpose; do not merge them.
func BuildFinancialSummary(in MetricsInput) FinancialSummary {
	s := FinancialSummary{
		TotalIncome:   in.TotalIncome,
		TotalExpense:  in.TotalExpense,
		ActualSavings: in.TotalSavings,
	}

	s.Balance = in.TotalIncome - in.TotalExpense

	if in.TotalIncome > 0 {
		s.BalancePercentage = round2(s.Balance / in.TotalIncome * 100)
	} else {
		s.BalancePercentage = 0.0
	}

	// Bucket boundaries are closed on the lower end: exactly 10.00 is
	// "Average", not "Poor". Comparisons run on the rounded percentage.
	switch {
	case s.BalancePercentage < 10:
		s.SavingStatus = "⚠ Poor Saving Habit"
	case s.BalancePercentage < 20:
		s.SavingStatus = "🙂 Average Saver"
	case s.BalancePercentage < 30:
		s.SavingStatus = "💪 Good Saving Behavior"
	default:
		s.SavingStatus = "🏆 Excellent Financial Control"
	}

	switch {
	case in.TotalIncome == 0:
		s.AIMessage = "Start adding income to activate AI analysis."
		s.AIColor = "secondary"
	case s.BalancePercentage < 0:
		s.AIMessage = "🚨 Your expenses exceed your income. Immediate financial control is needed."
		s.AIColor = "danger"
	case s.BalancePercentage < 10:
		s.AIMessage = "⚠ Your remaining balance is very low. You are close to overspending."
		s.AIColor = "warning"
	case s.BalancePercentage < 30:
		s.AIMessage = "🙂 Your balance is moderate, but better expense control can improve it."
		s.AIColor = "info"
	case s.BalancePercentage < 50:
		s.AIMessage = "💪 Good job! You are maintaining a healthy remaining balance."
		s.AIColor = "primary"
	default:
		s.AIMessage = "🏆 Excellent! You have strong financial control and a high remaining balance."
		s.AIColor = "success"
	}

	if in.HasExpenseData {
		s.CategoryMessage = fmt.Sprintf("You spend most on %s (₹%s). Consider reducing it.", in.TopCategory, money(in.TopCategoryAmount))
	} else {
		s.CategoryMessage = "No expense data available yet."
	}

	var expenseRatio float64
	if in.TotalIncome > 0 {
		expenseRatio = in.TotalExpense / in.TotalIncome * 100
	}
	switch {
	case expenseRatio > 100:
		s.ExpenseAlert = "🚨 You are spending more than your income!"
	case expenseRatio > 80:
		s.ExpenseAlert = "⚠ Warning: You are close to overspending."
	default:
		s.ExpenseAlert = "✅ Your spending is under control."
	}

	// 50/30/20 rule: a function of income alone, independent of spending
	s.RecommendedNeeds = round2(in.TotalIncome * 0.50)
	s.RecommendedWants = round2(in.TotalIncome * 0.30)
	s.RecommendedSavings = round2(in.TotalIncome * 0.20)

	switch {
	case in.TotalIncome == 0:
		s.SavingsCompareMsg = "Add income to activate savings analysis."
		s.SavingsCompareClr = "secondary"
	case s.ActualSavings > s.RecommendedSavings:
		extra := round2(s.ActualSavings - s.RecommendedSavings)
		s.SavingsCompareMsg = fmt.Sprintf("🔥 You saved ₹%s more than recommended. Excellent discipline!", money(extra))
		s.SavingsCompareClr = "success"
	case s.ActualSavings == s.RecommendedSavings:
		s.SavingsCompareMsg = "🎯 Perfect! You saved exactly as recommended."
		s.SavingsCompareClr = "info"
	case s.ActualSavings < 0:
		s.SavingsCompareMsg = "🚨 You are in deficit. Spending exceeds income."
		s.SavingsCompareClr = "danger"
	default:
		less := round2(s.RecommendedSavings - s.ActualSavings)
		s.SavingsCompareMsg = fmt.Sprintf("⚠ You saved ₹%s less than recommended. Try increasing savings.", money(less))
		s.SavingsCompareClr = "warning"
	}

	return s
}
