// Package classify assigns normalized budget lines to the Income, Expense,
// and Debt collections and gives every entry a unique human-readable label.
package classify

import (
	"fmt"
	"math"

	"lifepath_planner/pkg/models"
)

// Classify builds a UnifiedModel from a normalized draft.
//
// The cascade is strict precedence, first match wins:
//  1. a line-type tag from the service normalization strategy
//  2. income keyword match
//  3. debt keyword match
//  4. amount already negative -> expense
//  5. expense keyword match -> expense
//  6. default -> expense (unlabeled lines are more often costs than income)
//
// Zero-amount lines are dropped before classification. Every amount is stored
// as a non-negative magnitude; collection membership carries the sign.
func Classify(draft *models.DraftModel) *models.UnifiedModel {
	model := &models.UnifiedModel{
		Preferences: models.DefaultPreferences(),
		Notes:       draft.Notes,
	}

	incomeLabels := NewLabelPicker()
	expenseLabels := NewLabelPicker()
	debtLabels := NewLabelPicker()

	zeroDropped := 0
	for _, line := range draft.Lines {
		if line.Amount == 0 {
			zeroDropped++
			continue
		}

		switch decide(line) {
		case binIncome:
			model.Income = append(model.Income, models.Income{
				ID:            fmt.Sprintf("inc-%d", len(model.Income)+1),
				Name:          incomeLabels.Pick(line.Category, line.Description),
				MonthlyAmount: math.Abs(line.Amount),
				Type:          incomeType(line),
				Stability:     models.StabilityStable,
			})
		case binDebt:
			model.Debts = append(model.Debts, models.Debt{
				ID:          fmt.Sprintf("debt-%d", len(model.Debts)+1),
				Name:        debtLabels.Pick(line.Category, line.Description),
				MinPayment:  math.Abs(line.Amount),
				Priority:    models.PriorityMedium,
				Approximate: true,
			})
		default:
			model.Expenses = append(model.Expenses, models.Expense{
				ID:            fmt.Sprintf("exp-%d", len(model.Expenses)+1),
				Category:      expenseLabels.Pick(line.Category, line.Description),
				MonthlyAmount: math.Abs(line.Amount),
				Essential:     models.EssentialUnknown,
			})
		}
	}

	if zeroDropped > 0 {
		fmt.Printf("[CLASSIFY] Dropped %d zero-amount lines\n", zeroDropped)
	}
	fmt.Printf("[CLASSIFY] %d income, %d expenses, %d debts\n",
		len(model.Income), len(model.Expenses), len(model.Debts))

	model.RecomputeSummary()
	return model
}

type bin int

const (
	binExpense bin = iota
	binIncome
	binDebt
)

// decide runs the precedence cascade for one line.
func decide(line models.RawLine) bin {
	switch line.Meta(models.MetaLineType) {
	case models.LineTypeIncome, models.LineTypeTransfer:
		return binIncome
	case models.LineTypeDebtPayment:
		return binDebt
	case models.LineTypeExpense, models.LineTypeSavings:
		return binExpense
	}

	text := line.Category + " " + line.Description
	if MatchesIncome(text) {
		return binIncome
	}
	if MatchesDebt(text) {
		return binDebt
	}
	if line.Amount < 0 {
		return binExpense
	}
	if MatchesExpense(text) {
		return binExpense
	}
	return binExpense
}

// incomeType maps a transfer tag to the transfer sub-type; everything else
// starts as earned until enrichment refines it.
func incomeType(line models.RawLine) string {
	if line.Meta(models.MetaLineType) == models.LineTypeTransfer {
		return models.IncomeTransfer
	}
	return models.IncomeEarned
}
