package validate

import (
	"testing"

	"lifepath_planner/pkg/models"
)

func modelWith(income, expenses float64) *models.UnifiedModel {
	m := &models.UnifiedModel{Preferences: models.DefaultPreferences()}
	if income > 0 {
		m.Income = append(m.Income, models.Income{ID: "inc-1", Name: "Salary", MonthlyAmount: income})
	}
	if expenses > 0 {
		m.Expenses = append(m.Expenses, models.Expense{ID: "exp-1", Category: "Rent", MonthlyAmount: expenses})
	}
	m.RecomputeSummary()
	return m
}

func hasWarning(warnings []Warning, code string) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func TestCheckModelHealthyBudget(t *testing.T) {
	// 5000 in, 3000 out: surplus ratio 0.4, inside both thresholds
	warnings := CheckModel(modelWith(5000, 3000), nil)
	if len(warnings) != 0 {
		t.Errorf("Healthy budget produced warnings: %v", warnings)
	}
}

func TestCheckIncomeHeavy(t *testing.T) {
	// 5000 in, 1000 out: surplus is 80% of income
	warnings := CheckModel(modelWith(5000, 1000), nil)
	if !hasWarning(warnings, "income_heavy") {
		t.Errorf("Expected income_heavy, got %v", warnings)
	}
}

func TestCheckExpenseHeavy(t *testing.T) {
	// 2000 in, 3500 out: deficit is 75% of income
	warnings := CheckModel(modelWith(2000, 3500), nil)
	if !hasWarning(warnings, "expense_heavy") {
		t.Errorf("Expected expense_heavy, got %v", warnings)
	}
}

func TestCheckZeroIncomeSkipsRatio(t *testing.T) {
	warnings := CheckModel(modelWith(0, 2000), nil)
	if hasWarning(warnings, "income_heavy") || hasWarning(warnings, "expense_heavy") {
		t.Errorf("Ratio checks must skip zero income, got %v", warnings)
	}
}

func TestCheckSuspectIncomeNames(t *testing.T) {
	m := modelWith(5000, 3000)
	m.Income = append(m.Income, models.Income{ID: "inc-2", Name: "Rent payment", MonthlyAmount: 1800})
	m.RecomputeSummary()

	warnings := CheckModel(m, nil)
	if !hasWarning(warnings, "income_name_suspect") {
		t.Errorf("Expected income_name_suspect, got %v", warnings)
	}
}

func TestCheckSilentNormalizationFailure(t *testing.T) {
	// All-positive source with >2 lines produced a model with zero expenses
	m := modelWith(9000, 0)
	draft := &models.DraftModel{Lines: []models.RawLine{
		{RowIndex: 0, Amount: 5000},
		{RowIndex: 1, Amount: 1800},
		{RowIndex: 2, Amount: 450},
		{RowIndex: 3, Amount: 65},
	}}

	warnings := CheckModel(m, draft)
	if !hasWarning(warnings, "no_expenses") {
		t.Errorf("Expected no_expenses, got %v", warnings)
	}
}

func TestCheckSilentFailureNeedsPositiveOnlyInput(t *testing.T) {
	// A negative source line means the signs were real; zero expenses is
	// then the model's business, not a normalization failure
	m := modelWith(9000, 0)
	draft := &models.DraftModel{Lines: []models.RawLine{
		{RowIndex: 0, Amount: 5000},
		{RowIndex: 1, Amount: -1800},
		{RowIndex: 2, Amount: 450},
		{RowIndex: 3, Amount: 65},
	}}

	warnings := CheckModel(m, draft)
	if hasWarning(warnings, "no_expenses") {
		t.Errorf("no_expenses fired on mixed-sign input: %v", warnings)
	}
}

func TestCheckSilentFailureSkipsTinyInputs(t *testing.T) {
	m := modelWith(5000, 0)
	draft := &models.DraftModel{Lines: []models.RawLine{
		{RowIndex: 0, Amount: 5000},
		{RowIndex: 1, Amount: 1800},
	}}

	warnings := CheckModel(m, draft)
	if hasWarning(warnings, "no_expenses") {
		t.Errorf("no_expenses fired on a 2-line input: %v", warnings)
	}
}
