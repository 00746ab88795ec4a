// Package validate sanity-checks an assembled UnifiedModel against its source
// draft. Every finding is advisory: warnings are logged and attached to the
// model notes but never block persistence.
package validate

import (
	"fmt"
	"strings"

	"lifepath_planner/pkg/models"
)

// Warning is a single advisory finding.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Surplus ratio thresholds for the over-classification checks.
const (
	incomeHeavyRatio  = 0.7
	expenseHeavyRatio = -0.5
)

// hardExpenseKeywords are names that almost never belong on an income entry.
var hardExpenseKeywords = []string{
	"rent", "mortgage", "groceries", "utilities", "insurance",
	"food", "transportation", "phone", "internet",
}

// CheckModel runs all advisory checks and returns the findings.
func CheckModel(model *models.UnifiedModel, draft *models.DraftModel) []Warning {
	var warnings []Warning

	warnings = append(warnings, checkSurplusRatio(model)...)
	warnings = append(warnings, checkIncomeNames(model)...)
	warnings = append(warnings, checkSilentFailure(model, draft)...)

	for _, w := range warnings {
		fmt.Printf("[VALIDATE] WARNING %s: %s\n", w.Code, w.Message)
	}
	return warnings
}

// checkSurplusRatio flags classifications that leave the budget implausibly
// lopsided in either direction.
func checkSurplusRatio(model *models.UnifiedModel) []Warning {
	if model.Summary.TotalIncome == 0 {
		return nil
	}
	ratio := model.Summary.Surplus / model.Summary.TotalIncome
	switch {
	case ratio > incomeHeavyRatio:
		return []Warning{{
			Code:    "income_heavy",
			Message: fmt.Sprintf("surplus is %.0f%% of income; some expenses may have been classified as income", ratio*100),
		}}
	case ratio < expenseHeavyRatio:
		return []Warning{{
			Code:    "expense_heavy",
			Message: fmt.Sprintf("deficit is %.0f%% of income; some income may have been classified as expense", -ratio*100),
		}}
	}
	return nil
}

// checkIncomeNames flags income entries whose names contain hard expense
// keywords.
func checkIncomeNames(model *models.UnifiedModel) []Warning {
	var warnings []Warning
	for _, inc := range model.Income {
		name := strings.ToLower(inc.Name)
		for _, kw := range hardExpenseKeywords {
			if strings.Contains(name, kw) {
				warnings = append(warnings, Warning{
					Code:    "income_name_suspect",
					Message: fmt.Sprintf("income entry %q (%s) contains expense keyword %q", inc.Name, inc.ID, kw),
				})
				break
			}
		}
	}
	return warnings
}

// checkSilentFailure flags the case where a positive-only upload produced no
// expenses at all, which usually means sign normalization went wrong.
func checkSilentFailure(model *models.UnifiedModel, draft *models.DraftModel) []Warning {
	if draft == nil || len(model.Expenses) > 0 {
		return nil
	}
	positives := 0
	for _, l := range draft.Lines {
		if l.Amount > 0 {
			positives++
		}
		if l.Amount < 0 {
			return nil
		}
	}
	if positives > 2 {
		return []Warning{{
			Code:    "no_expenses",
			Message: fmt.Sprintf("%d positive source lines produced zero expenses; normalization may have failed silently", positives),
		}}
	}
	return nil
}
