// Package patch applies flat clarification-answer payloads onto a persisted
// UnifiedModel through a closed field-ID grammar. Validation is batch and is
// the enforcement point; apply itself is best-effort and silently skips
// unrecognized keys.
//
// The grammar, the only contract a clarification client needs:
//
//	essential_<expenseId>                       -> Expense.essential (boolean)
//	<debtId>_balance                            -> Debt.balance
//	<debtId>_interest_rate                      -> Debt.interestRate
//	<debtId>_min_payment                        -> Debt.minPayment
//	<debtId>_priority                           -> Debt.priority
//	<debtId>_approximate                        -> Debt.approximate
//	optimization_focus, protect_essentials,
//	max_desired_change, primary_income_type,
//	primary_income_stability                    -> Preferences / first Income
package patch

import (
	"strings"

	"lifepath_planner/pkg/models"
)

// Target kinds a field ID can resolve to.
const (
	targetEssential = "essential"
	targetDebtField = "debt"
	targetSimple    = "simple"
)

// Debt field suffixes, matched longest-first so "interest_rate" wins over any
// shorter accidental match inside a debt id.
var debtSuffixes = []string{
	"interest_rate",
	"min_payment",
	"approximate",
	"priority",
	"balance",
}

// simpleKeys is the fixed simple-key set.
var simpleKeys = map[string]bool{
	"optimization_focus":       true,
	"protect_essentials":       true,
	"max_desired_change":       true,
	"primary_income_type":      true,
	"primary_income_stability": true,
}

// fieldTarget is a parsed field ID. Exactly one of the entity fields is set
// depending on Kind.
type fieldTarget struct {
	Kind      string
	ExpenseID string // Kind == targetEssential
	DebtID    string // Kind == targetDebtField
	DebtField string
	SimpleKey string // Kind == targetSimple
}

// parseFieldID resolves a field ID against the grammar. The model is needed
// because entity ids are free-form: resolution checks the referenced entity
// actually exists. A non-empty reason means the ID was rejected.
func parseFieldID(model *models.UnifiedModel, fieldID string) (fieldTarget, string) {
	if simpleKeys[fieldID] {
		return fieldTarget{Kind: targetSimple, SimpleKey: fieldID}, ""
	}

	if rest, ok := strings.CutPrefix(fieldID, "essential_"); ok && rest != "" {
		if model.FindExpense(rest) != nil {
			return fieldTarget{Kind: targetEssential, ExpenseID: rest}, ""
		}
		return fieldTarget{}, "no expense with id " + rest
	}

	// Debt fields: match the longest known suffix, the rest is the debt id.
	for _, suffix := range debtSuffixes {
		rest, ok := strings.CutSuffix(fieldID, "_"+suffix)
		if !ok || rest == "" {
			continue
		}
		if model.FindDebt(rest) != nil {
			return fieldTarget{Kind: targetDebtField, DebtID: rest, DebtField: suffix}, ""
		}
		return fieldTarget{}, "no debt with id " + rest
	}

	return fieldTarget{}, "field id not recognized by the grammar"
}
