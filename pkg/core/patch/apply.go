package patch

import (
	"fmt"
	"strconv"
	"strings"

	"lifepath_planner/pkg/models"
)

// FieldError reports one rejected answer. Validation is batch: the caller gets
// every problem at once, not just the first.
type FieldError struct {
	FieldID string `json:"field_id"`
	Reason  string `json:"reason"`
}

// Validate checks a flat answer payload against the grammar and the model.
// It never throws; a payload full of garbage just yields one error per key.
func Validate(model *models.UnifiedModel, answers map[string]interface{}) []FieldError {
	var errs []FieldError
	for fieldID, value := range answers {
		target, reason := parseFieldID(model, fieldID)
		if reason != "" {
			errs = append(errs, FieldError{FieldID: fieldID, Reason: reason})
			continue
		}
		if reason := checkValue(target, value); reason != "" {
			errs = append(errs, FieldError{FieldID: fieldID, Reason: reason})
		}
	}
	return errs
}

// Apply writes a validated payload onto a clone of the model and recomputes
// the summary. Unrecognized keys and bad values are silently skipped:
// Validate is the enforcement point, not Apply. Ids never change and no
// entity moves between collections.
func Apply(model *models.UnifiedModel, answers map[string]interface{}) *models.UnifiedModel {
	out := model.Clone()
	applied := 0

	for fieldID, value := range answers {
		target, reason := parseFieldID(out, fieldID)
		if reason != "" || checkValue(target, value) != "" {
			continue
		}

		switch target.Kind {
		case targetEssential:
			exp := out.FindExpense(target.ExpenseID)
			if b, _ := asBool(value); b {
				exp.Essential = models.EssentialYes
			} else {
				exp.Essential = models.EssentialNo
			}
		case targetDebtField:
			applyDebtField(out.FindDebt(target.DebtID), target.DebtField, value)
		case targetSimple:
			applySimpleKey(out, target.SimpleKey, value)
		}
		applied++
	}

	fmt.Printf("[PATCH] Applied %d of %d answers\n", applied, len(answers))
	out.RecomputeSummary()
	return out
}

// checkValue validates the answer value for a resolved target. Empty string
// means the value is acceptable.
func checkValue(target fieldTarget, value interface{}) string {
	switch target.Kind {
	case targetEssential:
		if _, ok := asBool(value); !ok {
			return "expected a boolean"
		}
	case targetDebtField:
		switch target.DebtField {
		case "balance", "min_payment":
			if n, ok := asNumber(value); !ok || n < 0 {
				return "expected a non-negative number"
			}
		case "interest_rate":
			if _, ok := asNumber(value); !ok {
				return "expected a number"
			}
		case "priority":
			if s, _ := asString(value); s != models.PriorityHigh && s != models.PriorityMedium && s != models.PriorityLow {
				return "expected one of high, medium, low"
			}
		case "approximate":
			if _, ok := asBool(value); !ok {
				return "expected a boolean"
			}
		}
	case targetSimple:
		return checkSimpleKey(target.SimpleKey, value)
	}
	return ""
}

func checkSimpleKey(key string, value interface{}) string {
	switch key {
	case "optimization_focus":
		if s, _ := asString(value); s != models.FocusDebt && s != models.FocusSavings && s != models.FocusBalanced {
			return "expected one of debt, savings, balanced"
		}
	case "protect_essentials":
		if _, ok := asBool(value); !ok {
			return "expected a boolean"
		}
	case "max_desired_change":
		if n, ok := asNumber(value); !ok || n < 0 || n > 1 {
			return "expected a fraction between 0 and 1"
		}
	case "primary_income_type":
		if s, _ := asString(value); s != models.IncomeEarned && s != models.IncomePassive && s != models.IncomeTransfer {
			return "expected one of earned, passive, transfer"
		}
	case "primary_income_stability":
		if s, _ := asString(value); s != models.StabilityStable && s != models.StabilityVariable && s != models.StabilitySeasonal {
			return "expected one of stable, variable, seasonal"
		}
	}
	return ""
}

func applyDebtField(debt *models.Debt, field string, value interface{}) {
	switch field {
	case "balance":
		debt.Balance, _ = asNumber(value)
		debt.Approximate = false
	case "interest_rate":
		debt.InterestRate, _ = asNumber(value)
	case "min_payment":
		debt.MinPayment, _ = asNumber(value)
	case "priority":
		debt.Priority, _ = asString(value)
	case "approximate":
		debt.Approximate, _ = asBool(value)
	}
}

func applySimpleKey(model *models.UnifiedModel, key string, value interface{}) {
	switch key {
	case "optimization_focus":
		model.Preferences.OptimizationFocus, _ = asString(value)
	case "protect_essentials":
		model.Preferences.ProtectEssentials, _ = asBool(value)
	case "max_desired_change":
		model.Preferences.MaxDesiredChangePerCategory, _ = asNumber(value)
	case "primary_income_type":
		if len(model.Income) > 0 {
			model.Income[0].Type, _ = asString(value)
		}
	case "primary_income_stability":
		if len(model.Income) > 0 {
			model.Income[0].Stability, _ = asString(value)
		}
	}
}

// Answer payloads arrive as decoded JSON, but clients are loose about types:
// "true", "1500", and 1500 all show up. The coercions below accept the
// obvious spellings and nothing clever.

func asBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes":
			return true, true
		case "false", "no":
			return false, true
		}
	}
	return false, false
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func asString(v interface{}) (string, bool) {
	if s, ok := v.(string); ok {
		return strings.ToLower(strings.TrimSpace(s)), true
	}
	return "", false
}
