package patch

import (
	"strings"
	"testing"

	"lifepath_planner/pkg/models"
)

func patchModel() *models.UnifiedModel {
	m := &models.UnifiedModel{
		Income: []models.Income{
			{ID: "inc-1", Name: "Salary", MonthlyAmount: 5000, Type: models.IncomeEarned, Stability: models.StabilityStable},
		},
		Expenses: []models.Expense{
			{ID: "exp-1", Category: "Rent", MonthlyAmount: 1800, Essential: models.EssentialUnknown},
			{ID: "exp-2", Category: "Netflix", MonthlyAmount: 15, Essential: models.EssentialUnknown},
		},
		Debts: []models.Debt{
			{ID: "debt-1", Name: "Student Loan", MinPayment: 280, Priority: models.PriorityMedium, Approximate: true},
		},
		Preferences: models.DefaultPreferences(),
	}
	m.RecomputeSummary()
	return m
}

func TestValidateAcceptsWellFormedPayload(t *testing.T) {
	answers := map[string]interface{}{
		"essential_exp-1":          true,
		"debt-1_balance":           12000.0,
		"debt-1_interest_rate":     5.25,
		"optimization_focus":       "debt",
		"protect_essentials":       false,
		"max_desired_change":       0.3,
		"primary_income_stability": "variable",
	}
	if errs := Validate(patchModel(), answers); len(errs) != 0 {
		t.Errorf("Expected clean validation, got %v", errs)
	}
}

func TestValidateNamesMissingEntities(t *testing.T) {
	// The error must carry the offending id so the client can say which
	// question went stale
	errs := Validate(patchModel(), map[string]interface{}{
		"essential_exp-9": true,
	})
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errs))
	}
	if errs[0].FieldID != "essential_exp-9" {
		t.Errorf("FieldID = %q", errs[0].FieldID)
	}
	if !strings.Contains(errs[0].Reason, "exp-9") {
		t.Errorf("Reason does not name the id: %q", errs[0].Reason)
	}
}

func TestValidateIsBatch(t *testing.T) {
	// Every problem comes back at once, not just the first
	answers := map[string]interface{}{
		"essential_exp-1":    "maybe", // not a boolean
		"debt-9_balance":     1000.0,  // no such debt
		"favorite_color":     "blue",  // outside the grammar
		"max_desired_change": 1.5,     // above 1
	}
	errs := Validate(patchModel(), answers)
	if len(errs) != 4 {
		t.Fatalf("Expected 4 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidateValueTypes(t *testing.T) {
	cases := map[string]interface{}{
		"debt-1_balance":      -100.0,      // negative
		"debt-1_priority":     "urgent",    // not in enum
		"optimization_focus":  "yolo",      // not in enum
		"primary_income_type": 42,          // not a string
		"protect_essentials":  "sometimes", // not a boolean
	}
	for fieldID, value := range cases {
		errs := Validate(patchModel(), map[string]interface{}{fieldID: value})
		if len(errs) != 1 {
			t.Errorf("%s=%v: expected rejection, got %v", fieldID, value, errs)
		}
	}
}

func TestApplyEssentialAndDebtFields(t *testing.T) {
	in := patchModel()
	out := Apply(in, map[string]interface{}{
		"essential_exp-1":      true,
		"essential_exp-2":      false,
		"debt-1_balance":       12000.0,
		"debt-1_interest_rate": 5.25,
	})

	if out.FindExpense("exp-1").Essential != models.EssentialYes {
		t.Error("exp-1 essential not set")
	}
	if out.FindExpense("exp-2").Essential != models.EssentialNo {
		t.Error("exp-2 essential not set")
	}
	d := out.FindDebt("debt-1")
	if d.Balance != 12000 || d.InterestRate != 5.25 {
		t.Errorf("Debt fields wrong: %+v", d)
	}
	// A real balance supersedes the approximate flag
	if d.Approximate {
		t.Error("Balance answer must clear the approximate flag")
	}

	// Input untouched
	if in.FindExpense("exp-1").Essential != models.EssentialUnknown {
		t.Error("Apply mutated its input")
	}
}

func TestApplyCoercesLooseClientTypes(t *testing.T) {
	// Clients send "true" and "12000" as strings; obvious spellings apply
	out := Apply(patchModel(), map[string]interface{}{
		"essential_exp-1": "true",
		"debt-1_balance":  "12000",
	})

	if out.FindExpense("exp-1").Essential != models.EssentialYes {
		t.Error("String boolean not coerced")
	}
	if out.FindDebt("debt-1").Balance != 12000 {
		t.Error("String number not coerced")
	}
}

func TestApplySkipsBadKeysSilently(t *testing.T) {
	in := patchModel()
	out := Apply(in, map[string]interface{}{
		"essential_exp-9": true,
		"favorite_color":  "blue",
		"essential_exp-1": true,
	})

	// Good key applied, bad keys ignored, nothing else changed
	if out.FindExpense("exp-1").Essential != models.EssentialYes {
		t.Error("Valid key skipped")
	}
	if len(out.Expenses) != 2 || len(out.Debts) != 1 {
		t.Error("Bad keys changed the collections")
	}
}

func TestApplyPreferencesAndIncome(t *testing.T) {
	out := Apply(patchModel(), map[string]interface{}{
		"optimization_focus":       "savings",
		"protect_essentials":       false,
		"max_desired_change":       0.1,
		"primary_income_type":      "passive",
		"primary_income_stability": "seasonal",
	})

	p := out.Preferences
	if p.OptimizationFocus != models.FocusSavings || p.ProtectEssentials || p.MaxDesiredChangePerCategory != 0.1 {
		t.Errorf("Preferences wrong: %+v", p)
	}
	if out.Income[0].Type != models.IncomePassive || out.Income[0].Stability != models.StabilitySeasonal {
		t.Errorf("Primary income wrong: %+v", out.Income[0])
	}
}

func TestApplyIdempotent(t *testing.T) {
	answers := map[string]interface{}{
		"essential_exp-1": true,
		"debt-1_balance":  12000.0,
	}
	once := Apply(patchModel(), answers)
	twice := Apply(once, answers)

	if twice.FindDebt("debt-1").Balance != 12000 {
		t.Error("Second application changed the balance")
	}
	if twice.Summary != once.Summary {
		t.Errorf("Summary drifted: %+v vs %+v", once.Summary, twice.Summary)
	}
}

func TestApplyRecomputesSummary(t *testing.T) {
	// Raising the minimum payment must show up in the totals
	out := Apply(patchModel(), map[string]interface{}{
		"debt-1_min_payment": 400.0,
	})

	// 1800 + 15 + 400 = 2215
	if out.Summary.TotalExpenses != 2215 {
		t.Errorf("Expected total expenses 2215, got %f", out.Summary.TotalExpenses)
	}
	if out.Summary.Surplus != 5000-2215 {
		t.Errorf("Expected surplus 2785, got %f", out.Summary.Surplus)
	}
}

func TestApplyNeverMovesEntities(t *testing.T) {
	// Ids and collection membership are stable across any payload
	out := Apply(patchModel(), map[string]interface{}{
		"debt-1_approximate": false,
		"debt-1_priority":    "high",
	})

	if len(out.Income) != 1 || len(out.Expenses) != 2 || len(out.Debts) != 1 {
		t.Fatalf("Collections changed: %d/%d/%d", len(out.Income), len(out.Expenses), len(out.Debts))
	}
	if out.Debts[0].ID != "debt-1" {
		t.Errorf("Debt id changed: %s", out.Debts[0].ID)
	}
	if out.Debts[0].Priority != models.PriorityHigh || out.Debts[0].Approximate {
		t.Errorf("Debt fields wrong: %+v", out.Debts[0])
	}
}

func TestParseFieldIDSuffixPrecedence(t *testing.T) {
	// A debt id containing a suffix word still resolves: longest suffix wins
	m := patchModel()
	m.Debts = append(m.Debts, models.Debt{ID: "debt-balance", Name: "Edge", MinPayment: 10})

	target, reason := parseFieldID(m, "debt-balance_interest_rate")
	if reason != "" {
		t.Fatalf("Unexpected rejection: %s", reason)
	}
	if target.DebtID != "debt-balance" || target.DebtField != "interest_rate" {
		t.Errorf("Parsed wrong: %+v", target)
	}
}
