package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// RawLine is a single tabular row lifted out of an uploaded budget export.
// RowIndex is unique per input and stays stable through every pipeline stage
// so service responses can be matched back to their source rows.
type RawLine struct {
	RowIndex    int               `json:"row_index"`
	Date        *time.Time        `json:"date,omitempty"`
	Category    string            `json:"category"`
	Description string            `json:"description,omitempty"`
	Amount      float64           `json:"amount"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Meta returns a metadata value, tolerating a nil bag.
func (l *RawLine) Meta(key string) string {
	if l.Metadata == nil {
		return ""
	}
	return l.Metadata[key]
}

// SetMeta writes a metadata value, allocating the bag on first use.
func (l *RawLine) SetMeta(key, value string) {
	if l.Metadata == nil {
		l.Metadata = make(map[string]string)
	}
	l.Metadata[key] = value
}

// Metadata keys written into the RawLine bag during normalization.
const (
	MetaLineType       = "line_type"       // income/expense/debt_payment/savings/transfer
	MetaOriginalAmount = "original_amount" // pre-normalization amount, for audit
	MetaSignConfidence = "sign_confidence" // "unknown" defers to the classifier default
)

// Line type tags set by the service normalization strategy, consumed with top
// precedence by the classifier.
const (
	LineTypeIncome      = "income"
	LineTypeExpense     = "expense"
	LineTypeDebtPayment = "debt_payment"
	LineTypeSavings     = "savings"
	LineTypeTransfer    = "transfer"
)

// Detected source formats. Advisory only; nothing downstream gates on them.
const (
	FormatCategorical = "categorical"
	FormatLedger      = "ledger"
	FormatUnknown     = "unknown"
)

// DraftModel is the unvalidated, possibly mis-signed intermediate representation
// of an upload. Normalization replaces it wholesale; it is never merged in place.
type DraftModel struct {
	Lines          []RawLine              `json:"lines"`
	DetectedFormat string                 `json:"detected_format"`
	Notes          string                 `json:"notes,omitempty"`
	FormatHints    map[string]interface{} `json:"format_hints,omitempty"`
}

// AddNote appends a human-readable processing note.
func (d *DraftModel) AddNote(note string) {
	if note == "" {
		return
	}
	if d.Notes != "" {
		d.Notes += "; "
	}
	d.Notes += note
}

// Essential is the tri-state judgment of whether an expense is mandatory.
// EssentialUnknown means "ask the user" and is a first-class branch for the UI,
// not a missing value.
type Essential string

const (
	EssentialYes     Essential = "yes"
	EssentialNo      Essential = "no"
	EssentialUnknown Essential = "unknown"
)

// MarshalJSON renders the tri-state as true/false/null on the wire.
func (e Essential) MarshalJSON() ([]byte, error) {
	switch e {
	case EssentialYes:
		return []byte("true"), nil
	case EssentialNo:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts true/false/null (and the bare strings for round-trips).
func (e *Essential) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", `"yes"`:
		*e = EssentialYes
	case "false", `"no"`:
		*e = EssentialNo
	default:
		*e = EssentialUnknown
	}
	return nil
}

// Income sub-types and stability buckets.
const (
	IncomeEarned   = "earned"
	IncomePassive  = "passive"
	IncomeTransfer = "transfer"

	StabilityStable   = "stable"
	StabilityVariable = "variable"
	StabilitySeasonal = "seasonal"
)

// Income is a monthly income source. MonthlyAmount is a non-negative magnitude;
// membership in the collection implies the sign.
type Income struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	MonthlyAmount float64 `json:"monthly_amount"`
	Type          string  `json:"type"`
	Stability     string  `json:"stability"`
}

// Expense is a monthly spending category. Category is unique case-insensitively
// across the whole collection.
type Expense struct {
	ID            string    `json:"id"`
	Category      string    `json:"category"`
	MonthlyAmount float64   `json:"monthly_amount"`
	Essential     Essential `json:"essential"`
	Notes         string    `json:"notes,omitempty"`
}

// Debt priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// RateChange records a scheduled interest rate change on a debt.
type RateChange struct {
	Date    string  `json:"date"`
	NewRate float64 `json:"new_rate"`
}

// Debt is an outstanding obligation. Approximate marks entries promoted from
// expenses where only the payment amount is known.
type Debt struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Balance      float64      `json:"balance"`
	InterestRate float64      `json:"interest_rate"`
	MinPayment   float64      `json:"min_payment"`
	Priority     string       `json:"priority"`
	Approximate  bool         `json:"approximate"`
	RateChanges  []RateChange `json:"rate_changes,omitempty"`
}

// Optimization focus values for Preferences.
const (
	FocusDebt     = "debt"
	FocusSavings  = "savings"
	FocusBalanced = "balanced"
)

// Preferences drive downstream suggestion generation.
type Preferences struct {
	OptimizationFocus           string  `json:"optimization_focus"`
	ProtectEssentials           bool    `json:"protect_essentials"`
	MaxDesiredChangePerCategory float64 `json:"max_desired_change_per_category"`
}

// DefaultPreferences returns the conservative starting preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		OptimizationFocus:           FocusBalanced,
		ProtectEssentials:           true,
		MaxDesiredChangePerCategory: 0.25,
	}
}

// Summary is a pure function of the three collections and is never hand-edited.
// TotalExpenses includes debt minimum payments.
type Summary struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	Surplus       float64 `json:"surplus"`
}

// UnifiedModel is the canonical, validated financial model consumed by the
// downstream calculators (tax, debt payoff, retirement projection).
type UnifiedModel struct {
	Income      []Income    `json:"income"`
	Expenses    []Expense   `json:"expenses"`
	Debts       []Debt      `json:"debts"`
	Preferences Preferences `json:"preferences"`
	Summary     Summary     `json:"summary"`
	Notes       string      `json:"notes,omitempty"`
}

// RecomputeSummary rebuilds Summary from the current collections.
func (m *UnifiedModel) RecomputeSummary() {
	var income, expenses float64
	for _, inc := range m.Income {
		income += inc.MonthlyAmount
	}
	for _, exp := range m.Expenses {
		expenses += exp.MonthlyAmount
	}
	for _, d := range m.Debts {
		expenses += d.MinPayment
	}
	m.Summary = Summary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Surplus:       income - expenses,
	}
}

// Clone returns a deep copy via a JSON round-trip. The model is small enough
// that the simplicity wins over a field-by-field copy.
func (m *UnifiedModel) Clone() *UnifiedModel {
	data, err := json.Marshal(m)
	if err != nil {
		return &UnifiedModel{Preferences: m.Preferences, Summary: m.Summary}
	}
	var out UnifiedModel
	if err := json.Unmarshal(data, &out); err != nil {
		return &UnifiedModel{Preferences: m.Preferences, Summary: m.Summary}
	}
	return &out
}

// FindExpense returns the expense with the given id, or nil.
func (m *UnifiedModel) FindExpense(id string) *Expense {
	for i := range m.Expenses {
		if m.Expenses[i].ID == id {
			return &m.Expenses[i]
		}
	}
	return nil
}

// FindDebt returns the debt with the given id, or nil.
func (m *UnifiedModel) FindDebt(id string) *Debt {
	for i := range m.Debts {
		if m.Debts[i].ID == id {
			return &m.Debts[i]
		}
	}
	return nil
}
