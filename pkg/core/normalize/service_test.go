package normalize

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lifepath_planner/pkg/models"
)

// fakeProvider returns a canned completion or error.
type fakeProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeProvider) GenerateResponse(_ context.Context, _ string, _ string, _ map[string]interface{}) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeProvider) Available() bool { return true }

func serviceDraft() *models.DraftModel {
	return &models.DraftModel{
		DetectedFormat: models.FormatCategorical,
		Lines: []models.RawLine{
			{RowIndex: 0, Category: "Salary", Amount: 5000},
			{RowIndex: 1, Category: "Rent", Amount: 1800},
		},
	}
}

func TestServiceNormalizeAppliesResponse(t *testing.T) {
	provider := &fakeProvider{response: `{
		"lines": [
			{"row_index": 0, "corrected_amount": 5000, "line_type": "income"},
			{"row_index": 1, "corrected_amount": -1800, "line_type": "expense"}
		],
		"notes": "rent flipped"
	}`}
	n := NewServiceNormalizer(provider, nil, 5*time.Second)

	out, err := n.Normalize(context.Background(), serviceDraft())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if out.Lines[0].Amount != 5000 || out.Lines[1].Amount != -1800 {
		t.Errorf("Amounts wrong: %f, %f", out.Lines[0].Amount, out.Lines[1].Amount)
	}
	if got := out.Lines[1].Meta(models.MetaLineType); got != models.LineTypeExpense {
		t.Errorf("Expected line_type expense, got %q", got)
	}
	if got := out.Lines[1].Meta(models.MetaOriginalAmount); got != "1800" {
		t.Errorf("Expected original_amount 1800, got %q", got)
	}
}

func TestServiceNormalizeEnforcesSignContract(t *testing.T) {
	// Wrong signs in the completion are coerced: income positive, the rest
	// negative, regardless of what came back
	provider := &fakeProvider{response: `{
		"lines": [
			{"row_index": 0, "corrected_amount": -5000, "line_type": "income"},
			{"row_index": 1, "corrected_amount": 1800, "line_type": "expense"}
		]
	}`}
	n := NewServiceNormalizer(provider, nil, 5*time.Second)

	out, err := n.Normalize(context.Background(), serviceDraft())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if out.Lines[0].Amount != 5000 {
		t.Errorf("Income coercion failed: %f", out.Lines[0].Amount)
	}
	if out.Lines[1].Amount != -1800 {
		t.Errorf("Expense coercion failed: %f", out.Lines[1].Amount)
	}
}

func TestServiceNormalizeCodeFencedResponse(t *testing.T) {
	// Completions wrapped in markdown fences still parse
	provider := &fakeProvider{response: "```json\n" +
		`{"lines": [{"row_index": 0, "corrected_amount": 5000, "line_type": "income"},
		            {"row_index": 1, "corrected_amount": -1800, "line_type": "expense"}]}` +
		"\n```"}
	n := NewServiceNormalizer(provider, nil, 5*time.Second)

	out, err := n.Normalize(context.Background(), serviceDraft())
	if err != nil {
		t.Fatalf("Fenced response rejected: %v", err)
	}
	if len(out.Lines) != 2 {
		t.Errorf("Expected 2 lines, got %d", len(out.Lines))
	}
}

func TestServiceNormalizeDropsUnmatchedRows(t *testing.T) {
	provider := &fakeProvider{response: `{
		"lines": [{"row_index": 0, "corrected_amount": 5000, "line_type": "income"}]
	}`}
	n := NewServiceNormalizer(provider, nil, 5*time.Second)

	out, err := n.Normalize(context.Background(), serviceDraft())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(out.Lines) != 1 {
		t.Fatalf("Expected unmatched row dropped, got %d lines", len(out.Lines))
	}
	if out.Notes == "" {
		t.Error("Expected a note about dropped rows")
	}
}

func TestServiceNormalizeFailuresReturnErrors(t *testing.T) {
	cases := map[string]*fakeProvider{
		"provider error": {err: fmt.Errorf("connection refused")},
		"garbage output": {response: "I cannot help with that."},
		"empty lines":    {response: `{"lines": []}`},
	}
	for name, provider := range cases {
		n := NewServiceNormalizer(provider, nil, 5*time.Second)
		if _, err := n.Normalize(context.Background(), serviceDraft()); err == nil {
			t.Errorf("%s: expected error for fallback", name)
		}
	}
}

func TestServiceNormalizeNilProvider(t *testing.T) {
	n := NewServiceNormalizer(nil, nil, 0)
	if _, err := n.Normalize(context.Background(), serviceDraft()); err == nil {
		t.Error("Expected error with no provider")
	}
}

func TestServiceNormalizeDoesNotMutateInput(t *testing.T) {
	provider := &fakeProvider{response: `{
		"lines": [{"row_index": 0, "corrected_amount": -5000, "line_type": "expense"},
		          {"row_index": 1, "corrected_amount": -1800, "line_type": "expense"}]
	}`}
	n := NewServiceNormalizer(provider, nil, 5*time.Second)
	draft := serviceDraft()

	_, err := n.Normalize(context.Background(), draft)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if draft.Lines[0].Amount != 5000 || draft.Lines[0].Metadata != nil {
		t.Errorf("Input draft mutated: %+v", draft.Lines[0])
	}
}
