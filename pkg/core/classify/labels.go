package classify

import (
	"fmt"
	"strings"
)

// genericLabels are category words too vague to beat a description.
var genericLabels = map[string]bool{
	"personal": true,
	"other":    true,
	"misc":     true,
	"general":  true,
	"bills":    true,
}

// chooseLabel picks the more informative of category and description.
// Description wins when the category is empty or generic, when it is strictly
// longer, and on any other non-empty mismatch.
func chooseLabel(category, description string) string {
	category = strings.TrimSpace(category)
	description = strings.TrimSpace(description)

	switch {
	case description == "":
		return category
	case category == "":
		return description
	case genericLabels[strings.ToLower(category)]:
		return description
	case strings.EqualFold(category, description):
		return category
	default:
		return description
	}
}

// LabelPicker assigns labels and guarantees they are unique case-insensitively
// within one collection.
type LabelPicker struct {
	used map[string]int // lowercased label -> occurrence count
}

// NewLabelPicker returns an empty picker.
func NewLabelPicker() *LabelPicker {
	return &LabelPicker{used: make(map[string]int)}
}

// Pick chooses and uniquifies a label for a line. On collision it retries with
// "description (category)", then appends " #n" with the 1-based occurrence
// count of the base label.
func (p *LabelPicker) Pick(category, description string) string {
	label := chooseLabel(category, description)
	if label == "" {
		label = "Unlabeled"
	}

	if p.claim(label) {
		return label
	}

	if description != "" && category != "" && !strings.EqualFold(category, description) {
		combo := fmt.Sprintf("%s (%s)", strings.TrimSpace(description), strings.TrimSpace(category))
		if p.claim(combo) {
			return combo
		}
	}

	for {
		p.used[strings.ToLower(label)]++
		n := p.used[strings.ToLower(label)]
		candidate := fmt.Sprintf("%s #%d", label, n)
		if p.claim(candidate) {
			return candidate
		}
	}
}

// claim marks a label used if it is still free.
func (p *LabelPicker) claim(label string) bool {
	key := strings.ToLower(label)
	if p.used[key] > 0 {
		return false
	}
	p.used[key] = 1
	return true
}
