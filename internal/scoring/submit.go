package scoring

import (
	"fmt"
	"strings"
)

// ValidateSubmission checks that every diagnostic item has a non-blank
// answer. It rejects an incomplete submission before any request is issued.
func ValidateSubmission(items []DiagnosticItem, answers map[string]string) error {
	if len(items) == 0 {
		return fmt.Errorf("no diagnostic items to submit")
	}

	var missing []string
	for _, item := range items {
		if strings.TrimSpace(answers[item.ID]) == "" {
			missing = append(missing, item.ID)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("submission incomplete: %d of %d items unanswered (first: %s)",
			len(missing), len(items), missing[0])
	}
	return nil
}

// BuildSubmission scores every item and returns the answer records in item
// order. Elapsed times are looked up per item ID; missing entries record 0.
func BuildSubmission(items []DiagnosticItem, answers map[string]string, elapsed map[string]int) ([]DiagnosticAnswer, error) {
	if err := ValidateSubmission(items, answers); err != nil {
		return nil, err
	}

	out := make([]DiagnosticAnswer, 0, len(items))
	for _, item := range items {
		out = append(out, BuildAnswer(item, answers[item.ID], elapsed[item.ID]))
	}
	return out, nil
}
